package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"CadetTrack/internal/model/dto"
	"CadetTrack/utils"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	attendanceCSVHeader = []string{"Name", "Cadet ID", "Status", "Time"}
	summaryCSVHeader    = []string{"Date", "Total Cadets", "Present", "Late", "Absent", "Attendance Rate"}
)

// SummaryRow 报表与历史导出共用的一行
type SummaryRow struct {
	Date        string
	TotalCadets int
	Present     int
	Late        int
	Absent      int
	Rate        float64
}

// WriteAttendanceCSV 单日打卡明细，时间为 12 小时制
func WriteAttendanceCSV(records []dto.AttendanceRecordData) ([]byte, error) {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, attendanceCSVHeader)
	for _, r := range records {
		rows = append(rows, []string{r.Name, r.CadetID, titleStatus(r.Status), formatClock12(r.AttendanceTime)})
	}
	return writeCSV(rows)
}

// WriteSummaryCSV 每日汇总，出勤率保留两位小数
func WriteSummaryCSV(rows []SummaryRow) ([]byte, error) {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, summaryCSVHeader)
	for _, r := range rows {
		out = append(out, []string{
			r.Date,
			strconv.Itoa(r.TotalCadets),
			strconv.Itoa(r.Present),
			strconv.Itoa(r.Late),
			strconv.Itoa(r.Absent),
			fmt.Sprintf("%.2f", r.Rate),
		})
	}
	return writeCSV(out)
}

// WriteSummaryXLSX 与 WriteSummaryCSV 相同的表格，输出为 Excel
func WriteSummaryXLSX(rows []SummaryRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(summaryCSVHeader))
	for i, h := range summaryCSVHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "F1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	rate, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return nil, fmt.Errorf("failed to create rate style: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{r.Date, r.TotalCadets, r.Present, r.Late, r.Absent, r.Rate}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
		rateCell, _ := excelize.CoordinatesToCellName(6, i+2)
		if err := f.SetCellStyle(sheet, rateCell, rateCell, rate); err != nil {
			return nil, fmt.Errorf("failed to style row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "F", 16); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// formatClock12 08:15:00 -> 08:15 AM，无法解析时原样返回
func formatClock12(clock string) string {
	d, err := utils.ParseClock(clock)
	if err != nil {
		return clock
	}
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(d).Format("03:04 PM")
}
