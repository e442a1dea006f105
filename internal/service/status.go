package service

import (
	"math"
	"strings"
	"time"

	"CadetTrack/internal/model"
	"CadetTrack/internal/model/dto"
	"CadetTrack/utils"
)

// DeriveStatus 按截止时间推导状态：at <= cutoff 为 present，否则 late
// 声明为 absent 时原样保留
func DeriveStatus(claimed model.AttendanceStatus, at, cutoff time.Time) model.AttendanceStatus {
	if claimed == model.StatusAbsent {
		return model.StatusAbsent
	}
	if at.After(cutoff) {
		return model.StatusLate
	}
	return model.StatusPresent
}

// RoundRate 保留两位小数，0.5 远离零进位
// 先把 x*100 对齐到 1e-6，66.665 这类值的浮点表示略小于 .5，直接 Round 会舍掉
func RoundRate(x float64) float64 {
	hundredths := math.Round(x*100*1e6) / 1e6
	return math.Round(hundredths) / 100
}

// AverageRate 两位小数出勤率的均值，按百分之一取整后用整数做四舍五入
func AverageRate(rates []float64) float64 {
	if len(rates) == 0 {
		return 0
	}
	var sum int64
	for _, r := range rates {
		sum += int64(math.Round(r * 100))
	}
	n := int64(len(rates))
	return float64((2*sum+n)/(2*n)) / 100
}

// AttendanceRate (present+late)/total 的百分比，total 为 0 时为 0
func AttendanceRate(present, late, total int) float64 {
	if total <= 0 {
		return 0
	}
	return RoundRate(float64(present+late) / float64(total) * 100)
}

// ComputeDaily absent 由总人数减去到场人数得出，不看存下来的 absent 行
func ComputeDaily(date time.Time, total, present, late int) dto.DailyStats {
	return dto.DailyStats{
		Date:           date.Format(utils.DateLayout),
		TotalCadets:    total,
		Present:        present,
		Late:           late,
		Absent:         total - (present + late),
		AttendanceRate: AttendanceRate(present, late, total),
	}
}

// titleStatus present -> Present
func titleStatus(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
