package service

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"CadetTrack/internal/model"
	"CadetTrack/internal/model/dto"
	"CadetTrack/pkg/errors"
)

func storeRequest(cadetID, date, clock string, status model.AttendanceStatus) dto.StoreAttendanceRequest {
	return dto.StoreAttendanceRequest{
		CadetID:        cadetID,
		Status:         string(status),
		AttendanceDate: date,
		AttendanceTime: clock,
	}
}

func TestRecordAppliesCutoff(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	tests := []struct {
		cadetID        string
		clock          string
		claimed        model.AttendanceStatus
		want           model.AttendanceStatus
		wantOverridden bool
	}{
		{"231-0001", "08:30:00", model.StatusPresent, model.StatusPresent, false},
		{"231-0002", "08:30:01", model.StatusPresent, model.StatusLate, true},
		{"231-0003", "08:00:00", model.StatusLate, model.StatusPresent, true},
		{"231-0004", "09:15:00", model.StatusAbsent, model.StatusAbsent, false},
		{"231-0005", "07:45", model.StatusPresent, model.StatusPresent, false},
	}

	for _, tt := range tests {
		seedCadets(t, s.db, newCadet(tt.cadetID, "Cadet "+tt.cadetID, model.SexMale))
	}

	for _, tt := range tests {
		t.Run(tt.cadetID, func(t *testing.T) {
			resp, err := s.attendance.Record(ctx, storeRequest(tt.cadetID, "2024-09-06", tt.clock, tt.claimed))
			if err != nil {
				t.Fatalf("Record: %v", err)
			}
			if resp.Record.Status != string(tt.want) {
				t.Errorf("status = %s, want %s", resp.Record.Status, tt.want)
			}
			if resp.Overridden != tt.wantOverridden {
				t.Errorf("overridden = %v, want %v", resp.Overridden, tt.wantOverridden)
			}
			if resp.ClaimedStatus != string(tt.claimed) {
				t.Errorf("claimed = %s, want %s", resp.ClaimedStatus, tt.claimed)
			}
			if resp.Record.Name != "Cadet "+tt.cadetID {
				t.Errorf("name = %q", resp.Record.Name)
			}
		})
	}
}

func TestRecordRejectsDuplicate(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	seedCadets(t, s.db, newCadet("231-0282", "Juan Dela Cruz", model.SexMale))

	s.record(t, "231-0282", "2024-09-06", "08:00:00", model.StatusPresent)

	_, err := s.attendance.Record(ctx, storeRequest("231-0282", "2024-09-06", "09:00:00", model.StatusLate))
	if !stderrors.Is(err, errors.AttendanceDuplicate) {
		t.Fatalf("err = %v, want AttendanceDuplicate", err)
	}

	var records []model.AttendanceRecord
	if err := s.db.Where("cadet_id = ?", "231-0282").Find(&records).Error; err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Status != model.StatusPresent {
		t.Errorf("status = %s, want present", records[0].Status)
	}
	if got := records[0].AttendanceTime.String(); got != "08:00:00" {
		t.Errorf("time = %s, want 08:00:00", got)
	}

	// 换一天可以再打卡
	s.record(t, "231-0282", "2024-09-07", "08:10:00", model.StatusPresent)
}

func TestRecordUnknownCadet(t *testing.T) {
	s := newTestServices(t)

	_, err := s.attendance.Record(context.Background(), storeRequest("999-9999", "2024-09-06", "08:00:00", model.StatusPresent))

	var verr *errors.ValidationError
	if !stderrors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if _, ok := verr.Fields["cadet_id"]; !ok {
		t.Errorf("fields = %v, want cadet_id", verr.Fields)
	}
}

func TestRecordRejectsBadInput(t *testing.T) {
	s := newTestServices(t)
	seedCadets(t, s.db, newCadet("231-0282", "Juan Dela Cruz", model.SexMale))

	tests := []struct {
		name  string
		req   dto.StoreAttendanceRequest
		field string
	}{
		{"bad date", storeRequest("231-0282", "2024-13-40", "08:00:00", model.StatusPresent), "attendance_date"},
		{"bad time", storeRequest("231-0282", "2024-09-06", "8 o'clock", model.StatusPresent), "attendance_time"},
		{"bad status", storeRequest("231-0282", "2024-09-06", "08:00:00", "excused"), "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.attendance.Record(context.Background(), tt.req)
			var verr *errors.ValidationError
			if !stderrors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("fields = %v, want %s", verr.Fields, tt.field)
			}
		})
	}
}

func TestListOrdersByTimeAndFilters(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	seedCadets(t, s.db,
		newCadet("231-0001", "Ana Reyes", model.SexFemale),
		newCadet("231-0002", "Ben Santos", model.SexMale),
		newCadet("231-0003", "Carl Lim", model.SexMale),
	)
	s.record(t, "231-0001", "2024-09-06", "08:40:00", model.StatusPresent)
	s.record(t, "231-0002", "2024-09-06", "07:55:00", model.StatusPresent)
	s.record(t, "231-0003", "2024-09-05", "08:00:00", model.StatusPresent)

	resp, err := s.attendance.List(ctx, dto.AttendanceQuery{Date: "2024-09-06"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(resp.Records))
	}
	if resp.Records[0].CadetID != "231-0002" || resp.Records[1].CadetID != "231-0001" {
		t.Errorf("order = %s, %s", resp.Records[0].CadetID, resp.Records[1].CadetID)
	}
	if resp.Stats.TotalCadets != 3 || resp.Stats.Present != 1 || resp.Stats.Late != 1 || resp.Stats.Absent != 1 {
		t.Errorf("stats = %+v", resp.Stats)
	}

	late, err := s.attendance.List(ctx, dto.AttendanceQuery{Date: "2024-09-06", Status: "late"})
	if err != nil {
		t.Fatal(err)
	}
	if len(late.Records) != 1 || late.Records[0].CadetID != "231-0001" {
		t.Errorf("late records = %+v", late.Records)
	}

	search, err := s.attendance.List(ctx, dto.AttendanceQuery{Date: "2024-09-06", PageQuery: dto.PageQuery{Search: "BEN"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(search.Records) != 1 || search.Records[0].CadetID != "231-0002" {
		t.Errorf("search records = %+v", search.Records)
	}
}

func TestTodayUsesConfiguredZone(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	seedCadets(t, s.db, newCadet("231-0001", "Ana Reyes", model.SexFemale))
	s.record(t, "231-0001", "2024-09-06", "08:00:00", model.StatusPresent)

	if got := s.attendance.Today().Format("2006-01-02"); got != "2024-09-06" {
		t.Fatalf("today = %s", got)
	}

	today, err := s.attendance.TodayRecords(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if today.Date != "2024-09-06" || len(today.Records) != 1 {
		t.Errorf("today = %+v", today)
	}

	stats, err := s.attendance.TodayStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.AttendanceRate != 100 {
		t.Errorf("rate = %v, want 100", stats.AttendanceRate)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	s := newTestServices(t)
	seedCadets(t, s.db,
		newCadet("231-0001", "Ana Reyes", model.SexFemale),
		newCadet("231-0002", "Ben Santos", model.SexMale),
	)
	s.record(t, "231-0001", "2024-09-06", "08:00:00", model.StatusPresent)
	s.record(t, "231-0002", "2024-09-06", "08:05:00", model.StatusPresent)

	recent, err := s.attendance.Recent(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].CadetID != "231-0002" {
		t.Errorf("recent = %+v", recent)
	}
}

func TestExportAttendanceCSV(t *testing.T) {
	s := newTestServices(t)
	seedCadets(t, s.db, newCadet("231-0282", "Dela Cruz, Juan", model.SexMale))
	s.record(t, "231-0282", "2024-09-06", "08:45:00", model.StatusPresent)

	body, filename, err := s.attendance.ExportCSV(context.Background(), "2024-09-06")
	if err != nil {
		t.Fatal(err)
	}
	if filename != "attendance-2024-09-06.csv" {
		t.Errorf("filename = %q", filename)
	}

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "Name,Cadet ID,Status,Time" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `"Dela Cruz, Juan",231-0282,Late,08:45 AM` {
		t.Errorf("row = %q", lines[1])
	}
}
