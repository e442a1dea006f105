package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"CadetTrack/internal/model"
	"CadetTrack/storage/database"
	"CadetTrack/utils"
)

var testLoc = time.FixedZone("PHT", 8*3600)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "cadettrack.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedCadets(t *testing.T, db *gorm.DB, cadets ...model.Cadet) {
	t.Helper()
	for i := range cadets {
		if err := db.Create(&cadets[i]).Error; err != nil {
			t.Fatalf("seed cadet %s: %v", cadets[i].CadetID, err)
		}
	}
}

func newCadet(id, name string, sex model.Sex) model.Cadet {
	return model.Cadet{
		CadetID:     id,
		Name:        name,
		Designation: "Platoon Leader",
		CourseYear:  "BSCS 2",
		Sex:         sex,
	}
}

func intPtr(v int) *int { return &v }

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

type testServices struct {
	db         *gorm.DB
	report     *ReportService
	attendance *AttendanceService
	history    *HistoryService
	cadets     *CadetService
}

// newTestServices 固定时区与当前时间，时间取 2024-09-06 10:00 PHT
func newTestServices(t *testing.T) *testServices {
	t.Helper()

	db := newTestDB(t)
	now := func() time.Time { return time.Date(2024, 9, 6, 10, 0, 0, 0, testLoc) }

	report := NewReportService(db)

	attendance := NewAttendanceService(db, report)
	attendance.loc = testLoc
	attendance.now = now
	attendance.cutoff = 8*time.Hour + 30*time.Minute

	history := NewHistoryService(db, report)
	history.loc = testLoc
	history.now = now

	cadets := NewCadetService(db)
	cadets.loc = testLoc
	cadets.now = now

	return &testServices{
		db:         db,
		report:     report,
		attendance: attendance,
		history:    history,
		cadets:     cadets,
	}
}

func (s *testServices) record(t *testing.T, cadetID, date, clock string, status model.AttendanceStatus) {
	t.Helper()
	_, err := s.attendance.Record(context.Background(), storeRequest(cadetID, date, clock, status))
	if err != nil {
		t.Fatalf("record %s %s %s: %v", cadetID, date, clock, err)
	}
}
