package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	hzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"CadetTrack/storage/database"
)

// TestMain 用临时 sqlite 作为全局连接，service 单例会拿到它
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cadettrack-handler")
	if err != nil {
		panic(err)
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "cadettrack.db")+"?_foreign_keys=on"), database.GormConfig())
	if err != nil {
		panic(err)
	}
	if err := database.Migrate(db); err != nil {
		panic(err)
	}
	database.Set(db)

	code := m.Run()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type envelope struct {
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Success bool                `json:"success"`
}

func newEngine() *route.Engine {
	return route.NewEngine(hzconfig.NewOptions([]hzconfig.Option{}))
}

func perform(t *testing.T, engine *route.Engine, method, url string, body interface{}) (int, envelope) {
	t.Helper()

	var reqBody *ut.Body
	headers := []ut.Header{}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reqBody = &ut.Body{Body: bytes.NewReader(raw), Len: len(raw)}
		headers = append(headers, ut.Header{Key: "Content-Type", Value: "application/json"})
	}

	resp := ut.PerformRequest(engine, method, url, reqBody, headers...).Result()

	var env envelope
	if len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), &env); err != nil {
			t.Fatalf("decode %s: %v", resp.Body(), err)
		}
	}
	return resp.StatusCode(), env
}

func TestBindValidationErrors(t *testing.T) {
	engine := newEngine()
	engine.POST("/attendance", StoreAttendance)
	engine.POST("/register", Register)
	engine.GET("/reports", RangeReport)
	engine.GET("/history", HistoryIndex)
	engine.GET("/history/download", DownloadHistory)

	tests := []struct {
		name   string
		method string
		url    string
		body   interface{}
		want   map[string]string
	}{
		{
			name:   "missing attendance fields",
			method: http.MethodPost,
			url:    "/attendance",
			body:   map[string]string{},
			want: map[string]string{
				"cadet_id":        "The cadet id field is required.",
				"status":          "The status field is required.",
				"attendance_date": "The attendance date field is required.",
				"attendance_time": "The attendance time field is required.",
			},
		},
		{
			name:   "bad clock and status",
			method: http.MethodPost,
			url:    "/attendance",
			body: map[string]string{
				"cadet_id":        "231-0282",
				"status":          "excused",
				"attendance_date": "2024-09-06",
				"attendance_time": "8am",
			},
			want: map[string]string{
				"status":          "The selected status is invalid.",
				"attendance_time": "The attendance time does not match the format H:i:s.",
			},
		},
		{
			name:   "password confirmation",
			method: http.MethodPost,
			url:    "/register",
			body: map[string]string{
				"name":                  "Officer",
				"username":              "oic",
				"password":              "secret-pass",
				"password_confirmation": "other-pass",
			},
			want: map[string]string{
				"password": "The password field confirmation does not match.",
			},
		},
		{
			name:   "report dates",
			method: http.MethodGet,
			url:    "/reports?start_date=2024-09-01&end_date=09/30/2024",
			want: map[string]string{
				"end_date": "The end date does not match the format Y-m-d.",
			},
		},
		{
			name:   "explicit zero month",
			method: http.MethodGet,
			url:    "/history?month=0&year=2024",
			want: map[string]string{
				"month": "The month field must be at least 1.",
			},
		},
		{
			name:   "explicit zero year",
			method: http.MethodGet,
			url:    "/history/download?month=9&year=0",
			want: map[string]string{
				"year": "The year field must be at least 2020.",
			},
		},
		{
			name:   "month out of range",
			method: http.MethodGet,
			url:    "/history?month=13",
			want: map[string]string{
				"month": "The month field must not be greater than 12.",
			},
		},
		{
			name:   "report span too long",
			method: http.MethodGet,
			url:    "/reports?start_date=0001-01-01&end_date=9999-12-31",
			want: map[string]string{
				"end_date": "The date range must not exceed 366 days.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := perform(t, engine, tt.method, tt.url, tt.body)
			if status != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422 (%+v)", status, env)
			}
			if env.Code != "VALIDATION_FAILED" {
				t.Errorf("code = %q", env.Code)
			}
			if len(env.Errors) != len(tt.want) {
				t.Errorf("errors = %v, want %d fields", env.Errors, len(tt.want))
			}
			for field, msg := range tt.want {
				if got := env.Errors[field]; len(got) == 0 || got[0] != msg {
					t.Errorf("%s = %v, want %q", field, got, msg)
				}
			}
		})
	}
}

func TestCadetAndAttendanceFlow(t *testing.T) {
	engine := newEngine()
	engine.POST("/cadets", CreateCadet)
	engine.GET("/cadets/:cadet_id", GetCadet)
	engine.DELETE("/cadets/:cadet_id", DeleteCadet)
	engine.POST("/attendance", StoreAttendance)
	engine.GET("/reports", RangeReport)

	status, env := perform(t, engine, http.MethodPost, "/cadets", map[string]string{
		"cadet_id":    "231-0282",
		"name":        "Juan Dela Cruz",
		"designation": "Squad Leader",
		"course_year": "BSIT 3",
		"sex":         "Male",
	})
	if status != http.StatusCreated {
		t.Fatalf("create cadet = %d %+v", status, env)
	}
	t.Cleanup(func() { perform(t, engine, http.MethodDelete, "/cadets/231-0282", nil) })

	status, env = perform(t, engine, http.MethodPost, "/cadets", map[string]string{
		"cadet_id":    "231-0282",
		"name":        "Someone Else",
		"designation": "Member",
		"course_year": "BSIT 1",
		"sex":         "Female",
	})
	if status != http.StatusUnprocessableEntity || env.Code != "CADET_ID_TAKEN" {
		t.Errorf("duplicate cadet = %d %+v", status, env)
	}

	if status, env = perform(t, engine, http.MethodGet, "/cadets/000-0000", nil); status != http.StatusNotFound {
		t.Errorf("missing cadet = %d %+v", status, env)
	}

	checkIn := map[string]string{
		"cadet_id":        "231-0282",
		"status":          "present",
		"attendance_date": "2024-09-06",
		"attendance_time": "08:31:00",
	}
	status, env = perform(t, engine, http.MethodPost, "/attendance", checkIn)
	if status != http.StatusCreated {
		t.Fatalf("store attendance = %d %+v", status, env)
	}
	var stored struct {
		Record struct {
			Status string `json:"status"`
		} `json:"record"`
		Overridden bool `json:"overridden"`
	}
	if err := json.Unmarshal(env.Data, &stored); err != nil {
		t.Fatal(err)
	}
	if stored.Record.Status != "late" || !stored.Overridden {
		t.Errorf("stored = %+v", stored)
	}

	status, env = perform(t, engine, http.MethodPost, "/attendance", checkIn)
	if status != http.StatusUnprocessableEntity || env.Code != "ATTENDANCE_DUPLICATE" {
		t.Errorf("duplicate attendance = %d %+v", status, env)
	}

	checkIn["cadet_id"] = "999-9999"
	status, env = perform(t, engine, http.MethodPost, "/attendance", checkIn)
	if status != http.StatusUnprocessableEntity || len(env.Errors["cadet_id"]) == 0 {
		t.Errorf("unknown cadet = %d %+v", status, env)
	}

	status, env = perform(t, engine, http.MethodGet, "/reports?start_date=2024-09-10&end_date=2024-09-01", nil)
	if status != http.StatusUnprocessableEntity || len(env.Errors["end_date"]) == 0 {
		t.Errorf("reversed report = %d %+v", status, env)
	}
}

func TestHealth(t *testing.T) {
	engine := newEngine()
	engine.GET("/healthz", Health)

	status, env := perform(t, engine, http.MethodGet, "/healthz", nil)
	if status != http.StatusOK || !env.Success {
		t.Errorf("health = %d %+v", status, env)
	}
}
