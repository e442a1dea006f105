package dto

import "time"

// ========== Report 相关 DTO ==========

// ReportQuery 区间报表参数
type ReportQuery struct {
	StartDate string `query:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"required,datetime=2006-01-02"`
	Format    string `query:"format" validate:"omitempty,oneof=csv xlsx"`
}

// RangeReport 区间报表
type RangeReport struct {
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	Daily       []DailyStats `json:"daily"`
	TotalCadets int          `json:"total_cadets"`
	Present     int          `json:"present"`
	Late        int          `json:"late"`
	Absent      int          `json:"absent"`
	AverageRate float64      `json:"average_rate"`
}

// StudentsQuery 按状态查询学员
type StudentsQuery struct {
	PageQuery
	Date   string `query:"date" validate:"required,datetime=2006-01-02"`
	Status string `query:"status" validate:"required,oneof=present late absent all"`
}

// StudentData 学员及其当日状态，缺勤时无时间
type StudentData struct {
	Timestamp      *time.Time `json:"timestamp"`
	AttendanceTime *string    `json:"attendance_time"`
	CadetID        string     `json:"cadet_id"`
	Name           string     `json:"name"`
	Designation    string     `json:"designation"`
	CourseYear     string     `json:"course_year"`
	Sex            string     `json:"sex"`
	Status         string     `json:"status"`
}

// StudentsResponse 按状态查询结果
type StudentsResponse struct {
	Date       string        `json:"date"`
	Status     string        `json:"status"`
	Students   []StudentData `json:"students"`
	Pagination Pagination    `json:"pagination"`
}
