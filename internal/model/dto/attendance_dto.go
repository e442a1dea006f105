package dto

import "time"

// ========== Attendance 相关 DTO ==========

// StoreAttendanceRequest 打卡请求
type StoreAttendanceRequest struct {
	CadetID        string `json:"cadet_id" validate:"required,max=50"`
	Status         string `json:"status" validate:"required,oneof=present late absent"`
	AttendanceDate string `json:"attendance_date" validate:"required,datetime=2006-01-02"`
	AttendanceTime string `json:"attendance_time" validate:"required,clock"`
}

// AttendanceQuery 当日记录列表参数，date 为空时取今天
type AttendanceQuery struct {
	PageQuery
	Date   string `query:"date" validate:"omitempty,datetime=2006-01-02"`
	Status string `query:"status" validate:"omitempty,oneof=present late absent"`
}

// ExportQuery 导出参数
type ExportQuery struct {
	Date string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

// RecentQuery 最近打卡参数
type RecentQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=50"`
}

// AttendanceRecordData 带学员信息的打卡记录
type AttendanceRecordData struct {
	Timestamp      time.Time `json:"timestamp"`
	CadetID        string    `json:"cadet_id"`
	Name           string    `json:"name"`
	Designation    string    `json:"designation"`
	CourseYear     string    `json:"course_year"`
	Sex            string    `json:"sex"`
	Status         string    `json:"status"`
	AttendanceDate string    `json:"attendance_date"`
	AttendanceTime string    `json:"attendance_time"`
	ID             int64     `json:"id"`
}

// DailyStats 单日统计
type DailyStats struct {
	Date           string  `json:"date"`
	TotalCadets    int     `json:"total_cadets"`
	Present        int     `json:"present"`
	Late           int     `json:"late"`
	Absent         int     `json:"absent"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// AttendanceListResponse 当日记录列表
type AttendanceListResponse struct {
	Date       string                 `json:"date"`
	Records    []AttendanceRecordData `json:"records"`
	Stats      DailyStats             `json:"stats"`
	Pagination Pagination             `json:"pagination"`
}

// StoreAttendanceResponse 打卡结果，overridden 表示状态被截止规则改写
type StoreAttendanceResponse struct {
	Record        AttendanceRecordData `json:"record"`
	ClaimedStatus string               `json:"claimed_status"`
	Overridden    bool                 `json:"overridden"`
}
