package dto

// ========== History 相关 DTO ==========

// HistoryQuery 月度历史参数，未传时取当前月；显式传 0 视为越界
type HistoryQuery struct {
	Month *int `query:"month" validate:"omitnil,min=1,max=12"`
	Year  *int `query:"year" validate:"omitnil,min=2020,max=2100"`
}

// HistoryDownloadQuery 按月或按日下载
type HistoryDownloadQuery struct {
	Date  string `query:"date" validate:"omitempty,datetime=2006-01-02"`
	Month *int   `query:"month" validate:"omitnil,min=1,max=12"`
	Year  *int   `query:"year" validate:"omitnil,min=2020,max=2100"`
}

// SaveHistoryRequest 手动保存快照，计数之间不做一致性校验
type SaveHistoryRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	TotalCadets *int   `json:"total_cadets" validate:"required,min=0"`
	Present     *int   `json:"present" validate:"required,min=0"`
	Late        *int   `json:"late" validate:"required,min=0"`
	Absent      *int   `json:"absent" validate:"required,min=0"`
}

// ArchiveRequest 按实时统计归档某日，queue 为 true 时交给 worker 异步处理
type ArchiveRequest struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Queue bool   `json:"queue"`
}

// ArchiveQueuedResponse 异步归档的投递结果
type ArchiveQueuedResponse struct {
	MessageID      string `json:"message_id"`
	AttendanceDate string `json:"attendance_date"`
}

// HistoryData 单日快照
type HistoryData struct {
	AttendanceDate string  `json:"attendance_date"`
	DayName        string  `json:"day_name"`
	ID             int64   `json:"id"`
	TotalCadets    int     `json:"total_cadets"`
	PresentCount   int     `json:"present_count"`
	LateCount      int     `json:"late_count"`
	AbsentCount    int     `json:"absent_count"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// GraphData 按日期升序的时间序列
type GraphData struct {
	Dates   []string `json:"dates"`
	Present []int    `json:"present"`
	Late    []int    `json:"late"`
	Absent  []int    `json:"absent"`
}

// HistoryIndexResponse 月度历史
type HistoryIndexResponse struct {
	Month     string        `json:"month"`
	History   []HistoryData `json:"history"`
	GraphData GraphData     `json:"graph_data"`
}
