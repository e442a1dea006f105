package model

// HistoryArchiveMessage 日终归档消息
type HistoryArchiveMessage struct {
	MessageID      string `json:"message_id"` // 消息唯一ID，用于幂等性检查
	AttendanceDate string `json:"attendance_date"`
	RequestedAt    string `json:"requested_at"`
}
