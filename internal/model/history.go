package model

import "gorm.io/datatypes"

// AttendanceHistory 单日考勤快照，每个日期一行
type AttendanceHistory struct {
	BaseModel
	AttendanceDate datatypes.Date `gorm:"not null;uniqueIndex:uniq_history_date" json:"attendance_date"`
	TotalCadets    int            `gorm:"not null;default:0" json:"total_cadets"`
	PresentCount   int            `gorm:"not null;default:0" json:"present_count"`
	LateCount      int            `gorm:"not null;default:0" json:"late_count"`
	AbsentCount    int            `gorm:"not null;default:0" json:"absent_count"`
}

// TableName 指定表名
func (AttendanceHistory) TableName() string {
	return "attendance_history"
}
