package model

import (
	"time"

	"gorm.io/datatypes"
)

// AttendanceStatus 考勤状态
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
	StatusAbsent  AttendanceStatus = "absent"
)

// Valid 是否为可存储的状态
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent:
		return true
	}
	return false
}

// Recorded 只有 present 和 late 计为到场，存下来的 absent 不算
func (s AttendanceStatus) Recorded() bool {
	return s == StatusPresent || s == StatusLate
}

// AttendanceRecord 单个学员单日的打卡记录，(cadet_id, attendance_date) 唯一
type AttendanceRecord struct {
	BaseModel
	CadetID        string           `gorm:"column:cadet_id;type:varchar(50);not null;uniqueIndex:uniq_attendance_cadet_date,priority:1" json:"cadet_id"`
	Status         AttendanceStatus `gorm:"type:varchar(10);not null;index:idx_attendance_status" json:"status"`
	Timestamp      time.Time        `gorm:"not null;index:idx_attendance_timestamp" json:"timestamp"`
	AttendanceDate datatypes.Date   `gorm:"not null;uniqueIndex:uniq_attendance_cadet_date,priority:2;index:idx_attendance_date" json:"attendance_date"`
	AttendanceTime datatypes.Time   `gorm:"not null" json:"attendance_time"`

	Cadet *Cadet `gorm:"foreignKey:CadetID;references:CadetID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"cadet,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
