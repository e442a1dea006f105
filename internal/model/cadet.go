package model

// Sex 学员性别
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// Cadet 学员名册，CadetID 为对外编号，如 231-0282
type Cadet struct {
	BaseModel
	CadetID     string `gorm:"column:cadet_id;type:varchar(50);uniqueIndex;not null" json:"cadet_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Designation string `gorm:"type:varchar(255);not null;default:''" json:"designation"`
	CourseYear  string `gorm:"type:varchar(50);not null;default:''" json:"course_year"`
	Sex         Sex    `gorm:"type:varchar(10);not null;index:idx_cadets_sex" json:"sex"`
}

// TableName 指定表名
func (Cadet) TableName() string {
	return "cadets"
}
