package model

// UserRole 后台账号角色
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
)

// User 后台账号
type User struct {
	BaseModel
	Username     string   `gorm:"uniqueIndex;type:varchar(64);not null" json:"username"`
	Name         string   `gorm:"type:varchar(255);not null" json:"name"`
	PasswordHash string   `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(16);not null;default:'admin'" json:"role"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
