package repository

import (
	"strings"

	"gorm.io/gorm"
)

// searchCadets 在 cadets 表的姓名与编号上做不区分大小写的子串匹配
func searchCadets(db *gorm.DB, search string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" {
		return db
	}
	like := "%" + strings.ToLower(search) + "%"
	return db.Where("(LOWER(cadets.name) LIKE ? OR LOWER(cadets.cadet_id) LIKE ?)", like, like)
}
