package dto

import "CadetTrack/internal/model"

// ========== Cadet 相关 DTO ==========

// CreateCadetRequest 新建学员
type CreateCadetRequest struct {
	CadetID     string `json:"cadet_id" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=255"`
	Designation string `json:"designation" validate:"required,max=255"`
	CourseYear  string `json:"course_year" validate:"required,max=50"`
	Sex         string `json:"sex" validate:"required,oneof=Male Female"`
}

// UpdateCadetRequest 部分更新，未传的字段保持不变
type UpdateCadetRequest struct {
	CadetID     *string `json:"cadet_id" validate:"omitempty,min=1,max=50"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Designation *string `json:"designation" validate:"omitempty,min=1,max=255"`
	CourseYear  *string `json:"course_year" validate:"omitempty,min=1,max=50"`
	Sex         *string `json:"sex" validate:"omitempty,oneof=Male Female"`
}

// CadetListResponse 学员列表
type CadetListResponse struct {
	Cadets     []model.Cadet `json:"cadets"`
	Pagination Pagination    `json:"pagination"`
}

// CadetCount 按性别统计
type CadetCount struct {
	Total  int64 `json:"total"`
	Male   int64 `json:"male"`
	Female int64 `json:"female"`
}
