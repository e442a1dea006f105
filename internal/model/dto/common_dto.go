package dto

import "math"

// Pagination 分页信息
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// NewPagination 计算 last_page，空结果时为 1
func NewPagination(page, perPage int, total int64) Pagination {
	last := 1
	if perPage > 0 && total > 0 {
		last = int(math.Ceil(float64(total) / float64(perPage)))
	}
	return Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    last,
	}
}

// PageQuery 列表通用的分页与搜索参数
type PageQuery struct {
	Page    int    `query:"page" validate:"omitempty,min=1"`
	PerPage int    `query:"per_page" validate:"omitempty,min=1,max=100"`
	Search  string `query:"search" validate:"omitempty,max=255"`
}

// Normalize 填充默认值
func (q *PageQuery) Normalize(defaultPerPage int) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage > 100 {
		q.PerPage = 100
	}
}

// Offset 当前页的偏移量
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}
