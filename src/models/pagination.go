package models

import (
	"fmt"
	"math"
)

// PaginationParams ใช้เก็บค่าการแบ่งหน้า, ค้นหา และเรียงลำดับ
type PaginationParams struct {
	Page   int    `json:"page" query:"page" example:"1"`        // หมายเลขหน้าที่ต้องการ
	Limit  int    `json:"limit" query:"limit" example:"10"`     // จำนวนรายการต่อหน้า
	Search string `json:"search" query:"search" example:""`     // คำค้นหา (Optional)
	SortBy string `json:"sortBy" query:"sortBy" example:"name"` // คอลัมน์ที่ใช้เรียงลำดับ
	Order  string `json:"order" query:"order" example:"asc"`    // ทิศทางการเรียง (asc/desc)
}

// PaginatedResponse โครงสร้างการตอบกลับแบบแบ่งหน้า
type PaginatedResponse struct {
	Data        interface{} `json:"data"`
	Total       int64       `json:"total"`
	Page        int         `json:"page"`
	Limit       int         `json:"limit"`
	TotalPages  int         `json:"totalPages"`
	HasNext     bool        `json:"hasNext"`
	HasPrevious bool        `json:"hasPrevious"`
}

const maxPageLimit = 100

// DefaultPagination ค่าตั้งต้นสำหรับ Pagination
func DefaultPagination() PaginationParams {
	return PaginationParams{
		Page:   1,
		Limit:  10,
		SortBy: "name",
		Order:  "asc",
	}
}

// Normalize clamps page/limit and falls back to the default sort when SortBy is not
// one of the allowed columns (the value ends up in ORDER BY).
func (p *PaginationParams) Normalize(allowedSort ...string) {
	def := DefaultPagination()
	if p.Page < 1 {
		p.Page = def.Page
	}
	if p.Limit < 1 {
		p.Limit = def.Limit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	allowed := false
	for _, col := range allowedSort {
		if p.SortBy == col {
			allowed = true
			break
		}
	}
	if !allowed {
		p.SortBy = def.SortBy
		if len(allowedSort) > 0 {
			p.SortBy = allowedSort[0]
		}
	}
	if p.Order != "desc" {
		p.Order = "asc"
	}
}

// NewPaginatedResponse สร้าง PaginatedResponse ใหม่
func NewPaginatedResponse(data interface{}, total int64, params PaginationParams) *PaginatedResponse {
	totalPages := int(math.Ceil(float64(total) / float64(params.Limit)))

	return &PaginatedResponse{
		Data:        data,
		Total:       total,
		Page:        params.Page,
		Limit:       params.Limit,
		TotalPages:  totalPages,
		HasNext:     params.Page < totalPages,
		HasPrevious: params.Page > 1,
	}
}

// GetSkip คำนวณจำนวนรายการที่ต้องข้าม
func (p *PaginationParams) GetSkip() int {
	return (p.Page - 1) * p.Limit
}

// OrderClause e.g. "name asc"
func (p *PaginationParams) OrderClause() string {
	return fmt.Sprintf("%s %s", p.SortBy, p.Order)
}
