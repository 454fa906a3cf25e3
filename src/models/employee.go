package models

import "time"

// Employee พนักงานที่ถูกประเมิน; UserID คือ tenant ที่เป็นเจ้าของ (อาจไม่มี)
type Employee struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255" json:"name" validate:"required"`
	Position  string    `gorm:"size:255" json:"position"`
	UserID    *string   `gorm:"size:36;index" json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e *Employee) HasTenant() bool {
	return e.UserID != nil && *e.UserID != ""
}
