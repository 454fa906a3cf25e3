package models

import "time"

// Role ของผู้ใช้งาน
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Caller is the identity attached to every request (JWT sub + role).
type Caller struct {
	SubjectID string `json:"sub"`
	Role      Role   `json:"role"`
}

func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

// SystemCaller is used by scheduled jobs that act on every tenant.
func SystemCaller() Caller {
	return Caller{SubjectID: "system", Role: RoleAdmin}
}

// User เจ้าของ (tenant) ของพนักงาน
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email"`
	Role      Role      `gorm:"size:16" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
