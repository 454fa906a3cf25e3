package models

import (
	"strconv"
	"strings"
	"time"
)

type QuestionType string

const (
	QuestionRange    QuestionType = "RANGE"
	QuestionRadio    QuestionType = "RADIO"
	QuestionTextarea QuestionType = "TEXTAREA"
)

// Scored reports whether answers of this type add to totalPoint.
func (t QuestionType) Scored() bool {
	return t == QuestionRange || t == QuestionRadio
}

type Survey struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:255" json:"title" validate:"required"`
	Description string     `json:"description"`
	Questions   []Question `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"questions" validate:"dive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Question struct {
	ID       string           `gorm:"primaryKey;size:36" json:"id"`
	SurveyID string           `gorm:"size:36;index" json:"surveyId"`
	Label    string           `json:"label" validate:"required"`
	Type     QuestionType     `gorm:"size:16" json:"type" validate:"oneof=RANGE RADIO TEXTAREA"`
	Required bool             `json:"required"`
	Min      *float64         `json:"min,omitempty"`
	Max      *float64         `json:"max,omitempty"`
	Order    int              `json:"order"`
	Details  []QuestionDetail `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
}

type QuestionDetail struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	QuestionID  string `gorm:"size:36;index" json:"questionId"`
	Explanation string `json:"explanation"`
	Point       string `gorm:"size:32" json:"point"`
}

// PointValue แปลง point (เก็บเป็น string) เป็นตัวเลข
func (d QuestionDetail) PointValue() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(d.Point), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
