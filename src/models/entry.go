package models

import "time"

// SubmissionEntry is the monthly slot for one employee and survey.
// AnswerDocumentRef points at the Mongo document holding the answers; nil means not filled yet.
type SubmissionEntry struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	EmployeeID        string    `gorm:"size:36;not null;uniqueIndex:idx_entry_slot,priority:1" json:"employeeId"`
	SurveyID          string    `gorm:"size:36;not null;uniqueIndex:idx_entry_slot,priority:2" json:"surveyId"`
	UserID            string    `gorm:"size:36;not null;index" json:"userId"`
	PeriodMonth       time.Time `gorm:"type:date;not null;uniqueIndex:idx_entry_slot,priority:3;index" json:"periodMonth"`
	AnswerDocumentRef *string   `gorm:"column:nosql;size:64" json:"nosql"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	Employee *Employee `gorm:"foreignKey:EmployeeID;references:ID" json:"employee,omitempty"`
}

func (SubmissionEntry) TableName() string { return "submission_entries" }

func (e *SubmissionEntry) Filled() bool {
	return e.AnswerDocumentRef != nil && *e.AnswerDocumentRef != ""
}
