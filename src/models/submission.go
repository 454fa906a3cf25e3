package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Answer value is string for TEXTAREA, number for RANGE/RADIO, or nil.
type Answer struct {
	QuestionID   string       `bson:"questionId" json:"questionId" validate:"required"`
	QuestionType QuestionType `bson:"questionType" json:"questionType"`
	Value        interface{}  `bson:"value" json:"value"`
}

// SubmissionDocument เอกสารคำตอบใน MongoDB
type SubmissionDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	SurveyID   string             `bson:"surveyId"`
	EmployeeID string             `bson:"employeeId"`
	Answers    []Answer           `bson:"answers"`
	TotalPoint float64            `bson:"totalPoint"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

// SubmissionSnapshot is what callers see: plain string id, no store internals.
type SubmissionSnapshot struct {
	ID         string    `json:"id"`
	SurveyID   string    `json:"surveyId"`
	EmployeeID string    `json:"employeeId"`
	Answers    []Answer  `json:"answers"`
	TotalPoint float64   `json:"totalPoint"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (d *SubmissionDocument) Snapshot() *SubmissionSnapshot {
	answers := d.Answers
	if answers == nil {
		answers = []Answer{}
	}
	return &SubmissionSnapshot{
		ID:         d.ID.Hex(),
		SurveyID:   d.SurveyID,
		EmployeeID: d.EmployeeID,
		Answers:    answers,
		TotalPoint: d.TotalPoint,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// MissingAnswer is one entry of the BadRequest details for unanswered required questions.
type MissingAnswer struct {
	QuestionID string `json:"questionId"`
	Label      string `json:"label"`
}
