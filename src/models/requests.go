package models

type AssignMode string

const (
	AssignAll      AssignMode = "all"
	AssignClient   AssignMode = "client"
	AssignEmployee AssignMode = "employee"
)

type AssignRequest struct {
	Mode       AssignMode `json:"mode" validate:"required,oneof=all client employee"`
	SurveyID   string     `json:"surveyId" validate:"required"`
	TenantID   string     `json:"tenantId" validate:"required_if=Mode client"`
	EmployeeID string     `json:"employeeId" validate:"required_if=Mode employee"`
}

// AssignResult รายงานผลการสร้าง slot แบบ bulk
type AssignResult struct {
	Created         int64 `json:"created"`
	Existing        int64 `json:"existing"`
	SkippedNoTenant int64 `json:"skippedNoTenant"`
}

// SubmitRequest addresses the slot by EntryID, or by SurveyID+EmployeeID in the current month.
type SubmitRequest struct {
	EntryID    string   `json:"entryId,omitempty"`
	SurveyID   string   `json:"surveyId" validate:"required"`
	EmployeeID string   `json:"employeeId" validate:"required"`
	Answers    []Answer `json:"answers" validate:"dive"`
}

// UpdateRequest: Answers nil means "leave answers untouched".
type UpdateRequest struct {
	Answers *[]Answer `json:"answers,omitempty"`
}

type IsUpdateResponse struct {
	IsUpdate bool `json:"isUpdate"`
}
