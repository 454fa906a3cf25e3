package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeAssignMonthly = "entries:assign-monthly"
	TypeAutoFill      = "answers:autofill"
	TypeReconcile     = "answers:reconcile"
)

type AssignMonthlyPayload struct {
	SurveyID string `json:"survey_id"`
}

// AutoFillPayload: RunAt overrides the clock when re-running a past month by hand.
type AutoFillPayload struct {
	RunAt *time.Time `json:"run_at,omitempty"`
}

type ReconcilePayload struct {
	Fix bool `json:"fix"`
}

func NewAssignMonthlyTask(surveyID string) (*asynq.Task, error) {
	payload, err := json.Marshal(AssignMonthlyPayload{SurveyID: surveyID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAssignMonthly, payload), nil
}

func NewAutoFillTask(runAt *time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(AutoFillPayload{RunAt: runAt})
	if err != nil {
		return nil, err
	}
	// best effort: a failed run is not retried
	return asynq.NewTask(TypeAutoFill, payload, asynq.MaxRetry(0)), nil
}

func NewReconcileTask(fix bool) (*asynq.Task, error) {
	payload, err := json.Marshal(ReconcilePayload{Fix: fix})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReconcile, payload, asynq.MaxRetry(0)), nil
}
