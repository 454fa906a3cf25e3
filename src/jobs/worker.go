package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/pratamabintang/khs-assesment-sub001/src/logger"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
	"github.com/pratamabintang/khs-assesment-sub001/src/services/autofill"
)

type AutoFiller interface {
	Run(ctx context.Context, now time.Time) autofill.RunReport
	Reconcile(ctx context.Context, fix bool) (*autofill.ReconcileReport, error)
}

type Assigner interface {
	AssignMonthly(ctx context.Context, surveyID string) (*models.AssignResult, error)
}

type Handlers struct {
	autoFill AutoFiller
	assigner Assigner
	log      *logger.Logger
	now      func() time.Time
}

func NewHandlers(autoFill AutoFiller, assigner Assigner, baseLog *logger.Logger) *Handlers {
	return &Handlers{
		autoFill: autoFill,
		assigner: assigner,
		log:      baseLog.With("component", "jobs"),
		now:      time.Now,
	}
}

// RegisterHandlers ลงทะเบียน Handler ทั้งหมดของงานเบื้องหลัง
func RegisterHandlers(mux *asynq.ServeMux, h *Handlers) {
	mux.HandleFunc(TypeAssignMonthly, h.HandleAssignMonthly)
	mux.HandleFunc(TypeAutoFill, h.HandleAutoFill)
	mux.HandleFunc(TypeReconcile, h.HandleReconcile)
}

func (h *Handlers) HandleAssignMonthly(ctx context.Context, t *asynq.Task) error {
	var payload AssignMonthlyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", TypeAssignMonthly, err, asynq.SkipRetry)
	}
	if payload.SurveyID == "" {
		h.log.Warn("⚠️ monthly assignment has no survey configured, skipping")
		return nil
	}
	res, err := h.assigner.AssignMonthly(ctx, payload.SurveyID)
	if err != nil {
		h.log.Error("❌ monthly assignment failed", "survey_id", payload.SurveyID, "error", err)
		return err
	}
	h.log.Info("✅ monthly assignment done", "survey_id", payload.SurveyID, "created", res.Created, "existing", res.Existing)
	return nil
}

// HandleAutoFill never fails the task; the service logs its own failures.
func (h *Handlers) HandleAutoFill(ctx context.Context, t *asynq.Task) error {
	var payload AutoFillPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.log.Error("invalid auto-fill payload, running with current time", "error", err)
	}
	now := h.now()
	if payload.RunAt != nil {
		now = *payload.RunAt
	}
	report := h.autoFill.Run(ctx, now)
	h.log.Info("✅ auto-fill task done", "month", report.Month, "filled", report.Filled, "failed", report.Failed)
	return nil
}

func (h *Handlers) HandleReconcile(ctx context.Context, t *asynq.Task) error {
	var payload ReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", TypeReconcile, err, asynq.SkipRetry)
	}
	report, err := h.autoFill.Reconcile(ctx, payload.Fix)
	if err != nil {
		h.log.Error("❌ reconciliation failed", "error", err)
		return err
	}
	h.log.Info("✅ reconciliation task done",
		"orphan_documents", len(report.OrphanDocuments),
		"dangling_entries", len(report.DanglingEntries))
	return nil
}
