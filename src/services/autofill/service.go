package autofill

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/logger"
	"github.com/pratamabintang/khs-assesment-sub001/src/metrics"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
	"github.com/pratamabintang/khs-assesment-sub001/src/services/answers"
	"github.com/pratamabintang/khs-assesment-sub001/src/utils"
)

const (
	runLockKey       = "lock:autofill"
	reconcileLockKey = "lock:reconcile"
	lockTTL          = 30 * time.Minute

	// documents younger than this may still be waiting for their pointer
	orphanGracePeriod = 10 * time.Minute
)

type Ledger interface {
	ListUnfilled(ctx context.Context, month time.Time) ([]models.SubmissionEntry, error)
	AttachDocument(ctx context.Context, id, ref string) error
	ListLinked(ctx context.Context) ([]models.SubmissionEntry, error)
	ClearDocumentRef(ctx context.Context, id string) error
}

type SurveyReader interface {
	GetSurvey(ctx context.Context, surveyID string) (*models.Survey, error)
}

type Options struct {
	Location *time.Location // timezone the monthly schedule runs in
	Sentinel string         // TEXTAREA value for synthesized answers
}

// Service backfills last month's empty slots and checks cross-store consistency.
type Service struct {
	ledger  Ledger
	store   answers.Store
	surveys SurveyReader
	locker  Locker
	opts    Options
	log     *logger.Logger
}

func NewService(ledger Ledger, store answers.Store, surveys SurveyReader, locker Locker, opts Options, baseLog *logger.Logger) *Service {
	if locker == nil {
		locker = NopLocker{}
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		ledger:  ledger,
		store:   store,
		surveys: surveys,
		locker:  locker,
		opts:    opts,
		log:     baseLog.With("service", "AutoFillService"),
	}
}

type RunReport struct {
	Month   string `json:"month"`
	Pending int    `json:"pending"`
	Filled  int    `json:"filled"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Locked  bool   `json:"locked"`
}

// Run fills every empty slot of the month before now. It never returns an error:
// failures are logged and the remaining entries are still processed.
func (s *Service) Run(ctx context.Context, now time.Time) (report RunReport) {
	started := time.Now()
	month := utils.PreviousMonth(now, s.opts.Location)
	report.Month = month.Format("2006-01")

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("auto-fill panicked", "month", report.Month, "panic", r)
			metrics.RecordAutoFillRun("failed", started)
		}
	}()

	release, ok, err := s.locker.Acquire(ctx, runLockKey, lockTTL)
	if err != nil {
		s.log.Error("auto-fill lock failed", "month", report.Month, "error", err)
		metrics.RecordAutoFillRun("failed", started)
		return report
	}
	if !ok {
		s.log.Warn("auto-fill already running, skipping", "month", report.Month)
		report.Locked = true
		metrics.RecordAutoFillRun("skipped_locked", started)
		return report
	}
	defer release()

	pending, err := s.ledger.ListUnfilled(ctx, month)
	if err != nil {
		s.log.Error("auto-fill could not list unfilled entries", "month", report.Month, "error", err)
		metrics.RecordAutoFillRun("failed", started)
		return report
	}
	report.Pending = len(pending)

	surveyCache := map[string]*models.Survey{}
	for i := range pending {
		entry := &pending[i]
		filled, err := s.fillEntry(ctx, entry, surveyCache)
		switch {
		case err != nil:
			report.Failed++
			metrics.RecordAutoFillEntry("failed")
			s.log.Error("auto-fill entry failed", "entry_id", entry.ID, "survey_id", entry.SurveyID, "error", err)
		case !filled:
			report.Skipped++
			metrics.RecordAutoFillEntry("skipped")
		default:
			report.Filled++
			metrics.RecordAutoFillEntry("filled")
		}
	}

	metrics.RecordAutoFillRun("completed", started)
	s.log.Info("auto-fill finished",
		"month", report.Month,
		"pending", report.Pending,
		"filled", report.Filled,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report
}

func (s *Service) fillEntry(ctx context.Context, entry *models.SubmissionEntry, cache map[string]*models.Survey) (bool, error) {
	survey, ok := cache[entry.SurveyID]
	if !ok {
		var err error
		survey, err = s.surveys.GetSurvey(ctx, entry.SurveyID)
		if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return false, err
		}
		cache[entry.SurveyID] = survey
	}
	if survey == nil || len(survey.Questions) == 0 {
		return false, nil
	}

	synthesized := Synthesize(survey, s.opts.Sentinel)
	doc := &models.SubmissionDocument{
		SurveyID:   entry.SurveyID,
		EmployeeID: entry.EmployeeID,
		Answers:    synthesized,
		TotalPoint: answers.TotalPoint(synthesized),
	}
	if err := s.store.Create(ctx, doc); err != nil {
		return false, err
	}
	if err := s.ledger.AttachDocument(ctx, entry.ID, doc.ID.Hex()); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			// filled by a late submit between listing and linking
			if delErr := s.store.Delete(ctx, doc.ID.Hex()); delErr != nil {
				s.log.Warn("failed to remove unlinked auto-fill document", "document_id", doc.ID.Hex(), "error", delErr)
			}
			return false, nil
		}
		return false, err
	}
	metrics.RecordSubmissionWritten("autofill")
	return true, nil
}

type ReconcileReport struct {
	OrphanDocuments []string `json:"orphanDocuments"`
	DanglingEntries []string `json:"danglingEntries"`
	Fixed           bool     `json:"fixed"`
}

// Reconcile finds documents no entry points at and entries pointing at missing documents.
// With fix=true orphans are deleted and dangling pointers reset to empty.
func (s *Service) Reconcile(ctx context.Context, fix bool) (*ReconcileReport, error) {
	release, ok, err := s.locker.Acquire(ctx, reconcileLockKey, lockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Conflict("reconciliation already running")
	}
	defer release()

	// entries first: every document they reference was created before this point
	linked, err := s.ledger.ListLinked(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var allIDs, settledIDs []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		allIDs, err = s.store.ListIDs(gctx, now)
		return err
	})
	g.Go(func() (err error) {
		// documents younger than the grace period may still be waiting for their attach
		settledIDs, err = s.store.ListIDs(gctx, now.Add(-orphanGracePeriod))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(allIDs))
	for _, id := range allIDs {
		existing[id] = true
	}
	referenced := make(map[string]bool, len(linked))
	report := &ReconcileReport{OrphanDocuments: []string{}, DanglingEntries: []string{}, Fixed: fix}
	for _, e := range linked {
		ref := *e.AnswerDocumentRef
		referenced[ref] = true
		if !existing[ref] {
			report.DanglingEntries = append(report.DanglingEntries, e.ID)
		}
	}
	for _, id := range settledIDs {
		if !referenced[id] {
			report.OrphanDocuments = append(report.OrphanDocuments, id)
		}
	}
	metrics.RecordReconcileFindings("orphan_document", len(report.OrphanDocuments))
	metrics.RecordReconcileFindings("dangling_entry", len(report.DanglingEntries))

	if fix {
		for _, id := range report.DanglingEntries {
			// an entry removed since the listing needs no repair
			if err := s.ledger.ClearDocumentRef(ctx, id); err != nil && !apperr.Is(err, apperr.KindNotFound) {
				return report, fmt.Errorf("clear pointer of entry %s: %w", id, err)
			}
		}
		for _, id := range report.OrphanDocuments {
			if err := s.store.Delete(ctx, id); err != nil && !apperr.Is(err, apperr.KindNotFound) {
				return report, fmt.Errorf("delete orphan document %s: %w", id, err)
			}
		}
	}

	s.log.Info("reconciliation finished",
		"orphan_documents", len(report.OrphanDocuments),
		"dangling_entries", len(report.DanglingEntries),
		"fix", fix,
	)
	return report, nil
}
