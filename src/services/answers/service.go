package answers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/logger"
	"github.com/pratamabintang/khs-assesment-sub001/src/metrics"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
	"github.com/pratamabintang/khs-assesment-sub001/src/utils"
)

// Ledger is the part of the entry ledger the linkage service needs.
type Ledger interface {
	FindByID(ctx context.Context, id string) (*models.SubmissionEntry, error)
	FindBySlot(ctx context.Context, employeeID, surveyID string, month time.Time) (*models.SubmissionEntry, error)
	AttachDocument(ctx context.Context, id, ref string) error
	Delete(ctx context.Context, id string) error
}

type Directory interface {
	FindEmployee(ctx context.Context, caller models.Caller, employeeID string) (*models.Employee, error)
	FindUser(ctx context.Context, userID string) (*models.User, error)
}

type SurveyReader interface {
	GetSurvey(ctx context.Context, surveyID string) (*models.Survey, error)
}

// Service writes answer documents and keeps the entry pointer in sync.
// The two stores share no transaction: the document is written first, then linked.
type Service struct {
	store     Store
	ledger    Ledger
	directory Directory
	surveys   SurveyReader
	validate  *validator.Validate
	log       *logger.Logger
	now       func() time.Time
}

func NewService(store Store, ledger Ledger, directory Directory, surveys SurveyReader, baseLog *logger.Logger) *Service {
	return &Service{
		store:     store,
		ledger:    ledger,
		directory: directory,
		surveys:   surveys,
		validate:  validator.New(),
		log:       baseLog.With("service", "SubmissionService"),
		now:       time.Now,
	}
}

func (s *Service) Submit(ctx context.Context, caller models.Caller, req models.SubmitRequest) (*models.SubmissionSnapshot, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.BadRequest("invalid submission: %v", err)
	}

	survey, err := s.surveys.GetSurvey(ctx, req.SurveyID)
	if err != nil {
		return nil, err
	}
	if _, err := s.directory.FindUser(ctx, caller.SubjectID); err != nil {
		return nil, err
	}
	if _, err := s.directory.FindEmployee(ctx, caller, req.EmployeeID); err != nil {
		return nil, err
	}

	entry, err := s.resolveEntry(ctx, req)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && entry.UserID != caller.SubjectID {
		return nil, apperr.Forbidden("submission entry belongs to another tenant")
	}
	if entry.Filled() {
		return nil, apperr.Conflict("submission entry %s is already filled, update document %s instead",
			entry.ID, *entry.AnswerDocumentRef)
	}

	if missing := ValidateRequired(survey, req.Answers); len(missing) > 0 {
		return nil, apperr.BadRequest("required questions are not answered").WithDetails(missing)
	}
	answers, err := normalizeAnswers(survey, req.Answers)
	if err != nil {
		return nil, err
	}

	doc := &models.SubmissionDocument{
		SurveyID:   req.SurveyID,
		EmployeeID: req.EmployeeID,
		Answers:    answers,
		TotalPoint: TotalPoint(answers),
	}
	if err := s.store.Create(ctx, doc); err != nil {
		return nil, err
	}

	if err := s.ledger.AttachDocument(ctx, entry.ID, doc.ID.Hex()); err != nil {
		// the slot was filled concurrently or vanished: drop our unlinked document
		if delErr := s.store.Delete(ctx, doc.ID.Hex()); delErr != nil {
			s.log.Warn("failed to remove unlinked submission", "document_id", doc.ID.Hex(), "error", delErr)
		}
		return nil, err
	}

	metrics.RecordSubmissionWritten("submit")
	s.log.Info("submission created", "entry_id", entry.ID, "document_id", doc.ID.Hex(), "total_point", doc.TotalPoint)
	return doc.Snapshot(), nil
}

// resolveEntry finds the slot by id, or by survey and employee in the current month.
func (s *Service) resolveEntry(ctx context.Context, req models.SubmitRequest) (*models.SubmissionEntry, error) {
	if req.EntryID == "" {
		period := utils.CurrentMonth(s.now())
		entry, err := s.ledger.FindBySlot(ctx, req.EmployeeID, req.SurveyID, period)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return nil, apperr.NotFound("no submission entry for employee %s, survey %s, month %s",
				req.EmployeeID, req.SurveyID, period.Format("2006-01"))
		}
		return entry, nil
	}

	entry, err := s.ledger.FindByID(ctx, req.EntryID)
	if err != nil {
		return nil, err
	}
	if entry.EmployeeID != req.EmployeeID || entry.SurveyID != req.SurveyID {
		return nil, apperr.BadRequest("submission entry %s does not belong to employee %s and survey %s",
			entry.ID, req.EmployeeID, req.SurveyID)
	}
	return entry, nil
}

// Update rewrites a document. Ownership is re-derived from the document's employee.
func (s *Service) Update(ctx context.Context, caller models.Caller, documentID string, req models.UpdateRequest) (*models.SubmissionSnapshot, error) {
	doc, err := s.load(ctx, caller, documentID)
	if err != nil {
		return nil, err
	}

	if req.Answers != nil {
		answers := *req.Answers
		survey, err := s.surveys.GetSurvey(ctx, doc.SurveyID)
		switch {
		case err == nil:
			if answers, err = normalizeAnswers(survey, answers); err != nil {
				return nil, err
			}
		case apperr.Is(err, apperr.KindNotFound):
			s.log.Warn("survey missing while updating submission, keeping caller question types",
				"document_id", documentID, "survey_id", doc.SurveyID)
		default:
			return nil, err
		}
		doc.Answers = answers
		doc.TotalPoint = TotalPoint(answers)
	}

	if err := s.store.Update(ctx, doc); err != nil {
		return nil, err
	}
	metrics.RecordSubmissionWritten("update")
	return doc.Snapshot(), nil
}

func (s *Service) Get(ctx context.Context, caller models.Caller, documentID string) (*models.SubmissionSnapshot, error) {
	doc, err := s.load(ctx, caller, documentID)
	if err != nil {
		return nil, err
	}
	return doc.Snapshot(), nil
}

func (s *Service) load(ctx context.Context, caller models.Caller, documentID string) (*models.SubmissionDocument, error) {
	doc, err := s.store.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		if _, err := s.directory.FindEmployee(ctx, caller, doc.EmployeeID); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Remove deletes the entry row, then its document. A pointer to a document that
// no longer exists is reported as NotFound rather than ignored.
func (s *Service) Remove(ctx context.Context, entryID string) error {
	entry, err := s.ledger.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	ref := entry.AnswerDocumentRef

	if err := s.ledger.Delete(ctx, entryID); err != nil {
		return err
	}
	if ref == nil || *ref == "" {
		return nil
	}
	if err := s.store.Delete(ctx, *ref); err != nil {
		s.log.Error("entry deleted but its document could not be removed",
			"entry_id", entryID, "document_id", *ref, "error", err)
		return err
	}
	s.log.Info("submission entry deleted", "entry_id", entryID, "document_id", *ref)
	return nil
}
