package entries

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

// Directory resolves employees with the caller's visibility applied.
type Directory interface {
	FindVisibleEmployees(ctx context.Context, caller models.Caller) ([]models.Employee, error)
	FindEmployee(ctx context.Context, caller models.Caller, employeeID string) (*models.Employee, error)
	FindTenantEmployees(ctx context.Context, caller models.Caller, tenantID string) ([]models.Employee, error)
}

type SurveyChecker interface {
	Exists(ctx context.Context, surveyID string) (bool, error)
}

// Service assigns monthly slots and serves the ledger read paths.
type Service struct {
	repo      *Repository
	directory Directory
	surveys   SurveyChecker
	validate  *validator.Validate
	log       *logger.Logger
	now       func() time.Time
}

func NewService(repo *Repository, directory Directory, surveys SurveyChecker, baseLog *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		surveys:   surveys,
		validate:  validator.New(),
		log:       baseLog.With("service", "EntryService"),
		now:       time.Now,
	}
}

func (s *Service) Repository() *Repository { return s.repo }

// AssignOne creates the current month's slot for one employee.
// An employee without an owning tenant is skipped and (nil, nil) is returned.
func (s *Service) AssignOne(ctx context.Context, caller models.Caller, employeeID, surveyID string) (*models.SubmissionEntry, error) {
	employee, err := s.directory.FindEmployee(ctx, caller, employeeID)
	if err != nil {
		return nil, err
	}
	if !employee.HasTenant() {
		s.log.Debug("employee has no tenant, skipping assignment", "employee_id", employeeID)
		return nil, nil
	}

	period := utils.CurrentMonth(s.now())
	exists, err := s.repo.ExistsSlot(ctx, employeeID, surveyID, period)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("submission entry for employee %s, survey %s, month %s already exists",
			employeeID, surveyID, period.Format("2006-01"))
	}

	entry := &models.SubmissionEntry{
		EmployeeID:  employeeID,
		SurveyID:    surveyID,
		UserID:      *employee.UserID,
		PeriodMonth: period,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	metrics.RecordEntriesCreated(string(models.AssignEmployee), 1)
	return entry, nil
}

// Create runs one of the assignment modes. "all" and "client" are idempotent:
// slots that already exist are counted, not reported as errors.
func (s *Service) Create(ctx context.Context, caller models.Caller, req models.AssignRequest) (*models.AssignResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.BadRequest("invalid assignment request: %v", err)
	}
	ok, err := s.surveys.Exists(ctx, req.SurveyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("survey %s not found", req.SurveyID)
	}

	switch req.Mode {
	case models.AssignEmployee:
		entry, err := s.AssignOne(ctx, caller, req.EmployeeID, req.SurveyID)
		if err != nil {
			return nil, err
		}
		result := &models.AssignResult{}
		if entry == nil {
			result.SkippedNoTenant = 1
		} else {
			result.Created = 1
		}
		return result, nil

	case models.AssignClient:
		if !caller.IsAdmin() {
			return nil, apperr.Forbidden("only admins can assign entries for a tenant")
		}
		employees, err := s.directory.FindTenantEmployees(ctx, caller, req.TenantID)
		if err != nil {
			return nil, err
		}
		return s.assignBulk(ctx, req.Mode, employees, req.SurveyID)

	default:
		employees, err := s.directory.FindVisibleEmployees(ctx, caller)
		if err != nil {
			return nil, err
		}
		return s.assignBulk(ctx, req.Mode, employees, req.SurveyID)
	}
}

// AssignMonthly is the scheduled "all" run for every tenant.
func (s *Service) AssignMonthly(ctx context.Context, surveyID string) (*models.AssignResult, error) {
	return s.Create(ctx, models.SystemCaller(), models.AssignRequest{Mode: models.AssignAll, SurveyID: surveyID})
}

func (s *Service) assignBulk(ctx context.Context, mode models.AssignMode, employees []models.Employee, surveyID string) (*models.AssignResult, error) {
	period := utils.CurrentMonth(s.now())
	result := &models.AssignResult{}

	rows := make([]models.SubmissionEntry, 0, len(employees))
	for _, e := range employees {
		if !e.HasTenant() {
			result.SkippedNoTenant++
			continue
		}
		rows = append(rows, models.SubmissionEntry{
			EmployeeID:  e.ID,
			SurveyID:    surveyID,
			UserID:      *e.UserID,
			PeriodMonth: period,
		})
	}

	created, err := s.repo.CreateIgnoringDuplicates(ctx, rows)
	if err != nil {
		return nil, err
	}
	result.Created = created
	result.Existing = int64(len(rows)) - created
	metrics.RecordEntriesCreated(string(mode), created)

	s.log.Info("bulk assignment finished",
		"mode", mode,
		"survey_id", surveyID,
		"period", period.Format("2006-01"),
		"created", result.Created,
		"existing", result.Existing,
		"skipped_no_tenant", result.SkippedNoTenant,
	)
	return result, nil
}

// GetAll lists the month's entries for every employee visible to caller.
func (s *Service) GetAll(ctx context.Context, caller models.Caller, month string) ([]models.SubmissionEntry, error) {
	period, err := utils.ParseMonth(month)
	if err != nil {
		return nil, apperr.BadRequest("%v", err)
	}
	if caller.IsAdmin() {
		return s.repo.ListByMonth(ctx, "", period)
	}
	if caller.SubjectID == "" {
		return []models.SubmissionEntry{}, nil
	}
	return s.repo.ListByMonth(ctx, caller.SubjectID, period)
}

// GetAllAdmin lists entries between from and to (both "YYYY-MM-01", to inclusive of its month).
// With no bounds it returns the current month.
func (s *Service) GetAllAdmin(ctx context.Context, caller models.Caller, from, to string) ([]models.SubmissionEntry, error) {
	if !caller.IsAdmin() {
		return nil, apperr.Forbidden("admin access required")
	}

	if from == "" && to == "" {
		current := utils.CurrentMonth(s.now())
		return s.repo.ListByRange(ctx, current, utils.NextMonth(current))
	}

	fromMonth, ok := utils.ParseMonthStart(from)
	if !ok {
		return nil, apperr.Conflict("invalid 'from' date %q, expected YYYY-MM-01", from)
	}
	toMonth, ok := utils.ParseMonthStart(to)
	if !ok {
		return nil, apperr.Conflict("invalid 'to' date %q, expected YYYY-MM-01", to)
	}
	if fromMonth.After(toMonth) {
		fromMonth, toMonth = toMonth, fromMonth
	}
	return s.repo.ListByRange(ctx, fromMonth, utils.NextMonth(toMonth))
}

// IsUpdate reports whether the slot already has answers.
// A slot that does not exist yet is simply "not filled".
func (s *Service) IsUpdate(ctx context.Context, caller models.Caller, employeeID, surveyID, periodMonth string) (bool, error) {
	period, err := utils.ParsePeriod(periodMonth)
	if err != nil {
		return false, apperr.BadRequest("%v", err)
	}
	entry, err := s.repo.FindBySlot(ctx, employeeID, surveyID, period)
	if err != nil {
		return false, err
	}
	if entry == nil {
		return false, nil
	}
	if !caller.IsAdmin() && entry.UserID != caller.SubjectID {
		return false, apperr.Forbidden("submission entry belongs to another tenant")
	}
	return entry.Filled(), nil
}
