package entries

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/logger"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
	"github.com/pratamabintang/khs-assesment-sub001/src/utils"
)

// Repository is the submission entry ledger. The unique index on
// (employee_id, survey_id, period_month) is what guarantees one slot per month.
type Repository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepository(db *gorm.DB, baseLog *logger.Logger) *Repository {
	return &Repository{db: db, log: baseLog.With("repo", "EntryRepository")}
}

const unfilledClause = "(nosql IS NULL OR nosql = '')"

// Create inserts one slot. A concurrent insert of the same slot loses on the
// unique index and is reported as Conflict, same as the pre-check.
func (r *Repository) Create(ctx context.Context, entry *models.SubmissionEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.PeriodMonth = utils.MonthStart(entry.PeriodMonth)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("submission entry for employee %s, survey %s, month %s already exists",
				entry.EmployeeID, entry.SurveyID, entry.PeriodMonth.Format("2006-01"))
		}
		return apperr.Internal(err)
	}
	return nil
}

// CreateIgnoringDuplicates inserts every slot that does not exist yet and
// returns how many rows were actually written.
func (r *Repository) CreateIgnoringDuplicates(ctx context.Context, rows []models.SubmissionEntry) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.NewString()
		}
		rows[i].PeriodMonth = utils.MonthStart(rows[i].PeriodMonth)
	}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&rows, 200)
	if res.Error != nil {
		return 0, apperr.Internal(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.SubmissionEntry, error) {
	var e models.SubmissionEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("submission entry %s not found", id)
		}
		return nil, apperr.Internal(err)
	}
	return &e, nil
}

// FindBySlot returns (nil, nil) when the slot does not exist.
func (r *Repository) FindBySlot(ctx context.Context, employeeID, surveyID string, month time.Time) (*models.SubmissionEntry, error) {
	var e models.SubmissionEntry
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND survey_id = ? AND period_month = ?", employeeID, surveyID, utils.MonthStart(month)).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return &e, nil
}

func (r *Repository) ExistsSlot(ctx context.Context, employeeID, surveyID string, month time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.SubmissionEntry{}).
		Where("employee_id = ? AND survey_id = ? AND period_month = ?", employeeID, surveyID, utils.MonthStart(month)).
		Count(&n).Error
	if err != nil {
		return false, apperr.Internal(err)
	}
	return n > 0, nil
}

// ListByMonth returns one month of entries, each joined with its employee.
// An empty tenantID lists every tenant. Visibility is applied in the join, so the
// size of the roster never turns into bind parameters.
func (r *Repository) ListByMonth(ctx context.Context, tenantID string, month time.Time) ([]models.SubmissionEntry, error) {
	out := []models.SubmissionEntry{}
	q := r.db.WithContext(ctx)
	if tenantID == "" {
		q = q.InnerJoins("Employee")
	} else {
		q = q.InnerJoins("Employee", r.db.Where(&models.Employee{UserID: &tenantID}))
	}
	err := q.Where("submission_entries.period_month = ?", utils.MonthStart(month)).
		Order("submission_entries.created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// ListByRange returns entries with from <= period_month < toExclusive, oldest month first.
func (r *Repository) ListByRange(ctx context.Context, from, toExclusive time.Time) ([]models.SubmissionEntry, error) {
	out := []models.SubmissionEntry{}
	err := r.db.WithContext(ctx).
		Joins("Employee").
		Where("submission_entries.period_month >= ? AND submission_entries.period_month < ?",
			utils.MonthStart(from), utils.MonthStart(toExclusive)).
		Order("submission_entries.period_month ASC").
		Order("submission_entries.created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (r *Repository) ListUnfilled(ctx context.Context, month time.Time) ([]models.SubmissionEntry, error) {
	out := []models.SubmissionEntry{}
	err := r.db.WithContext(ctx).
		Where("period_month = ?", utils.MonthStart(month)).
		Where(unfilledClause).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// AttachDocument sets the answer pointer only if the slot is still empty,
// so a submit and an auto-fill can never both link the same slot.
func (r *Repository) AttachDocument(ctx context.Context, id, ref string) error {
	res := r.db.WithContext(ctx).Model(&models.SubmissionEntry{}).
		Where("id = ?", id).
		Where(unfilledClause).
		Updates(map[string]interface{}{"nosql": ref, "updated_at": time.Now()})
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return apperr.Conflict("submission entry %s is already filled", id)
	}
	return nil
}

// ClearDocumentRef resets a dangling pointer. Reconciliation only.
func (r *Repository) ClearDocumentRef(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.SubmissionEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"nosql": nil, "updated_at": time.Now()})
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("submission entry %s not found", id)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SubmissionEntry{})
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("submission entry %s not found", id)
	}
	return nil
}

// ListLinked returns every entry that carries a document pointer.
func (r *Repository) ListLinked(ctx context.Context) ([]models.SubmissionEntry, error) {
	out := []models.SubmissionEntry{}
	err := r.db.WithContext(ctx).
		Where("nosql IS NOT NULL AND nosql <> ''").
		Find(&out).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
