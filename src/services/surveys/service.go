package surveys

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/logger"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

// Service stores survey definitions (survey → questions → details).
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(db *gorm.DB, baseLog *logger.Logger) *Service {
	return &Service{db: db, log: baseLog.With("service", "SurveyService")}
}

// GetSurvey loads the full question tree ordered by question order.
func (s *Service) GetSurvey(ctx context.Context, surveyID string) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("\"order\" ASC") }).
		Preload("Questions.Details").
		Where("id = ?", surveyID).
		First(&survey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("survey %s not found", surveyID)
		}
		return nil, apperr.Internal(err)
	}
	return &survey, nil
}

func (s *Service) Exists(ctx context.Context, surveyID string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Survey{}).Where("id = ?", surveyID).Count(&n).Error; err != nil {
		return false, apperr.Internal(err)
	}
	return n > 0, nil
}

func (s *Service) List(ctx context.Context) ([]models.Survey, error) {
	var out []models.Survey
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// Create assigns identifiers to the survey tree and stores it in one transaction.
// A caller-supplied survey id is kept.
func (s *Service) Create(ctx context.Context, survey *models.Survey) (*models.Survey, error) {
	if survey.ID == "" {
		survey.ID = uuid.NewString()
	}
	for i := range survey.Questions {
		q := &survey.Questions[i]
		q.ID = uuid.NewString()
		q.SurveyID = survey.ID
		if q.Order == 0 {
			q.Order = i + 1
		}
		if q.Type == models.QuestionRange && q.Min != nil && q.Max != nil && *q.Min > *q.Max {
			return nil, apperr.BadRequest("question %q: min is greater than max", q.Label)
		}
		for j := range q.Details {
			q.Details[j].ID = uuid.NewString()
			q.Details[j].QuestionID = q.ID
			if _, ok := q.Details[j].PointValue(); !ok && q.Type == models.QuestionRadio {
				return nil, apperr.BadRequest("question %q: point %q is not numeric", q.Label, q.Details[j].Point)
			}
		}
	}

	if err := s.db.WithContext(ctx).Create(survey).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("survey %s already exists", survey.ID)
		}
		return nil, apperr.Internal(err)
	}
	s.log.Info("survey created", "survey_id", survey.ID, "questions", len(survey.Questions))
	return survey, nil
}
