package seeder

import (
	"context"

	"github.com/pratamabintang/khs-assesment-sub001/src/logger"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

const SampleSurveyID = "sample-monthly-kpi"

type SurveyStore interface {
	Exists(ctx context.Context, surveyID string) (bool, error)
	Create(ctx context.Context, survey *models.Survey) (*models.Survey, error)
}

func float(v float64) *float64 { return &v }

// SampleSurvey แบบประเมินตัวอย่างที่ใช้ครบทั้ง 3 ประเภทคำถาม
func SampleSurvey() *models.Survey {
	return &models.Survey{
		ID:          SampleSurveyID,
		Title:       "Monthly KPI Assessment",
		Description: "Sample monthly assessment of an outsourced employee",
		Questions: []models.Question{
			{
				Label:    "Work output (0-100)",
				Type:     models.QuestionRange,
				Required: true,
				Min:      float(0),
				Max:      float(100),
				Order:    1,
			},
			{
				Label:    "Discipline",
				Type:     models.QuestionRadio,
				Required: true,
				Order:    2,
				Details: []models.QuestionDetail{
					{Explanation: "Often late or absent", Point: "1"},
					{Explanation: "Occasionally late", Point: "3"},
					{Explanation: "Always on time", Point: "5"},
				},
			},
			{
				Label:    "Teamwork",
				Type:     models.QuestionRadio,
				Required: false,
				Order:    3,
				Details: []models.QuestionDetail{
					{Explanation: "Needs improvement", Point: "2"},
					{Explanation: "Good", Point: "4"},
				},
			},
			{
				Label: "Notes for the vendor",
				Type:  models.QuestionTextarea,
				Order: 4,
			},
		},
	}
}

// SeedSampleSurveys creates the sample survey once; later runs are no-ops.
func SeedSampleSurveys(ctx context.Context, store SurveyStore, log *logger.Logger) error {
	exists, err := store.Exists(ctx, SampleSurveyID)
	if err != nil {
		return err
	}
	if exists {
		log.Debug("sample survey already seeded", "survey_id", SampleSurveyID)
		return nil
	}
	if _, err := store.Create(ctx, SampleSurvey()); err != nil {
		return err
	}
	log.Info("✅ sample survey seeded", "survey_id", SampleSurveyID)
	return nil
}
