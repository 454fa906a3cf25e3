package autofill

import (
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

// Synthesize builds the best possible answer set for a survey:
// TEXTAREA gets the sentinel text, RANGE its maximum, RADIO its highest point.
func Synthesize(survey *models.Survey, sentinel string) []models.Answer {
	out := make([]models.Answer, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		a := models.Answer{QuestionID: q.ID, QuestionType: q.Type}
		switch q.Type {
		case models.QuestionTextarea:
			a.Value = sentinel
		case models.QuestionRange:
			if q.Max != nil {
				a.Value = *q.Max
			}
		case models.QuestionRadio:
			a.Value = maxPoint(q.Details)
		}
		out = append(out, a)
	}
	return out
}

func maxPoint(details []models.QuestionDetail) float64 {
	var best float64
	found := false
	for _, d := range details {
		v, ok := d.PointValue()
		if !ok {
			continue
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	return best
}
