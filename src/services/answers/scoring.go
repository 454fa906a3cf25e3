package answers

import (
	"encoding/json"
	"strings"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

// TotalPoint sums numeric values of RANGE and RADIO answers.
func TotalPoint(answers []models.Answer) float64 {
	var total float64
	for _, a := range answers {
		if !a.QuestionType.Scored() {
			continue
		}
		if v, ok := NumericValue(a.Value); ok {
			total += v
		}
	}
	return total
}

// NumericValue accepts the number shapes produced by JSON and BSON decoding.
func NumericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// ValidateRequired reports every required question without a non-empty answer.
func ValidateRequired(survey *models.Survey, answers []models.Answer) []models.MissingAnswer {
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		if !isEmpty(a.Value) {
			answered[a.QuestionID] = true
		}
	}
	missing := []models.MissingAnswer{}
	for _, q := range survey.Questions {
		if q.Required && !answered[q.ID] {
			missing = append(missing, models.MissingAnswer{QuestionID: q.ID, Label: q.Label})
		}
	}
	return missing
}

// normalizeAnswers takes each answer's type from the survey definition so that
// callers cannot score a TEXTAREA by labelling it RADIO.
func normalizeAnswers(survey *models.Survey, answers []models.Answer) ([]models.Answer, error) {
	types := make(map[string]models.QuestionType, len(survey.Questions))
	for _, q := range survey.Questions {
		types[q.ID] = q.Type
	}
	out := make([]models.Answer, 0, len(answers))
	seen := make(map[string]bool, len(answers))
	var unknown []string
	for _, a := range answers {
		t, ok := types[a.QuestionID]
		if !ok {
			unknown = append(unknown, a.QuestionID)
			continue
		}
		if seen[a.QuestionID] {
			return nil, apperr.BadRequest("question %s answered more than once", a.QuestionID)
		}
		seen[a.QuestionID] = true
		a.QuestionType = t
		out = append(out, a)
	}
	if len(unknown) > 0 {
		return nil, apperr.BadRequest("answers reference questions outside the survey").WithDetails(unknown)
	}
	return out, nil
}
