package applications

import (
	"strconv"
	"strings"

	"github.com/scholarbase/backend/internal/scholarships"
)

// Score rates an application against one scholarship: one point for a
// GPA at or above the scholarship minimum, one for a case-insensitive
// substring match on the allowed major. Non-numeric GPA values count as
// absent rather than erroring.
func Score(application *Application, scholarship *scholarships.Scholarship) int {
	score := 0

	if raw, ok := application.Data["gpa"]; ok && scholarship.MinGPA != nil {
		if gpa, ok := toFloat(raw); ok && gpa >= *scholarship.MinGPA {
			score++
		}
	}

	if raw, ok := application.Data["major"]; ok && scholarship.AllowedMajor != "" {
		if major, ok := raw.(string); ok {
			if strings.Contains(strings.ToLower(major), strings.ToLower(scholarship.AllowedMajor)) {
				score++
			}
		}
	}

	return score
}

// Match scores the application against every given scholarship and
// keeps those with a positive score. Ties carry no secondary ordering.
func Match(application *Application, candidates []scholarships.Scholarship) []MatchResult {
	var results []MatchResult
	for i := range candidates {
		score := Score(application, &candidates[i])
		if score > 0 {
			results = append(results, MatchResult{
				ApplicationID: application.ID,
				ScholarshipID: candidates[i].ID,
				Score:         score,
			})
		}
	}
	return results
}

func toFloat(v interface{}) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
