package evaluation

import (
	"github.com/example/vocabdrill/internal/numeric"
	"github.com/example/vocabdrill/pkg/models"
)

// Score computes the aggregate metrics of a finished session.
// Each question is weighted by its own mode, or by mode when it has none.
func Score(results []models.AnswerOutcome, mode models.EvaluationKind) models.AggregateReport {
	report := models.AggregateReport{
		DifficultyFactor: 1.0,
		ThemeBreakdown:   make(map[string]models.ThemeStats),
	}
	if len(results) == 0 {
		return report
	}

	var totalWeight, correctWeight float64
	for _, result := range results {
		kind := result.Mode
		if kind == "" {
			kind = mode
		}
		weight := kind.Weight()
		totalWeight += weight

		report.Total++
		if result.IsCorrect {
			report.Correct++
			correctWeight += weight
		}

		theme := result.Card.Theme
		if theme == "" {
			continue
		}
		stats := report.ThemeBreakdown[theme]
		stats.Total++
		if result.IsCorrect {
			stats.Correct++
		}
		report.ThemeBreakdown[theme] = stats
	}

	for theme, stats := range report.ThemeBreakdown {
		stats.Percentage = numeric.Percentage(float64(stats.Correct), float64(stats.Total))
		report.ThemeBreakdown[theme] = stats
	}

	report.StandardPercentage = numeric.Percentage(float64(report.Correct), float64(report.Total))
	report.WeightedPercentage = numeric.Percentage(correctWeight, totalWeight)
	report.DifficultyFactor = numeric.Round(totalWeight/float64(report.Total), 3)
	return report
}
