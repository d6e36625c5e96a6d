package models

import "time"

// AnswerOutcome records one answered quiz question
type AnswerOutcome struct {
	Card          Card           `json:"card"`
	UserAnswer    string         `json:"user_answer"`
	CorrectAnswer string         `json:"correct_answer"`
	IsCorrect     bool           `json:"is_correct"`
	Mode          EvaluationKind `json:"mode"`
}

// ThemeStats is the per-theme part of a session report
type ThemeStats struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// AggregateReport holds the metrics computed for a list of outcomes
type AggregateReport struct {
	Total              int                   `json:"total"`
	Correct            int                   `json:"correct"`
	StandardPercentage float64               `json:"standard_percentage"`
	WeightedPercentage float64               `json:"weighted_percentage"`
	DifficultyFactor   float64               `json:"difficulty_factor"`
	ThemeBreakdown     map[string]ThemeStats `json:"theme_breakdown"`
}

// EvaluationSession is one completed quiz run
type EvaluationSession struct {
	ID                 string                `json:"id"`
	Language           Language              `json:"language"`
	Mode               EvaluationKind        `json:"mode"`
	Themes             []string              `json:"themes"`
	Results            []AnswerOutcome       `json:"results"`
	StartedAt          time.Time             `json:"started_at"`
	DurationMs         int64                 `json:"duration_ms"`
	CorrectCount       int                   `json:"correct_count"`
	Percentage         float64               `json:"percentage"`
	WeightedPercentage float64               `json:"weighted_percentage"`
	ThemeBreakdown     map[string]ThemeStats `json:"theme_breakdown"`
}
