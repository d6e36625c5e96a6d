package models

import (
	"fmt"
	"strings"
	"time"
)

// EvaluationKind is the quiz modality a score is tracked for
type EvaluationKind string

const (
	// Flashcard drill
	KindRevision EvaluationKind = "revision"
	// French prompt, studied-language multiple choice
	KindQCMFrToLang EvaluationKind = "qcm_fr_lang"
	// Studied-language prompt, French multiple choice
	KindQCMLangToFr EvaluationKind = "qcm_lang_fr"
	// Free text answer
	KindFreeText EvaluationKind = "libre"
)

// Valid reports whether the kind is one of the known modalities
func (k EvaluationKind) Valid() bool {
	switch k {
	case KindRevision, KindQCMFrToLang, KindQCMLangToFr, KindFreeText:
		return true
	default:
		return false
	}
}

// Weight is the difficulty weight of one question asked in this modality.
// Unknown kinds get the lowest weight.
func (k EvaluationKind) Weight() float64 {
	switch k {
	case KindFreeText:
		return 1.5
	case KindQCMLangToFr:
		return 1.2
	default:
		return 1.0
	}
}

// HistoryEntry is the outcome of one attempt: 1 correct, 0 incorrect
type HistoryEntry int

// Outcome converts a boolean answer outcome to a history entry
func Outcome(correct bool) HistoryEntry {
	if correct {
		return 1
	}
	return 0
}

// MaxHistory is the size of the rolling window kept per score record
const MaxHistory = 20

// ScoreKey identifies a score record
type ScoreKey struct {
	Language Language
	Theme    string
	Kind     EvaluationKind
}

// String serializes the key for the persisted store
func (k ScoreKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Language, k.Theme, k.Kind)
}

// ParseScoreKey reads a key produced by ScoreKey.String. The theme may
// itself contain colons.
func ParseScoreKey(s string) (ScoreKey, error) {
	first := strings.Index(s, ":")
	last := strings.LastIndex(s, ":")
	if first <= 0 || last == first || last == len(s)-1 {
		return ScoreKey{}, fmt.Errorf("invalid score key %q", s)
	}
	return ScoreKey{
		Language: Language(s[:first]),
		Theme:    s[first+1 : last],
		Kind:     EvaluationKind(s[last+1:]),
	}, nil
}

// ScoreRecord tracks rolling performance for one language, theme and kind
type ScoreRecord struct {
	Key       ScoreKey       `json:"-"`
	History   []HistoryEntry `json:"history"`
	Score     float64        `json:"score"`
	UpdatedAt time.Time      `json:"updated_at"`
}
