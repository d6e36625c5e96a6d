package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/vocabdrill/internal/numeric"
	"github.com/example/vocabdrill/internal/store"
	"github.com/example/vocabdrill/pkg/models"
)

// recordVersion is written with every persisted score record
const recordVersion = 1

type persistedRecord struct {
	Version   int       `json:"version"`
	History   []float64 `json:"history"`
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tracker maintains the rolling history and score of every
// (language, theme, evaluation kind) key.
type Tracker struct {
	mu     sync.Mutex
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewTracker creates a tracker persisting records in s
func NewTracker(s store.Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		store:  s,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ComputeScore converts a history into a score in [0, 10] rounded to 3 decimals
func ComputeScore(history []models.HistoryEntry) float64 {
	if len(history) == 0 {
		return 0
	}
	sum := 0
	for _, entry := range history {
		sum += int(entry)
	}
	return numeric.Round(float64(sum)/float64(len(history))*10, 3)
}

// Score returns the current score of key; ok is false when the theme was
// never evaluated under that kind.
func (t *Tracker) Score(ctx context.Context, key models.ScoreKey) (float64, bool, error) {
	record, ok, err := t.load(ctx, key)
	if err != nil || !ok {
		return 0, false, err
	}
	return record.Score, true, nil
}

// Record returns the full score record of key
func (t *Tracker) Record(ctx context.Context, key models.ScoreKey) (models.ScoreRecord, bool, error) {
	return t.load(ctx, key)
}

// RecordOutcome appends one outcome to the history of key and returns the new score
func (t *Tracker) RecordOutcome(ctx context.Context, key models.ScoreKey, correct bool) (float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, _, err := t.load(ctx, key)
	if err != nil {
		return 0, err
	}

	history := append(record.History, models.Outcome(correct))
	if len(history) > models.MaxHistory {
		history = history[len(history)-models.MaxHistory:]
	}
	record.History = append([]models.HistoryEntry(nil), history...)
	record.Score = ComputeScore(record.History)
	record.UpdatedAt = t.now()

	if err := t.save(ctx, record); err != nil {
		return 0, err
	}
	return record.Score, nil
}

// RecordSession feeds the outcomes of a finished quiz into the tracker,
// one outcome per answered question, grouped by theme. Questions without a
// theme are skipped. It returns the new score of every theme touched.
func (t *Tracker) RecordSession(ctx context.Context, language models.Language, kind models.EvaluationKind, outcomes []models.AnswerOutcome) (map[string]float64, error) {
	var themes []string
	byTheme := make(map[string][]bool)
	for _, outcome := range outcomes {
		theme := outcome.Card.Theme
		if theme == "" {
			continue
		}
		if _, seen := byTheme[theme]; !seen {
			themes = append(themes, theme)
		}
		byTheme[theme] = append(byTheme[theme], outcome.IsCorrect)
	}

	scores := make(map[string]float64, len(themes))
	for _, theme := range themes {
		key := models.ScoreKey{Language: language, Theme: theme, Kind: kind}
		for _, correct := range byTheme[theme] {
			score, err := t.RecordOutcome(ctx, key, correct)
			if err != nil {
				return scores, fmt.Errorf("failed to record outcome for %s: %w", key, err)
			}
			scores[theme] = score
		}
	}
	return scores, nil
}

// Scores lists every stored record of a language
func (t *Tracker) Scores(ctx context.Context, language models.Language) ([]models.ScoreRecord, error) {
	keys, err := t.store.Keys(ctx, string(language)+":")
	if err != nil {
		return nil, fmt.Errorf("failed to list score keys: %w", err)
	}
	var records []models.ScoreRecord
	for _, raw := range keys {
		key, err := models.ParseScoreKey(raw)
		if err != nil || key.Language != language {
			continue
		}
		record, ok, err := t.load(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, record)
		}
	}
	return records, nil
}

// load reads the record of key. Malformed data is logged and reported as absent.
func (t *Tracker) load(ctx context.Context, key models.ScoreKey) (models.ScoreRecord, bool, error) {
	empty := models.ScoreRecord{Key: key}
	raw, ok, err := t.store.Get(ctx, key.String())
	if err != nil {
		return empty, false, fmt.Errorf("failed to read score %s: %w", key, err)
	}
	if !ok {
		return empty, false, nil
	}

	record, err := decodeRecord(raw)
	if err != nil {
		t.logger.Warn("ignoring malformed score record", "key", key.String(), "error", err)
		return empty, false, nil
	}
	record.Key = key
	return record, true, nil
}

func (t *Tracker) save(ctx context.Context, record models.ScoreRecord) error {
	history := make([]float64, len(record.History))
	for i, entry := range record.History {
		history[i] = float64(entry)
	}
	payload, err := json.Marshal(persistedRecord{
		Version:   recordVersion,
		History:   history,
		Score:     record.Score,
		UpdatedAt: record.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode score %s: %w", record.Key, err)
	}
	if err := t.store.Set(ctx, record.Key.String(), payload); err != nil {
		return fmt.Errorf("failed to write score %s: %w", record.Key, err)
	}
	return nil
}

// decodeRecord validates the shape of a stored record. The score is always
// recomputed from the history rather than trusted.
func decodeRecord(raw []byte) (models.ScoreRecord, error) {
	var stored persistedRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		return models.ScoreRecord{}, err
	}
	if len(stored.History) == 0 {
		return models.ScoreRecord{}, fmt.Errorf("missing history")
	}

	history := make([]models.HistoryEntry, 0, len(stored.History))
	for _, v := range stored.History {
		if v != 0 && v != 1 {
			return models.ScoreRecord{}, fmt.Errorf("invalid history entry %v", v)
		}
		history = append(history, models.HistoryEntry(v))
	}
	if len(history) > models.MaxHistory {
		history = history[len(history)-models.MaxHistory:]
	}

	return models.ScoreRecord{
		History:   history,
		Score:     ComputeScore(history),
		UpdatedAt: stored.UpdatedAt,
	}, nil
}
