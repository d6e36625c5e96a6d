package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/example/vocabdrill/internal/store"
	"github.com/example/vocabdrill/pkg/models"
)

const (
	// HistoryKey is the store key holding completed sessions
	HistoryKey = "evaluation_history"
	// MaxSessions is the number of sessions kept, newest first
	MaxSessions = 100
)

// History keeps the list of completed evaluation sessions
type History struct {
	mu     sync.Mutex
	store  store.Store
	logger *slog.Logger
}

// NewHistory creates a history backed by s
func NewHistory(s store.Store, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	return &History{store: s, logger: logger}
}

// Append adds a session at the head of the history, evicting the oldest ones
func (h *History) Append(ctx context.Context, session models.EvaluationSession) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions, err := h.List(ctx)
	if err != nil {
		return err
	}

	sessions = append([]models.EvaluationSession{session}, sessions...)
	if len(sessions) > MaxSessions {
		sessions = sessions[:MaxSessions]
	}

	payload, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation history: %w", err)
	}
	if err := h.store.Set(ctx, HistoryKey, payload); err != nil {
		return fmt.Errorf("failed to save evaluation history: %w", err)
	}
	return nil
}

// List returns stored sessions, newest first
func (h *History) List(ctx context.Context) ([]models.EvaluationSession, error) {
	raw, ok, err := h.store.Get(ctx, HistoryKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read evaluation history: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var sessions []models.EvaluationSession
	if err := json.Unmarshal(raw, &sessions); err != nil {
		h.logger.Warn("ignoring malformed evaluation history", "error", err)
		return nil, nil
	}
	return sessions, nil
}
