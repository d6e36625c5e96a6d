package practice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/vocabdrill/internal/spaced_repetition"
	"github.com/example/vocabdrill/pkg/models"
)

// DefaultAdvanceDelay is how long the answer side stays visible before moving on
const DefaultAdvanceDelay = 5 * time.Second

var (
	ErrEmptyDeck     = errors.New("no cards for this theme")
	ErrSessionClosed = errors.New("practice session closed")
)

// Timer runs one delayed task at a time
type Timer interface {
	Schedule(delay time.Duration, fn func()) error
	Cancel()
}

// SequenceBuilder builds the ordered deck of a theme
type SequenceBuilder interface {
	BuildSequence(ctx context.Context, cards []models.Card, lang models.Language, theme string, kind models.EvaluationKind) ([]models.Card, spaced_repetition.Plan, error)
}

// OutcomeRecorder stores the result of one revision
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, key models.ScoreKey, correct bool) (float64, error)
}

// Config selects what is practiced
type Config struct {
	Language     models.Language
	Theme        string
	AdvanceDelay time.Duration
}

// Deps are the collaborators of a practice session
type Deps struct {
	Cards     []models.Card
	Sequencer SequenceBuilder
	Tracker   OutcomeRecorder
	Timer     Timer
	Logger    *slog.Logger
	// OnAdvance is called after an automatic move to the next card
	OnAdvance func(View)
}

// View is what should be shown for the current card
type View struct {
	Card    models.Card
	Index   int
	Total   int
	Flipped bool
}

// Session is a flip-card run over one theme. It is built fresh for every
// theme and never reused.
type Session struct {
	mu         sync.Mutex
	config     Config
	deps       Deps
	logger     *slog.Logger
	plan       spaced_repetition.Plan
	deck       []models.Card
	index      int
	flipped    bool
	generation uint64
	closed     bool
}

// New builds the deck of a theme and returns a session positioned on its first card
func New(ctx context.Context, cfg Config, deps Deps) (*Session, error) {
	if cfg.AdvanceDelay <= 0 {
		cfg.AdvanceDelay = DefaultAdvanceDelay
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var cards []models.Card
	for _, card := range deps.Cards {
		if card.Language == cfg.Language && strings.TrimSpace(card.Theme) == cfg.Theme {
			cards = append(cards, card)
		}
	}
	if len(cards) == 0 {
		return nil, ErrEmptyDeck
	}

	deck, plan, err := deps.Sequencer.BuildSequence(ctx, cards, cfg.Language, cfg.Theme, models.KindRevision)
	if err != nil {
		return nil, fmt.Errorf("failed to build practice deck: %w", err)
	}
	if len(deck) == 0 {
		return nil, ErrEmptyDeck
	}

	logger.Info("practice session started",
		"language", cfg.Language, "theme", cfg.Theme,
		"strategy", plan.Strategy, "weight", plan.Weight, "cards", len(deck))

	return &Session{
		config: cfg,
		deps:   deps,
		logger: logger,
		plan:   plan,
		deck:   deck,
	}, nil
}

// Plan returns the strategy used to build the deck
func (s *Session) Plan() spaced_repetition.Plan {
	return s.plan
}

// Current returns the card being shown
func (s *Session) Current() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Flip turns the card over. Showing the answer side schedules the move to
// the next card.
func (s *Session) Flip() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.viewLocked(), ErrSessionClosed
	}
	s.cancelLocked()
	s.flipped = !s.flipped

	if s.flipped && s.index < len(s.deck)-1 {
		generation := s.generation
		err := s.deps.Timer.Schedule(s.config.AdvanceDelay, func() { s.autoAdvance(generation) })
		if err != nil {
			return s.viewLocked(), fmt.Errorf("failed to schedule auto advance: %w", err)
		}
	}
	return s.viewLocked(), nil
}

// Next moves to the next card; moved is false on the last card
func (s *Session) Next() (View, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.viewLocked(), false, ErrSessionClosed
	}
	s.cancelLocked()
	moved := s.moveLocked(1)
	return s.viewLocked(), moved, nil
}

// Previous moves back one card; moved is false on the first card
func (s *Session) Previous() (View, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.viewLocked(), false, ErrSessionClosed
	}
	s.cancelLocked()
	moved := s.moveLocked(-1)
	return s.viewLocked(), moved, nil
}

// Feedback records whether the learner knew the current card and moves on
func (s *Session) Feedback(ctx context.Context, correct bool) (View, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.viewLocked(), 0, ErrSessionClosed
	}
	s.cancelLocked()

	key := models.ScoreKey{Language: s.config.Language, Theme: s.config.Theme, Kind: models.KindRevision}
	score, err := s.deps.Tracker.RecordOutcome(ctx, key, correct)
	if err != nil {
		return s.viewLocked(), 0, fmt.Errorf("failed to record revision: %w", err)
	}
	s.moveLocked(1)
	return s.viewLocked(), score, nil
}

// Done reports whether the last card is shown with its answer
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index == len(s.deck)-1 && s.flipped
}

// Close cancels any pending task. Further actions fail.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.cancelLocked()
	s.closed = true
}

func (s *Session) autoAdvance(generation uint64) {
	s.mu.Lock()
	if s.closed || generation != s.generation {
		s.mu.Unlock()
		s.logger.Debug("ignoring stale auto advance")
		return
	}
	s.generation++
	s.moveLocked(1)
	view := s.viewLocked()
	s.mu.Unlock()

	if s.deps.OnAdvance != nil {
		s.deps.OnAdvance(view)
	}
}

// cancelLocked drops the pending auto advance and invalidates callbacks
// that were already fired.
func (s *Session) cancelLocked() {
	s.generation++
	s.deps.Timer.Cancel()
}

func (s *Session) moveLocked(step int) bool {
	next := s.index + step
	if next < 0 || next >= len(s.deck) {
		return false
	}
	s.index = next
	s.flipped = false
	return true
}

func (s *Session) viewLocked() View {
	return View{
		Card:    s.deck[s.index],
		Index:   s.index,
		Total:   len(s.deck),
		Flipped: s.flipped,
	}
}
