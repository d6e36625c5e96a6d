package practice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/example/vocabdrill/internal/spaced_repetition"
	"github.com/example/vocabdrill/pkg/models"
)

type fakeTimer struct {
	pending   func()
	delay     time.Duration
	scheduled int
	cancelled int
}

func (f *fakeTimer) Schedule(delay time.Duration, fn func()) error {
	f.pending = fn
	f.delay = delay
	f.scheduled++
	return nil
}

func (f *fakeTimer) Cancel() {
	if f.pending != nil {
		f.cancelled++
	}
	f.pending = nil
}

// fire runs the pending callback the way the scheduler would, outside any lock
func (f *fakeTimer) fire() {
	fn := f.pending
	f.pending = nil
	if fn != nil {
		fn()
	}
}

type fakeRecords struct{}

func (fakeRecords) Record(context.Context, models.ScoreKey) (models.ScoreRecord, bool, error) {
	return models.ScoreRecord{}, false, nil
}

type fakeTracker struct {
	keys     []models.ScoreKey
	outcomes []bool
	err      error
}

func (f *fakeTracker) RecordOutcome(_ context.Context, key models.ScoreKey, correct bool) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.keys = append(f.keys, key)
	f.outcomes = append(f.outcomes, correct)
	return 10, nil
}

var testCards = []models.Card{
	{SourceWord: "cat", TargetWord: "chat", Theme: "Animaux", Language: models.LanguageEnglish},
	{SourceWord: "dog", TargetWord: "chien", Theme: "Animaux", Language: models.LanguageEnglish},
	{SourceWord: "apple", TargetWord: "pomme", Theme: "Nourriture", Language: models.LanguageEnglish},
	{SourceWord: "Hund", TargetWord: "chien", Theme: "Animaux", Language: models.LanguageGerman},
}

func newTestSession(t *testing.T) (*Session, *fakeTimer, *fakeTracker, *[]View) {
	t.Helper()
	timer := &fakeTimer{}
	tracker := &fakeTracker{}
	var advanced []View
	session, err := New(context.Background(), Config{Language: models.LanguageEnglish, Theme: "Animaux"}, Deps{
		Cards:     testCards,
		Sequencer: spaced_repetition.NewSequencer(fakeRecords{}, rand.New(rand.NewSource(1))),
		Tracker:   tracker,
		Timer:     timer,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnAdvance: func(v View) { advanced = append(advanced, v) },
	})
	if err != nil {
		t.Fatalf("New() returned an unexpected error: %v", err)
	}
	return session, timer, tracker, &advanced
}

func TestNewBuildsThemeDeck(t *testing.T) {
	session, _, _, _ := newTestSession(t)

	view := session.Current()
	if view.Total != 4 {
		t.Fatalf("Expected 2 cards repeated twice, but got %d", view.Total)
	}
	if plan := session.Plan(); plan.Strategy != spaced_repetition.StrategyDiscovery {
		t.Errorf("Expected discovery plan, but got %+v", plan)
	}
	if view.Index != 0 || view.Flipped {
		t.Errorf("Expected first card face up, but got %+v", view)
	}
}

func TestNewEmptyDeck(t *testing.T) {
	_, err := New(context.Background(), Config{Language: models.LanguageEnglish, Theme: "Maison"}, Deps{
		Cards:     testCards,
		Sequencer: spaced_repetition.NewSequencer(fakeRecords{}, nil),
		Timer:     &fakeTimer{},
	})
	if !errors.Is(err, ErrEmptyDeck) {
		t.Errorf("Expected ErrEmptyDeck, but got %v", err)
	}
}

func TestFlipSchedulesAutoAdvance(t *testing.T) {
	session, timer, _, advanced := newTestSession(t)

	view, err := session.Flip()
	if err != nil {
		t.Fatalf("Flip() returned an unexpected error: %v", err)
	}
	if !view.Flipped {
		t.Fatal("Expected the answer side to be shown")
	}
	if timer.pending == nil || timer.delay != DefaultAdvanceDelay {
		t.Fatalf("Expected an auto advance after %s, got delay %s", DefaultAdvanceDelay, timer.delay)
	}

	timer.fire()
	if got := session.Current(); got.Index != 1 || got.Flipped {
		t.Errorf("Expected auto advance to the next card face up, but got %+v", got)
	}
	if len(*advanced) != 1 || (*advanced)[0].Index != 1 {
		t.Errorf("Expected OnAdvance to be called once, got %+v", *advanced)
	}
}

func TestManualActionsCancelAutoAdvance(t *testing.T) {
	testCases := map[string]func(s *Session) error{
		"next": func(s *Session) error {
			_, _, err := s.Next()
			return err
		},
		"previous": func(s *Session) error {
			_, _, err := s.Previous()
			return err
		},
		"flip back": func(s *Session) error {
			_, err := s.Flip()
			return err
		},
		"feedback": func(s *Session) error {
			_, _, err := s.Feedback(context.Background(), true)
			return err
		},
	}
	for name, action := range testCases {
		t.Run(name, func(t *testing.T) {
			session, timer, _, advanced := newTestSession(t)
			if _, err := session.Flip(); err != nil {
				t.Fatalf("Flip() returned an unexpected error: %v", err)
			}
			stale := timer.pending

			if err := action(session); err != nil {
				t.Fatalf("action returned an unexpected error: %v", err)
			}
			if timer.pending != nil || timer.cancelled != 1 {
				t.Fatalf("Expected the pending advance to be cancelled, got cancelled=%d", timer.cancelled)
			}

			before := session.Current()
			stale()
			if after := session.Current(); after != before {
				t.Errorf("Expected a stale callback to be ignored, moved from %+v to %+v", before, after)
			}
			if len(*advanced) != 0 {
				t.Errorf("Expected no auto advance notifications, got %d", len(*advanced))
			}
		})
	}
}

func TestNavigationBounds(t *testing.T) {
	session, _, _, _ := newTestSession(t)

	if _, moved, _ := session.Previous(); moved {
		t.Error("Expected Previous() on the first card not to move")
	}
	for i := 1; i < 4; i++ {
		view, moved, err := session.Next()
		if err != nil || !moved || view.Index != i {
			t.Fatalf("Expected to move to card %d, got %+v moved=%v err=%v", i, view, moved, err)
		}
	}
	if _, moved, _ := session.Next(); moved {
		t.Error("Expected Next() on the last card not to move")
	}
}

func TestFlipOnLastCardDoesNotSchedule(t *testing.T) {
	session, timer, _, _ := newTestSession(t)
	for i := 0; i < 3; i++ {
		_, _, _ = session.Next()
	}
	if _, err := session.Flip(); err != nil {
		t.Fatalf("Flip() returned an unexpected error: %v", err)
	}
	if timer.pending != nil {
		t.Error("Expected no auto advance from the last card")
	}
	if !session.Done() {
		t.Error("Expected session to be done on the last card answer")
	}
}

func TestFeedbackRecordsRevision(t *testing.T) {
	session, _, tracker, _ := newTestSession(t)

	view, score, err := session.Feedback(context.Background(), false)
	if err != nil {
		t.Fatalf("Feedback() returned an unexpected error: %v", err)
	}
	if score != 10 || view.Index != 1 {
		t.Errorf("Expected score 10 and next card, got %v %+v", score, view)
	}
	want := models.ScoreKey{Language: models.LanguageEnglish, Theme: "Animaux", Kind: models.KindRevision}
	if len(tracker.keys) != 1 || tracker.keys[0] != want || tracker.outcomes[0] {
		t.Errorf("Expected one failed revision for %v, got %v %v", want, tracker.keys, tracker.outcomes)
	}

	tracker.err = errors.New("disk full")
	if _, _, err := session.Feedback(context.Background(), true); err == nil {
		t.Error("Expected tracker error to be returned")
	}
	if session.Current().Index != 1 {
		t.Error("Expected a failed feedback not to advance")
	}
}

func TestClose(t *testing.T) {
	session, timer, _, _ := newTestSession(t)
	_, _ = session.Flip()
	stale := timer.pending

	session.Close()
	if timer.pending != nil {
		t.Error("Expected Close() to cancel the pending advance")
	}
	stale()
	if session.Current().Index != 0 {
		t.Error("Expected callbacks after Close() to be ignored")
	}
	if _, err := session.Flip(); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Expected ErrSessionClosed, but got %v", err)
	}
}
