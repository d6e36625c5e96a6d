package evaluation

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/example/vocabdrill/internal/clock"
	"github.com/example/vocabdrill/pkg/models"
)

var (
	ErrNoQuestions        = errors.New("no questions available for the selected themes")
	ErrSessionNotStarted  = errors.New("session not started")
	ErrSessionStarted     = errors.New("session already started")
	ErrSessionCompleted   = errors.New("session completed")
	ErrSessionNotFinished = errors.New("session not finished")
)

// distractorCount is the number of wrong options shown with a multiple choice question
const distractorCount = 3

var validate = validator.New()

// SessionConfig describes the quiz requested by the learner
type SessionConfig struct {
	Language      models.Language       `validate:"required,oneof=anglais japonais espagnol allemand"`
	Mode          models.EvaluationKind `validate:"required,oneof=qcm_fr_lang qcm_lang_fr libre"`
	Themes        []string              `validate:"min=1,dive,required"`
	QuestionCount int                   `validate:"min=1,max=100"`
}

// Validate checks the configuration
func (c SessionConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid session config: %w", err)
	}
	return nil
}

// State is the lifecycle state of a quiz
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	default:
		return "completed"
	}
}

// Question is one quiz question. Options is empty for free text questions.
type Question struct {
	Card    models.Card
	Prompt  string
	Answer  string
	Options []string
}

// Session runs one quiz from start to completion
type Session struct {
	id        string
	config    SessionConfig
	questions []Question
	results   []models.AnswerOutcome
	index     int
	state     State
	clock     clock.Clock
	startedAt time.Time
	endedAt   time.Time
}

// NewSession builds the questions of a quiz from the card pool
func NewSession(cfg SessionConfig, pool []models.Card, rnd *rand.Rand, clk clock.Clock) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}

	selected := make(map[string]bool, len(cfg.Themes))
	for _, theme := range cfg.Themes {
		selected[strings.TrimSpace(theme)] = true
	}
	var cards []models.Card
	for _, card := range pool {
		if card.Language == cfg.Language && selected[strings.TrimSpace(card.Theme)] {
			cards = append(cards, card)
		}
	}
	cards = Deduplicate(cards)

	rnd.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	if len(cards) > cfg.QuestionCount {
		cards = cards[:cfg.QuestionCount]
	}
	if len(cards) == 0 {
		return nil, ErrNoQuestions
	}

	questions := make([]Question, 0, len(cards))
	for _, card := range cards {
		questions = append(questions, buildQuestion(rnd, cfg, card, pool))
	}

	return &Session{
		id:        uuid.NewString(),
		config:    cfg,
		questions: questions,
		clock:     clk,
	}, nil
}

func buildQuestion(rnd *rand.Rand, cfg SessionConfig, card models.Card, pool []models.Card) Question {
	switch cfg.Mode {
	case models.KindQCMFrToLang:
		q := Question{Card: card, Prompt: card.TargetWord, Answer: card.SourceWord}
		q.Options = options(rnd, q.Answer, Distractors(rnd, card, pool, cfg.Themes, FieldSource, distractorCount))
		return q
	case models.KindQCMLangToFr:
		q := Question{Card: card, Prompt: card.SourceWord, Answer: card.TargetWord}
		q.Options = options(rnd, q.Answer, Distractors(rnd, card, pool, cfg.Themes, FieldTarget, distractorCount))
		return q
	default:
		return Question{Card: card, Prompt: card.SourceWord, Answer: card.TargetWord}
	}
}

func options(rnd *rand.Rand, answer string, distractors []string) []string {
	all := append(distractors, answer)
	rnd.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	return all
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// State returns the lifecycle state
func (s *Session) State() State {
	return s.state
}

// Progress returns the index of the current question and the number of questions
func (s *Session) Progress() (int, int) {
	return s.index, len(s.questions)
}

// Start begins the quiz
func (s *Session) Start() error {
	if s.state != StateNotStarted {
		return ErrSessionStarted
	}
	s.state = StateInProgress
	s.startedAt = s.clock.Now()
	return nil
}

// Current returns the question waiting for an answer
func (s *Session) Current() (Question, error) {
	switch s.state {
	case StateNotStarted:
		return Question{}, ErrSessionNotStarted
	case StateCompleted:
		return Question{}, ErrSessionCompleted
	}
	return s.questions[s.index], nil
}

// Answer checks the answer to the current question and moves to the next one
func (s *Session) Answer(text string) (models.AnswerOutcome, error) {
	q, err := s.Current()
	if err != nil {
		return models.AnswerOutcome{}, err
	}

	outcome := models.AnswerOutcome{
		Card:          q.Card,
		UserAnswer:    text,
		CorrectAnswer: q.Answer,
		IsCorrect:     s.check(text, q.Answer),
		Mode:          s.config.Mode,
	}
	s.results = append(s.results, outcome)

	s.index++
	if s.index >= len(s.questions) {
		s.state = StateCompleted
		s.endedAt = s.clock.Now()
	}
	return outcome, nil
}

func (s *Session) check(given, expected string) bool {
	if s.config.Mode == models.KindFreeText {
		return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(expected))
	}
	return given == expected
}

// Outcomes returns the answers given so far
func (s *Session) Outcomes() []models.AnswerOutcome {
	return append([]models.AnswerOutcome(nil), s.results...)
}

// Result builds the record of a completed quiz
func (s *Session) Result() (models.EvaluationSession, error) {
	if s.state != StateCompleted {
		return models.EvaluationSession{}, ErrSessionNotFinished
	}

	report := Score(s.results, s.config.Mode)
	return models.EvaluationSession{
		ID:                 s.id,
		Language:           s.config.Language,
		Mode:               s.config.Mode,
		Themes:             append([]string(nil), s.config.Themes...),
		Results:            s.Outcomes(),
		StartedAt:          s.startedAt,
		DurationMs:         s.endedAt.Sub(s.startedAt).Milliseconds(),
		CorrectCount:       report.Correct,
		Percentage:         report.StandardPercentage,
		WeightedPercentage: report.WeightedPercentage,
		ThemeBreakdown:     report.ThemeBreakdown,
	}, nil
}
