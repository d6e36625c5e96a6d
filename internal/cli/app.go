package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/internal/config"
	"github.com/example/vocabdrill/internal/database"
	"github.com/example/vocabdrill/internal/evaluation"
	"github.com/example/vocabdrill/internal/excel"
	"github.com/example/vocabdrill/internal/scoring"
	"github.com/example/vocabdrill/internal/spaced_repetition"
	"github.com/example/vocabdrill/pkg/models"
)

// App wires the components used by the commands
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Tracker   *scoring.Tracker
	Sequencer *spaced_repetition.Sequencer
	History   *evaluation.History
	Source    *excel.Source

	db *sqlx.DB
}

// loadApp reads the configuration from the command flags and opens the database
func loadApp(cmd *cobra.Command) (*App, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Level())

	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	kv := database.NewKVRepository(db)
	tracker := scoring.NewTracker(kv, logger)

	logger.Debug("database connected", "driver", cfg.DBDriver)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Tracker:   tracker,
		Sequencer: spaced_repetition.NewSequencer(tracker, nil),
		History:   evaluation.NewHistory(kv, logger),
		Source:    excel.NewSource(excel.ImportConfig{FilePath: cfg.CardsFile, SheetName: cfg.CardsSheet}, logger),
		db:        db,
	}, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Close releases the database connection
func (a *App) Close() error {
	return a.db.Close()
}

// cards loads the cards of one language
func (a *App) cards(ctx context.Context, lang models.Language) ([]models.Card, error) {
	all, err := a.Source.Cards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	var cards []models.Card
	for _, card := range all {
		if card.Language == lang {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

func parseLanguage(value string) (models.Language, error) {
	if !models.IsValidLanguage(value) {
		return "", fmt.Errorf("unknown language %q", value)
	}
	return models.Language(value), nil
}

func parseKind(value string) (models.EvaluationKind, error) {
	kind := models.EvaluationKind(value)
	if !kind.Valid() {
		return "", fmt.Errorf("unknown evaluation kind %q", value)
	}
	return kind, nil
}
