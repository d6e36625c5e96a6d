package scoring

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/example/vocabdrill/pkg/models"
)

// Level is a coarse label for a theme score
type Level string

const (
	LevelNew         Level = "new"
	LevelNeedsWork   Level = "needs_work"
	LevelProgressing Level = "progressing"
	LevelGood        Level = "good"
	LevelExcellent   Level = "excellent"
)

// ScoreReader is the read side of the tracker
type ScoreReader interface {
	Score(ctx context.Context, key models.ScoreKey) (float64, bool, error)
}

// ThemeScore is one line of a ranked theme list
type ThemeScore struct {
	Theme  string  `json:"theme"`
	Score  float64 `json:"score"`
	Scored bool    `json:"scored"`
	Level  Level   `json:"level"`
}

// LevelFor maps a score to its level
func LevelFor(score float64, scored bool) Level {
	switch {
	case !scored:
		return LevelNew
	case score >= 8:
		return LevelExcellent
	case score >= 6:
		return LevelGood
	case score >= 4:
		return LevelProgressing
	default:
		return LevelNeedsWork
	}
}

// RankThemes orders themes so the ones needing the most work come first:
// never evaluated themes in French alphabetical order, then scored themes
// by ascending score.
func RankThemes(ctx context.Context, reader ScoreReader, lang models.Language, kind models.EvaluationKind, themes []string) ([]ThemeScore, error) {
	var unscored, scored []ThemeScore
	for _, theme := range themes {
		score, ok, err := reader.Score(ctx, models.ScoreKey{Language: lang, Theme: theme, Kind: kind})
		if err != nil {
			return nil, fmt.Errorf("failed to rank theme %s: %w", theme, err)
		}
		entry := ThemeScore{Theme: theme, Score: score, Scored: ok, Level: LevelFor(score, ok)}
		if ok {
			scored = append(scored, entry)
		} else {
			unscored = append(unscored, entry)
		}
	}

	c := collate.New(language.French)
	sort.SliceStable(unscored, func(i, j int) bool {
		return c.CompareString(unscored[i].Theme, unscored[j].Theme) < 0
	})
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score < scored[j].Score
	})

	return append(unscored, scored...), nil
}
