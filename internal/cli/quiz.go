package cli

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/internal/clock"
	"github.com/example/vocabdrill/internal/evaluation"
	"github.com/example/vocabdrill/pkg/models"
)

func newQuizCmd() *cobra.Command {
	var lang, mode string
	var themes []string
	var count int
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Run a multiple choice or free text quiz",
		RunE: func(cmd *cobra.Command, _ []string) error {
			language, err := parseLanguage(lang)
			if err != nil {
				return err
			}
			return withApp(cmd, func(app *App) error {
				cards, err := app.cards(cmd.Context(), language)
				if err != nil {
					return err
				}
				if len(themes) == 0 {
					_, all := models.GroupByTheme(cards, language)
					for _, t := range all {
						themes = append(themes, t.Name)
					}
				}

				session, err := evaluation.NewSession(evaluation.SessionConfig{
					Language:      language,
					Mode:          models.EvaluationKind(mode),
					Themes:        themes,
					QuestionCount: count,
				}, cards, nil, clock.SystemClock{})
				if err != nil {
					return err
				}
				if err := session.Start(); err != nil {
					return err
				}
				app.Logger.Debug("quiz started", "id", session.ID(), "mode", mode, "themes", themes)

				if err := runQuiz(cmd, session); err != nil {
					return err
				}
				return finishQuiz(cmd, app, session)
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", string(models.LanguageEnglish), "language")
	cmd.Flags().StringVar(&mode, "mode", string(models.KindQCMLangToFr), "quiz mode: qcm_fr_lang|qcm_lang_fr|libre")
	cmd.Flags().StringSliceVar(&themes, "themes", nil, "themes to draw questions from, every theme when empty")
	cmd.Flags().IntVar(&count, "count", 10, "number of questions (1-100)")
	return cmd
}

func runQuiz(cmd *cobra.Command, session *evaluation.Session) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for session.State() == evaluation.StateInProgress {
		q, err := session.Current()
		if err != nil {
			return err
		}
		index, total := session.Progress()
		_, _ = fmt.Fprintf(out, "%d/%d\t%s\n", index+1, total, q.Prompt)
		for i, option := range q.Options {
			_, _ = fmt.Fprintf(out, "  %d) %s\n", i+1, option)
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return fmt.Errorf("quiz interrupted after %d of %d questions", index, total)
		}
		outcome, err := session.Answer(choice(q, scanner.Text()))
		if err != nil {
			return err
		}
		if outcome.IsCorrect {
			_, _ = fmt.Fprintln(out, "correct")
		} else {
			_, _ = fmt.Fprintf(out, "wrong, the answer was %s\n", outcome.CorrectAnswer)
		}
	}
	return nil
}

// choice maps an option number to its text
func choice(q evaluation.Question, input string) string {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1]
	}
	return input
}

// finishQuiz updates the theme scores and stores the session in the history
func finishQuiz(cmd *cobra.Command, app *App, session *evaluation.Session) error {
	result, err := session.Result()
	if err != nil {
		return err
	}
	scores, err := app.Tracker.RecordSession(cmd.Context(), result.Language, result.Mode, result.Results)
	if err != nil {
		return err
	}
	if err := app.History.Append(cmd.Context(), result); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "result: %d/%d (%g%%), weighted %g%%\n", result.CorrectCount, len(result.Results), result.Percentage, result.WeightedPercentage)

	themes := make([]string, 0, len(result.ThemeBreakdown))
	for theme := range result.ThemeBreakdown {
		themes = append(themes, theme)
	}
	sort.Strings(themes)
	for _, theme := range themes {
		stats := result.ThemeBreakdown[theme]
		_, _ = fmt.Fprintf(out, "%s\t%d/%d\t%g%%\tscore %s\n", theme, stats.Correct, stats.Total, stats.Percentage, formatScore(scores[theme], true))
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List completed quizzes, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(app *App) error {
				sessions, err := app.History.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no quizzes")
					return nil
				}
				if limit > 0 && len(sessions) > limit {
					sessions = sessions[:limit]
				}
				for _, s := range sessions {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d/%d\t%g%%\t%g%%\t%s\n",
						s.StartedAt.Format(time.RFC3339), s.Language, s.Mode,
						s.CorrectCount, len(s.Results), s.Percentage, s.WeightedPercentage,
						strings.Join(s.Themes, ","))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of quizzes shown, 0 for all")
	return cmd
}
