package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/internal/scoring"
	"github.com/example/vocabdrill/pkg/models"
)

func newThemesCmd() *cobra.Command {
	var lang, kind string
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List themes of a language, the ones needing work first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			language, err := parseLanguage(lang)
			if err != nil {
				return err
			}
			evalKind, err := parseKind(kind)
			if err != nil {
				return err
			}
			return withApp(cmd, func(app *App) error {
				cards, err := app.cards(cmd.Context(), language)
				if err != nil {
					return err
				}
				_, themes := models.GroupByTheme(cards, language)
				if len(themes) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no themes")
					return nil
				}

				counts := make(map[string]int, len(themes))
				names := make([]string, 0, len(themes))
				for _, theme := range themes {
					counts[theme.Name] = theme.CardCount
					names = append(names, theme.Name)
				}
				ranked, err := scoring.RankThemes(cmd.Context(), app.Tracker, language, evalKind, names)
				if err != nil {
					return err
				}
				for _, t := range ranked {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d cards\t%s\t%s\n", t.Theme, counts[t.Theme], formatScore(t.Score, t.Scored), t.Level)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", string(models.LanguageEnglish), "language: anglais|japonais|espagnol|allemand")
	cmd.Flags().StringVar(&kind, "kind", string(models.KindRevision), "evaluation kind: revision|qcm_fr_lang|qcm_lang_fr|libre")
	return cmd
}

func newSequenceCmd() *cobra.Command {
	var lang, theme, kind string
	cmd := &cobra.Command{
		Use:   "sequence --theme <theme>",
		Short: "Print the practice sequence of a theme",
		RunE: func(cmd *cobra.Command, _ []string) error {
			language, err := parseLanguage(lang)
			if err != nil {
				return err
			}
			evalKind, err := parseKind(kind)
			if err != nil {
				return err
			}
			if theme == "" {
				return fmt.Errorf("--theme is required")
			}
			return withApp(cmd, func(app *App) error {
				cards, err := app.cards(cmd.Context(), language)
				if err != nil {
					return err
				}
				themeCards, _ := models.GroupByTheme(cards, language)
				if len(themeCards[theme]) == 0 {
					return fmt.Errorf("no %s cards for theme %q", language, theme)
				}
				deck, plan, err := app.Sequencer.BuildSequence(cmd.Context(), themeCards[theme], language, theme, evalKind)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "strategy: %s x%d (%d cards)\n", plan.Strategy, plan.Weight, len(deck))
				for i, card := range deck {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", i+1, card.SourceWord, card.TargetWord)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", string(models.LanguageEnglish), "language")
	cmd.Flags().StringVar(&theme, "theme", "", "theme")
	cmd.Flags().StringVar(&kind, "kind", string(models.KindRevision), "evaluation kind the score is read from")
	return cmd
}

func newScoreCmd() *cobra.Command {
	var lang, theme, kind string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Show stored scores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			language, err := parseLanguage(lang)
			if err != nil {
				return err
			}
			return withApp(cmd, func(app *App) error {
				if theme == "" {
					records, err := app.Tracker.Scores(cmd.Context(), language)
					if err != nil {
						return err
					}
					if len(records) == 0 {
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no scores")
					}
					for _, r := range records {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d answers\n", r.Key.Theme, r.Key.Kind, formatScore(r.Score, true), len(r.History))
					}
					return nil
				}

				evalKind, err := parseKind(kind)
				if err != nil {
					return err
				}
				score, ok, err := app.Tracker.Score(cmd.Context(), models.ScoreKey{Language: language, Theme: theme, Kind: evalKind})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", theme, evalKind, formatScore(score, ok), scoring.LevelFor(score, ok))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", string(models.LanguageEnglish), "language")
	cmd.Flags().StringVar(&theme, "theme", "", "theme, every stored score of the language when empty")
	cmd.Flags().StringVar(&kind, "kind", string(models.KindRevision), "evaluation kind")
	return cmd
}

func newRecordCmd() *cobra.Command {
	var lang, theme, kind string
	var correct bool
	cmd := &cobra.Command{
		Use:   "record --theme <theme> --correct=<bool>",
		Short: "Record one answer outcome",
		RunE: func(cmd *cobra.Command, _ []string) error {
			language, err := parseLanguage(lang)
			if err != nil {
				return err
			}
			evalKind, err := parseKind(kind)
			if err != nil {
				return err
			}
			if theme == "" {
				return fmt.Errorf("--theme is required")
			}
			return withApp(cmd, func(app *App) error {
				score, err := app.Tracker.RecordOutcome(cmd.Context(), models.ScoreKey{Language: language, Theme: theme, Kind: evalKind}, correct)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", theme, evalKind, formatScore(score, true))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", string(models.LanguageEnglish), "language")
	cmd.Flags().StringVar(&theme, "theme", "", "theme")
	cmd.Flags().StringVar(&kind, "kind", string(models.KindRevision), "evaluation kind")
	cmd.Flags().BoolVar(&correct, "correct", false, "whether the answer was correct")
	return cmd
}

func formatScore(score float64, scored bool) string {
	if !scored {
		return "new"
	}
	return fmt.Sprintf("%g/10", score)
}
