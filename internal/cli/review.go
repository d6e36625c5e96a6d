package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/internal/practice"
	"github.com/example/vocabdrill/internal/scheduler"
	"github.com/example/vocabdrill/pkg/models"
)

const reviewHelp = "commands: [f]lip [n]ext [p]revious [y] knew it [x] did not know [q]uit"

// printer serializes writes coming from the auto advance goroutine
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) printf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) card(v practice.View) {
	if v.Flipped {
		p.printf("%d/%d\t%s -> %s\n", v.Index+1, v.Total, v.Card.SourceWord, v.Card.TargetWord)
		return
	}
	p.printf("%d/%d\t%s\n", v.Index+1, v.Total, v.Card.SourceWord)
}

func newReviewCmd() *cobra.Command {
	var lang, theme string
	cmd := &cobra.Command{
		Use:   "review --theme <theme>",
		Short: "Review the flashcards of a theme",
		RunE: func(cmd *cobra.Command, _ []string) error {
			language, err := parseLanguage(lang)
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

				out := &printer{w: cmd.OutOrStdout()}
				timer := scheduler.NewOneShot()
				defer timer.Stop()

				session, err := practice.New(cmd.Context(), practice.Config{
					Language:     language,
					Theme:        theme,
					AdvanceDelay: app.Config.AdvanceDelay,
				}, practice.Deps{
					Cards:     cards,
					Sequencer: app.Sequencer,
					Tracker:   app.Tracker,
					Timer:     timer,
					Logger:    app.Logger,
					OnAdvance: out.card,
				})
				if err != nil {
					return err
				}
				defer session.Close()

				plan := session.Plan()
				out.printf("%s: %s x%d\n%s\n", theme, plan.Strategy, plan.Weight, reviewHelp)
				out.card(session.Current())
				return runReview(cmd, session, out)
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", string(models.LanguageEnglish), "language")
	cmd.Flags().StringVar(&theme, "theme", "", "theme")
	return cmd
}

func runReview(cmd *cobra.Command, session *practice.Session, out *printer) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		var (
			view practice.View
			err  error
		)
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch input {
		case "f", "":
			view, err = session.Flip()
		case "n":
			view, _, err = session.Next()
		case "p":
			view, _, err = session.Previous()
		case "y", "x":
			last := session.Current()
			var score float64
			view, score, err = session.Feedback(cmd.Context(), input == "y")
			if err != nil {
				return err
			}
			out.printf("score: %g/10\n", score)
			if last.Index == last.Total-1 {
				out.printf("review finished\n")
				return nil
			}
		case "q":
			return nil
		default:
			out.printf("%s\n", reviewHelp)
			continue
		}
		if err != nil {
			return err
		}
		out.card(view)
	}
	return scanner.Err()
}
