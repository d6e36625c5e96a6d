package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/internal/config"
)

// NewRootCmd builds the vocabdrill command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vocabdrill",
		Short:         "Vocabulary flashcards and quizzes with adaptive repetition",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newThemesCmd())
	root.AddCommand(newSequenceCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(newRecordCmd())
	root.AddCommand(newReviewCmd())
	root.AddCommand(newQuizCmd())
	root.AddCommand(newHistoryCmd())
	return root
}

// Execute runs the command line with ctx
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// withApp loads the application for the duration of a command
func withApp(cmd *cobra.Command, fn func(app *App) error) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}
