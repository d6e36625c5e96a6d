package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cardsFixture = `langue,theme,fr,en
anglais,Animaux,chat,cat
anglais,Animaux,chien,dog
anglais,Nourriture,pomme,apple
`

func newWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cards.csv"), []byte(cardsFixture), 0644); err != nil {
		t.Fatalf("failed to write cards: %v", err)
	}
	return dir
}

func run(t *testing.T, dir, stdin string, args ...string) string {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args,
		"--db-dsn", filepath.Join(dir, "data", "scores.db"),
		"--cards-file", filepath.Join(dir, "cards.csv"),
		"--env-file", filepath.Join(dir, "missing.env"),
		"--log-level", "error",
	))
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v returned an unexpected error: %v", args, err)
	}
	return out.String()
}

func TestScoreCommands(t *testing.T) {
	dir := newWorkspace(t)

	out := run(t, dir, "", "themes")
	if !strings.Contains(out, "Animaux\t2 cards\tnew\tnew") || !strings.Contains(out, "Nourriture\t1 cards\tnew\tnew") {
		t.Fatalf("Unexpected themes output:\n%s", out)
	}

	out = run(t, dir, "", "record", "--theme", "Animaux", "--correct")
	if !strings.Contains(out, "Animaux\trevision\t10/10") {
		t.Errorf("Unexpected record output:\n%s", out)
	}

	out = run(t, dir, "", "themes")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "Nourriture") || !strings.HasPrefix(lines[1], "Animaux") {
		t.Errorf("Expected the new theme first, got:\n%s", out)
	}

	out = run(t, dir, "", "score", "--theme", "Animaux")
	if !strings.Contains(out, "10/10\texcellent") {
		t.Errorf("Unexpected score output:\n%s", out)
	}

	out = run(t, dir, "", "sequence", "--theme", "Animaux")
	if !strings.HasPrefix(out, "strategy: mastery x1 (2 cards)") {
		t.Errorf("Unexpected sequence output:\n%s", out)
	}

	out = run(t, dir, "", "sequence", "--theme", "Nourriture")
	if !strings.HasPrefix(out, "strategy: discovery x2 (2 cards)") {
		t.Errorf("Unexpected sequence output:\n%s", out)
	}
}

func TestQuizAndHistory(t *testing.T) {
	dir := newWorkspace(t)

	out := run(t, dir, "", "history")
	if !strings.Contains(out, "no quizzes") {
		t.Errorf("Expected an empty history, got:\n%s", out)
	}

	out = run(t, dir, "  POMME \n", "quiz", "--mode", "libre", "--themes", "Nourriture", "--count", "1")
	if !strings.Contains(out, "correct") || !strings.Contains(out, "result: 1/1 (100%), weighted 100%") {
		t.Fatalf("Unexpected quiz output:\n%s", out)
	}
	if !strings.Contains(out, "Nourriture\t1/1\t100%\tscore 10/10") {
		t.Errorf("Expected theme breakdown with the new score, got:\n%s", out)
	}

	out = run(t, dir, "", "history")
	if !strings.Contains(out, "anglais\tlibre\t1/1\t100%\t100%\tNourriture") {
		t.Errorf("Unexpected history output:\n%s", out)
	}

	out = run(t, dir, "", "score", "--theme", "Nourriture", "--kind", "libre")
	if !strings.Contains(out, "10/10") {
		t.Errorf("Expected the quiz to update the libre score, got:\n%s", out)
	}
}

func TestReviewCommand(t *testing.T) {
	dir := newWorkspace(t)

	out := run(t, dir, "f\ny\nq\n", "review", "--theme", "Nourriture")
	if !strings.Contains(out, "Nourriture: discovery x2") {
		t.Fatalf("Unexpected review header:\n%s", out)
	}
	if !strings.Contains(out, "1/2\tapple -> pomme") {
		t.Errorf("Expected the flipped card, got:\n%s", out)
	}
	if !strings.Contains(out, "score: 10/10") {
		t.Errorf("Expected the revision score, got:\n%s", out)
	}

	out = run(t, dir, "", "score", "--theme", "Nourriture")
	if !strings.Contains(out, "10/10") {
		t.Errorf("Expected the review to be recorded, got:\n%s", out)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := newWorkspace(t)
	testCases := map[string][]string{
		"unknown language": {"themes", "--lang", "klingon"},
		"missing theme":    {"sequence"},
		"unknown theme":    {"sequence", "--theme", "Maison"},
		"revision quiz":    {"quiz", "--mode", "revision"},
		"empty review":     {"review", "--theme", "Maison"},
	}
	for name, args := range testCases {
		t.Run(name, func(t *testing.T) {
			root := NewRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(append(args,
				"--db-dsn", filepath.Join(dir, "scores.db"),
				"--cards-file", filepath.Join(dir, "cards.csv"),
				"--env-file", filepath.Join(dir, "missing.env"),
			))
			if err := root.Execute(); err == nil {
				t.Error("Expected an error, but got nil")
			}
		})
	}
}
