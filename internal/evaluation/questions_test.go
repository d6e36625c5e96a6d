package evaluation

import (
	"math/rand"
	"testing"

	"github.com/example/vocabdrill/pkg/models"
)

func card(theme, fr, en string) models.Card {
	return models.Card{SourceWord: en, TargetWord: fr, Theme: theme, Language: models.LanguageEnglish}
}

func TestDeduplicate(t *testing.T) {
	cards := []models.Card{
		card("Animaux", "chat", "cat"),
		card("Animaux", "chat", "cat"),
		card("Animaux", "chien", "dog"),
		card("Animaux", "oiseau", "bird"),
		card("Animaux", "chien", "dog"),
		card("Nourriture", "pomme", "apple"),
		card("Nourriture", "pain", "bread"),
		card("Nourriture", "pomme", "apple"),
	}

	unique := Deduplicate(cards)
	if len(unique) != 5 {
		t.Fatalf("Expected 5 unique cards, but got %d", len(unique))
	}
	want := []string{"cat", "dog", "bird", "apple", "bread"}
	for i, w := range want {
		if unique[i].SourceWord != w {
			t.Errorf("Position %d: expected %s, but got %s", i, w, unique[i].SourceWord)
		}
	}
}

func TestDeduplicateBothDirectionsAndCase(t *testing.T) {
	cards := []models.Card{
		card("Maison", "table", "table"),
		card("Maison", " Table ", "TABLE"),
		card("Animaux", "cat", "chat"),
		card("Animaux", "chat", "cat"),
		card("Animaux", "", "ghost"),
	}
	unique := Deduplicate(cards)
	if len(unique) != 2 {
		t.Errorf("Expected 2 unique cards, but got %v", unique)
	}
}

var distractorPool = []models.Card{
	card("Animaux", "chat", "cat"),
	card("Animaux", "chien", "dog"),
	card("Animaux", "oiseau", "bird"),
	card("Nourriture", "pomme", "apple"),
	card("Nourriture", "pain", "bread"),
	card("Nourriture", "eau", "water"),
	card("Maison", "table", "table"),
	card("Maison", "chaise", "chair"),
	{SourceWord: "Katze", TargetWord: "minou", Theme: "Animaux", Language: models.LanguageGerman},
}

func TestDistractorsFromSelectedThemes(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	question := distractorPool[0]

	got := Distractors(rnd, question, distractorPool, []string{"Animaux"}, FieldTarget, 2)
	if len(got) != 2 {
		t.Fatalf("Expected 2 distractors, but got %v", got)
	}
	for _, d := range got {
		if d != "chien" && d != "oiseau" {
			t.Errorf("Unexpected distractor %q outside the selected theme", d)
		}
	}

	got = Distractors(rnd, question, distractorPool, []string{"Animaux", "Nourriture"}, FieldTarget, 3)
	allowed := map[string]bool{"chien": true, "oiseau": true, "pomme": true, "pain": true, "eau": true}
	for _, d := range got {
		if !allowed[d] {
			t.Errorf("Unexpected distractor %q", d)
		}
	}
}

func TestDistractorsFallBackToLanguage(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		got := Distractors(rnd, distractorPool[0], distractorPool, []string{"Animaux"}, FieldSource, 3)
		if len(got) != 3 {
			t.Fatalf("Expected 3 distractors, but got %v", got)
		}
		seen := map[string]bool{}
		for _, d := range got {
			if d == "cat" {
				t.Fatalf("Distractors contain the correct answer: %v", got)
			}
			if d == "Katze" {
				t.Fatalf("Distractors contain a word of another language: %v", got)
			}
			if seen[d] {
				t.Fatalf("Duplicate distractor %q in %v", d, got)
			}
			seen[d] = true
		}
	}
}
