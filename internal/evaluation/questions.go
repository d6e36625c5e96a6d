package evaluation

import (
	"math/rand"
	"strings"

	"github.com/example/vocabdrill/pkg/models"
)

// AnswerField selects which side of a card is the expected answer
type AnswerField int

const (
	// Word in the studied language
	FieldSource AnswerField = iota
	// French translation
	FieldTarget
)

func (f AnswerField) of(card models.Card) string {
	if f == FieldSource {
		return card.SourceWord
	}
	return card.TargetWord
}

// Deduplicate drops cards whose word pair was already seen, in either
// direction, ignoring case and surrounding spaces. Cards missing a word are dropped.
func Deduplicate(cards []models.Card) []models.Card {
	seen := make(map[string]bool)
	unique := make([]models.Card, 0, len(cards))
	for _, card := range cards {
		source := strings.ToLower(strings.TrimSpace(card.SourceWord))
		target := strings.ToLower(strings.TrimSpace(card.TargetWord))
		if source == "" || target == "" {
			continue
		}
		forward := source + "\x00" + target
		backward := target + "\x00" + source
		if seen[forward] || seen[backward] {
			continue
		}
		seen[forward] = true
		seen[backward] = true
		unique = append(unique, card)
	}
	return unique
}

// Distractors picks up to count wrong answers for card. Candidates come from
// the given themes of the card's language; when there are not enough of them,
// every theme of the language is used.
func Distractors(rnd *rand.Rand, card models.Card, pool []models.Card, themes []string, field AnswerField, count int) []string {
	if count <= 0 {
		return nil
	}
	selected := make(map[string]bool, len(themes))
	for _, theme := range themes {
		selected[strings.TrimSpace(theme)] = true
	}

	correct := field.of(card)
	seen := map[string]bool{correct: true}
	collect := func(values []string, onlySelected bool) []string {
		for _, candidate := range pool {
			if candidate.Language != card.Language {
				continue
			}
			if onlySelected && !selected[strings.TrimSpace(candidate.Theme)] {
				continue
			}
			value := field.of(candidate)
			if value == "" || seen[value] {
				continue
			}
			seen[value] = true
			values = append(values, value)
		}
		return values
	}

	values := collect(nil, true)
	if len(values) < count {
		values = collect(values, false)
	}

	rnd.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
	if len(values) > count {
		values = values[:count]
	}
	return values
}
