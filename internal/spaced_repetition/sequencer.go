package spaced_repetition

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// RecordReader gives access to the stored score record of a key
type RecordReader interface {
	Record(ctx context.Context, key models.ScoreKey) (models.ScoreRecord, bool, error)
}

// Sequencer builds ordered practice sequences
type Sequencer struct {
	records RecordReader

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSequencer creates a sequencer. A nil rnd is replaced by a time seeded source.
func NewSequencer(records RecordReader, rnd *rand.Rand) *Sequencer {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sequencer{records: records, rnd: rnd}
}

// BuildSequence looks up the score of a theme, selects a plan and builds the sequence
func (s *Sequencer) BuildSequence(ctx context.Context, cards []models.Card, lang models.Language, theme string, kind models.EvaluationKind) ([]models.Card, Plan, error) {
	record, ok, err := s.records.Record(ctx, models.ScoreKey{Language: lang, Theme: theme, Kind: kind})
	if err != nil {
		return nil, Plan{}, fmt.Errorf("failed to load score for %s: %w", theme, err)
	}

	plan := SelectStrategy(record.Score, ok, record.History)
	return s.Sequence(cards, plan), plan, nil
}

// Sequence orders cards according to plan
func (s *Sequencer) Sequence(cards []models.Card, plan Plan) []models.Card {
	if len(cards) == 0 {
		return []models.Card{}
	}
	weight := plan.Weight
	if weight < 1 {
		weight = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch plan.Strategy {
	case StrategyMastery:
		return s.shuffled(cards)
	case StrategyIntensive:
		return interleave(s.copies(cards, weight), len(cards))
	case StrategyReinforcement:
		return s.groupedRounds(cards, weight)
	default:
		return s.copies(cards, weight)
	}
}

// copies concatenates weight independently shuffled copies of cards
func (s *Sequencer) copies(cards []models.Card, weight int) []models.Card {
	result := make([]models.Card, 0, len(cards)*weight)
	for i := 0; i < weight; i++ {
		result = append(result, s.shuffled(cards)...)
	}
	return result
}

// groupedRounds splits cards into 3 contiguous groups and, for every round,
// shuffles the order of the groups and the cards inside each group.
func (s *Sequencer) groupedRounds(cards []models.Card, weight int) []models.Card {
	size := (len(cards) + 2) / 3
	var groups [][]models.Card
	for start := 0; start < len(cards); start += size {
		end := start + size
		if end > len(cards) {
			end = len(cards)
		}
		groups = append(groups, cards[start:end])
	}

	result := make([]models.Card, 0, len(cards)*weight)
	for round := 0; round < weight; round++ {
		order := s.rnd.Perm(len(groups))
		for _, g := range order {
			result = append(result, s.shuffled(groups[g])...)
		}
	}
	return result
}

// shuffled returns a Fisher-Yates shuffled copy of cards
func (s *Sequencer) shuffled(cards []models.Card) []models.Card {
	out := make([]models.Card, len(cards))
	copy(out, cards)
	for i := len(out) - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// interleave greedily reorders seq so that a card does not come back within
// minDistance positions of its previous occurrence. When no pending card fits,
// the rest is appended in its current order.
func interleave(seq []models.Card, minDistance int) []models.Card {
	result := make([]models.Card, 0, len(seq))
	pending := append([]models.Card(nil), seq...)
	lastSeen := make(map[string]int)

	for iterations := 0; len(pending) > 0 && iterations < 2*len(seq); iterations++ {
		pick := -1
		for i, card := range pending {
			last, seen := lastSeen[card.Identity()]
			if !seen || len(result)-last >= minDistance {
				pick = i
				break
			}
		}
		if pick < 0 {
			break
		}

		card := pending[pick]
		lastSeen[card.Identity()] = len(result)
		result = append(result, card)
		pending = append(pending[:pick], pending[pick+1:]...)
	}

	return append(result, pending...)
}
