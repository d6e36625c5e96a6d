package spaced_repetition

import "github.com/example/vocabdrill/pkg/models"

// Strategy is the repetition policy used to build a practice sequence
type Strategy string

const (
	// Theme never evaluated
	StrategyDiscovery     Strategy = "discovery"
	// Score at or below 3
	StrategyIntensive     Strategy = "intensive"
	// Score at or below 6
	StrategyReinforcement Strategy = "reinforcement"
	// Score at or below 8
	StrategyMaintenance   Strategy = "maintenance"
	// Score above 8
	StrategyMastery       Strategy = "mastery"
)

const (
	// recentWindow is the number of latest outcomes used to adjust the weight
	recentWindow = 10
	maxWeight    = 4
	minWeight    = 1
	lowRate      = 0.4
	highRate     = 0.8
)

// Plan is a strategy with the number of times each card is repeated
type Plan struct {
	Strategy Strategy `json:"strategy"`
	Weight   int      `json:"weight"`
}

// SelectStrategy picks a plan from the current score and the recent trend.
// scored is false when the theme was never evaluated.
func SelectStrategy(score float64, scored bool, recent []models.HistoryEntry) Plan {
	var plan Plan
	switch {
	case !scored:
		plan = Plan{Strategy: StrategyDiscovery, Weight: 2}
	case score <= 3:
		plan = Plan{Strategy: StrategyIntensive, Weight: 4}
	case score <= 6:
		plan = Plan{Strategy: StrategyReinforcement, Weight: 3}
	case score <= 8:
		plan = Plan{Strategy: StrategyMaintenance, Weight: 2}
	default:
		plan = Plan{Strategy: StrategyMastery, Weight: 1}
	}

	if len(recent) < recentWindow {
		return plan
	}

	correct := 0
	for _, entry := range recent[len(recent)-recentWindow:] {
		correct += int(entry)
	}
	rate := float64(correct) / recentWindow

	if rate < lowRate && plan.Weight < maxWeight {
		plan.Weight++
	} else if rate > highRate && plan.Weight > minWeight {
		plan.Weight--
	}
	return plan
}
