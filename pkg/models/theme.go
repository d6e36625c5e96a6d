package models

// Theme represents a named group of cards within one language
type Theme struct {
	Name      string   `json:"name"`
	Language  Language `json:"language"`
	CardCount int      `json:"card_count"`
}

// GroupByTheme splits cards of one language by theme, keeping card order
func GroupByTheme(cards []Card, language Language) (map[string][]Card, []Theme) {
	groups := make(map[string][]Card)
	var themes []Theme
	for _, card := range cards {
		if card.Language != language || card.Theme == "" {
			continue
		}
		if _, ok := groups[card.Theme]; !ok {
			themes = append(themes, Theme{Name: card.Theme, Language: language})
		}
		groups[card.Theme] = append(groups[card.Theme], card)
	}
	for i := range themes {
		themes[i].CardCount = len(groups[themes[i].Name])
	}
	return groups, themes
}
