package models

import "testing"

func TestScoreKeyRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		key  ScoreKey
		want string
	}{
		{
			name: "simple",
			key:  ScoreKey{Language: LanguageEnglish, Theme: "Animaux", Kind: KindRevision},
			want: "anglais:Animaux:revision",
		},
		{
			name: "theme with colon",
			key:  ScoreKey{Language: LanguageJapanese, Theme: "Verbes: groupe 1", Kind: KindFreeText},
			want: "japonais:Verbes: groupe 1:libre",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.key.String(); got != tc.want {
				t.Fatalf("Expected key %q, but got %q", tc.want, got)
			}
			parsed, err := ParseScoreKey(tc.want)
			if err != nil {
				t.Fatalf("ParseScoreKey() returned an unexpected error: %v", err)
			}
			if parsed != tc.key {
				t.Errorf("Expected %+v, but got %+v", tc.key, parsed)
			}
		})
	}
}

func TestParseScoreKeyRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "anglais", "anglais:revision", ":Animaux:revision", "anglais:Animaux:"} {
		if _, err := ParseScoreKey(raw); err == nil {
			t.Errorf("Expected an error for %q", raw)
		}
	}
}

func TestEvaluationKindWeight(t *testing.T) {
	testCases := map[EvaluationKind]float64{
		KindFreeText:    1.5,
		KindQCMLangToFr: 1.2,
		KindQCMFrToLang: 1.0,
		KindRevision:    1.0,
		"dictation":     1.0,
	}
	for kind, want := range testCases {
		if got := kind.Weight(); got != want {
			t.Errorf("Expected weight %.1f for %q, but got %.1f", want, kind, got)
		}
	}
	if EvaluationKind("dictation").Valid() {
		t.Errorf("Expected unknown kind to be invalid")
	}
}

func TestGroupByTheme(t *testing.T) {
	cards := []Card{
		{SourceWord: "cat", TargetWord: "chat", Theme: "Animaux", Language: LanguageEnglish},
		{SourceWord: "neko", TargetWord: "chat", Theme: "Animaux", Language: LanguageJapanese},
		{SourceWord: "apple", TargetWord: "pomme", Theme: "Nourriture", Language: LanguageEnglish},
		{SourceWord: "dog", TargetWord: "chien", Theme: "Animaux", Language: LanguageEnglish},
	}

	groups, themes := GroupByTheme(cards, LanguageEnglish)
	if len(themes) != 2 {
		t.Fatalf("Expected 2 themes, but got %d", len(themes))
	}
	if themes[0].Name != "Animaux" || themes[0].CardCount != 2 {
		t.Errorf("Expected Animaux with 2 cards first, but got %+v", themes[0])
	}
	if got := groups["Animaux"][1].SourceWord; got != "dog" {
		t.Errorf("Expected card order to be kept, but got %q second", got)
	}
}
