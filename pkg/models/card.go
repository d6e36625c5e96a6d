package models

// Language is a studied language as named in the card sheet
type Language string

const (
	LanguageEnglish  Language = "anglais"
	LanguageJapanese Language = "japonais"
	LanguageSpanish  Language = "espagnol"
	LanguageGerman   Language = "allemand"
)

// Languages lists every supported language
var Languages = []Language{LanguageEnglish, LanguageJapanese, LanguageSpanish, LanguageGerman}

// IsValidLanguage checks if a language is supported
func IsValidLanguage(language string) bool {
	switch Language(language) {
	case LanguageEnglish, LanguageJapanese, LanguageSpanish, LanguageGerman:
		return true
	default:
		return false
	}
}

// ColumnKey returns the sheet column holding words of the language
func (l Language) ColumnKey() string {
	switch l {
	case LanguageEnglish:
		return "en"
	case LanguageJapanese:
		return "ja"
	case LanguageSpanish:
		return "es"
	case LanguageGerman:
		return "de"
	default:
		return string(l)
	}
}

// Card represents a vocabulary word with its French translation
type Card struct {
	// Word in the studied language
	SourceWord string   `json:"source_word" db:"source_word" validate:"required"`
	// French translation
	TargetWord string   `json:"target_word" db:"target_word" validate:"required"`
	Theme      string   `json:"theme" db:"theme" validate:"required"`
	Language   Language `json:"language" db:"language" validate:"required,oneof=anglais japonais espagnol allemand"`
}

// Identity is the key used to recognise repeats of the same card in a sequence
func (c Card) Identity() string {
	return c.SourceWord
}
