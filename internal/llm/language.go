package llm

import (
	"errors"
	"strings"
)

// Language selects the output language of the analysis.
type Language string

const (
	LanguageChinese Language = "zh"
	LanguageEnglish Language = "en"
)

// ErrInvalidLanguage is returned for unknown language codes.
var ErrInvalidLanguage = errors.New("language is invalid")

// ParseLanguage normalizes and validates a language code.
func ParseLanguage(raw string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(LanguageChinese):
		return LanguageChinese, nil
	case string(LanguageEnglish):
		return LanguageEnglish, nil
	default:
		return "", ErrInvalidLanguage
	}
}

// Label is the name shown in the language selector.
func (l Language) Label() string {
	if l == LanguageEnglish {
		return "English"
	}
	return "中文"
}

// Languages lists the selectable languages in display order.
func Languages() []Language {
	return []Language{LanguageChinese, LanguageEnglish}
}
