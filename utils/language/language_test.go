package language

import (
	"testing"

	"golang.org/x/text/language"
)

func TestCatalogLocale(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Full locale", "en-US", "en-US"},
		{"Brazilian Portuguese", "pt-BR", "pt-BR"},
		{"Underscore separator", "de_AT", "de-AT"},
		{"Mixed case", "EN-gb", "en-GB"},
		{"Language only english", "en", "en-US"},
		{"Language only french", "fr", "fr-FR"},
		{"Language only japanese", "ja", "ja-JP"},
		{"Whitespace around value", "  es-MX  ", "es-MX"},

		{"Empty string", "", DefaultLocale},
		{"Whitespace", "   ", DefaultLocale},
		{"Garbage", "!!", DefaultLocale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CatalogLocale(tt.input)
			if result != tt.expected {
				t.Errorf("CatalogLocale(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTagFallsBackToAmericanEnglish(t *testing.T) {
	if got := Tag("not a language"); got != language.AmericanEnglish {
		t.Errorf("Tag() = %v, want %v", got, language.AmericanEnglish)
	}
	if got := Tag("de"); got != language.German {
		t.Errorf("Tag(de) = %v, want %v", got, language.German)
	}
}
