// Package language maps user supplied language settings onto the
// locale format expected by the catalog provider ("en-US").
package language

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is used when a setting cannot be parsed.
const DefaultLocale = "en-US"

// Tag parses lang, accepting forms like "en", "en_US" or "EN-us".
// It returns language.AmericanEnglish when lang is empty or invalid.
func Tag(lang string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil || tag == language.Und {
		return language.AmericanEnglish
	}
	return tag
}

// CatalogLocale normalizes lang to "<language>-<REGION>". A missing region is
// filled with the most likely one for the language ("fr" becomes "fr-FR").
func CatalogLocale(lang string) string {
	tag := Tag(lang)
	base, _ := tag.Base()
	region, _ := tag.Region()
	if base.String() == "und" || region.String() == "ZZ" {
		return DefaultLocale
	}
	return base.String() + "-" + region.String()
}
