// Package filter cleans discover filters before they reach the catalog provider.
package filter

import (
	"strconv"
	"strings"

	"streamhub/models"
)

// earliestYear is the first year the provider holds releases for.
const earliestYear = 1874

// Discover returns f with Genre and Year reduced to values the discover
// endpoint accepts. Invalid values are cleared rather than rejected.
// Query is left untouched.
func Discover(f models.Filters) models.Filters {
	f.Genre = genre(f.Genre)
	f.Year = year(f.Year)
	return f
}

// genre accepts a single id or a list of ids joined by "," (all of) or "|" (any of).
func genre(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	sep := ","
	if strings.Contains(raw, "|") {
		if strings.Contains(raw, ",") {
			return ""
		}
		sep = "|"
	}
	parts := strings.Split(raw, sep)
	for i, part := range parts {
		part = strings.TrimSpace(part)
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return ""
		}
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, sep)
}

func year(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) != 4 {
		return ""
	}
	y, err := strconv.Atoi(raw)
	if err != nil || y < earliestYear {
		return ""
	}
	return raw
}
