package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeSymbol converts a raw symbol string to its canonical form:
// trimmed, title-cased full name ("apple" -> "Apple", " TESLA " -> "Tesla").
// Every boundary where a symbol enters the system (holding mutations, price
// lookups, snapshot joins) must pass through here; callers are never trusted
// to have normalized already.
func NormalizeSymbol(raw string) string {
	// cases.Caser is stateful, so build one per call.
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(raw)))
}
