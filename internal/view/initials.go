package view

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Initials returns the avatar letters of a name: the first letter of every
// space-separated word, upper-cased, then cut to at most two letters. Empty
// words contribute nothing.
func Initials(name string) string {
	var letters []rune
	for _, word := range strings.Split(name, " ") {
		for _, r := range word {
			letters = append(letters, r)
			break
		}
	}
	// A Caser is stateful, so each call gets its own.
	upper := []rune(cases.Upper(language.Und).String(string(letters)))
	if len(upper) > 2 {
		upper = upper[:2]
	}
	return string(upper)
}
