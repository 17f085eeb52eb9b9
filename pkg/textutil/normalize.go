// Package textutil turns display names into file-system keys.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Undefined is the key used when a name is missing
const Undefined = "undefined"

// letters with no canonical decomposition, so NFD leaves them intact
var foldReplacer = strings.NewReplacer(
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ı", "i",
)

// Normalize strips whitespace and diacritics from s and removes path
// separators so the result can be used as a file name. Letters without a
// canonical decomposition (ø, ł, ß, æ, œ) are folded too, so "Martin Ødegaard"
// is keyed "MartinOdegaard" and "AC/DC" is keyed "ACDC".
func Normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '/' || r == '\\' {
			return -1
		}
		return r
	}, s)

	tr := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(tr, s); err == nil {
		s = out
	}
	return foldReplacer.Replace(s)
}

// NormalizeOr returns Normalize(s), or Undefined when s is empty
func NormalizeOr(s string) string {
	if s == "" {
		return Undefined
	}
	if n := Normalize(s); n != "" {
		return n
	}
	return Undefined
}

// IsIndexable reports whether a normalized name may appear in the index
func IsIndexable(normalized string) bool {
	return normalized != "" && normalized != Undefined
}
