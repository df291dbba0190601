package index

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minStemLength is the length below which words are left as they are.
const minStemLength = 4

// minRootLength is the number of runes a stem keeps at least.
const minRootLength = 3

// endings are the inflectional suffixes Stem removes, longest first within
// each group. Only the first matching ending is removed.
var endings = []string{
	"иями", "ями", "ами",
	"ией", "ий", "ый", "ой",
	"ия", "ья", "ие", "ье",
	"ых", "ую", "юю",
	"ая", "яя",
	"ом", "ем",
	"ах", "ях",
	"ы", "и", "а", "я", "о", "е", "у", "ю",
}

// Tokenize lower-cases text and returns its maximal runs of Russian
// letters in order. Every other rune, Latin letters and digits included,
// separates tokens.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		r = unicode.ToLower(r)
		if isRussianLetter(r) {
			current.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// Stem removes the first ending of word that still leaves a root of at
// least three runes. Words shorter than four runes are returned unchanged.
func Stem(word string) string {
	n := utf8.RuneCountInString(word)
	if n < minStemLength {
		return word
	}
	for _, end := range endings {
		if n >= utf8.RuneCountInString(end)+minRootLength && strings.HasSuffix(word, end) {
			return word[:len(word)-len(end)]
		}
	}
	return word
}

// isRussianLetter reports whether r is a lower-case letter of the Russian
// alphabet.
func isRussianLetter(r rune) bool {
	return (r >= 'а' && r <= 'я') || r == 'ё'
}
