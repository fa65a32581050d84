package utils

import "strings"

// CapitalizeWords upper-cases the first letter of every space-separated word,
// leaving the rest of each word untouched ("sci-fi" stays "Sci-fi").
func CapitalizeWords(s string) string {
	if s == "" {
		return s
	}

	words := strings.Split(s, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}

	return strings.Join(words, " ")
}

// CapitalizeGenres capitalizes each genre independently. Order is preserved
// and duplicates are kept.
func CapitalizeGenres(genres []string) []string {
	if genres == nil {
		return nil
	}

	out := make([]string, len(genres))
	for i, g := range genres {
		out[i] = CapitalizeWords(g)
	}
	return out
}
