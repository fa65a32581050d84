package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapitalizeWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"action", "Action"},
		// Word-boundary capitalization only: the hyphenated remainder is
		// left untouched.
		{"sci-fi", "Sci-fi"},
		{"science fiction", "Science Fiction"},
		{"", ""},
		{"already Capitalized", "Already Capitalized"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CapitalizeWords(tt.in))
	}
}

func TestCapitalizeGenres(t *testing.T) {
	got := CapitalizeGenres([]string{"action", "sci-fi"})
	assert.Equal(t, []string{"Action", "Sci-fi"}, got)

	// Order preserved, duplicates kept
	got = CapitalizeGenres([]string{"drama", "drama", "comedy"})
	assert.Equal(t, []string{"Drama", "Drama", "Comedy"}, got)

	assert.Nil(t, CapitalizeGenres(nil))
}
