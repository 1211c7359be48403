package downloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFilenameFromCD(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header   string
		fallback string
		expected string
	}{
		{
			name:     "extended form is percent-decoded",
			header:   `attachment; filename*=UTF-8''Song%20Name.mp3`,
			fallback: "fallback",
			expected: "Song Name.mp3",
		},
		{
			name:     "extended form without charset prefix",
			header:   `attachment; filename*=Song%20Name.mp3`,
			fallback: "fallback",
			expected: "Song Name.mp3",
		},
		{
			name:     "extended form with quotes",
			header:   `attachment; filename*=UTF-8''"Quoted.mp3"`,
			fallback: "fallback",
			expected: "Quoted.mp3",
		},
		{
			name:     "classic quoted form",
			header:   `attachment; filename="plain.mp3"`,
			fallback: "fallback",
			expected: "plain.mp3",
		},
		{
			name:     "classic bare form",
			header:   `attachment; filename=bare.mp3`,
			fallback: "fallback",
			expected: "bare.mp3",
		},
		{
			name:     "extended form preferred over classic",
			header:   `attachment; filename="plain.mp3"; filename*=UTF-8''Extended.mp3`,
			fallback: "fallback",
			expected: "Extended.mp3",
		},
		{
			name:     "missing header returns fallback",
			header:   "",
			fallback: "Song",
			expected: "Song",
		},
		{
			name:     "header without filename returns fallback",
			header:   "attachment",
			fallback: "Song",
			expected: "Song",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Exactly(t, tt.expected, extractFilenameFromCD(tt.header, tt.fallback))
		})
	}
}
