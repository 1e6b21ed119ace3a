package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		code     string
		expected string
	}{
		{"Plain base", "https://sho.rt", "abc123", "https://sho.rt/abc123"},
		{"Trailing slash", "https://sho.rt/", "abc123", "https://sho.rt/abc123"},
		{"Several trailing slashes", "https://sho.rt//", "Zz9", "https://sho.rt/Zz9"},
		{"Base with path", "https://api.example.com/prod", "xY7aB2", "https://api.example.com/prod/xY7aB2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShortURL(tt.baseURL, tt.code))
		})
	}
}
