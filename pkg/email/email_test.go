package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "taro@example.com", Normalize("  Taro@Example.COM "))
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"taro@example.com", true},
		{"taro+tag@mail.example.jp", true},
		{"", false},
		{"taro", false},
		{"taro@localhost", false},
		{"Taro <taro@example.com>", false},
		{strings.Repeat("a", MaxLength) + "@example.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValid(tt.input), "input %q", tt.input)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Taro Yamada", DisplayName("taro.yamada@example.com"))
	assert.Equal(t, "Hanako", DisplayName("hanako@example.com"))
	assert.Equal(t, "User", DisplayName("...@example.com"))
}
