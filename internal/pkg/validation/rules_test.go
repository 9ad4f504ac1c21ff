package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"too short", "abcd", false},
		{"minimum length", "abcde", true},
		{"whitespace padding does not count", "  ab  ", false},
		{"turkish characters count as one", "Şölen", true},
		{"maximum length", strings.Repeat("a", 200), true},
		{"over maximum", strings.Repeat("a", 201), false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidTitle(tt.title))
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"student@itu.edu.tr", true},
		{"Ayse.Yilmaz@example.com", true},
		{"plainstring", false},
		{"missing@tld", false},
		{"@nobody.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}

func TestUsernamePattern(t *testing.T) {
	assert.True(t, CompiledPatterns.Username.MatchString("ayse.yilmaz_42"))
	assert.False(t, CompiledPatterns.Username.MatchString("ab"))
	assert.False(t, CompiledPatterns.Username.MatchString("has space"))
	assert.False(t, CompiledPatterns.Username.MatchString("tilde~user"))
}

func TestStringValidation(t *testing.T) {
	assert.True(t, NewStringValidation("hello").WithMinLength(3).WithMaxLength(10).Validate())
	assert.False(t, NewStringValidation("hi").WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("").Validate())
	assert.True(t, NewStringValidation("").WithRequired(false).WithMinLength(3).Validate())
}
