package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Bogazici University", "bogazici-university"},
		{"turkish letters", "İstanbul Teknik Üniversitesi", "istanbul-teknik-universitesi"},
		{"punctuation collapses", "Orta  Doğu -- Teknik", "orta-dogu-teknik"},
		{"leading and trailing junk", "  --Ankara--  ", "ankara"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in, 220))
		})
	}

	// The cap never leaves a dangling hyphen
	assert.Equal(t, "ab", Slugify("ab cd", 3))
}
