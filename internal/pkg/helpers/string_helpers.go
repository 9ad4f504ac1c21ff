package helpers

import "unicode"

// Turkish letters mapped onto their ASCII slug equivalents
var slugTransliterations = map[rune]rune{
	'ş': 's', 'Ş': 's',
	'ı': 'i', 'İ': 'i',
	'ö': 'o', 'Ö': 'o',
	'ü': 'u', 'Ü': 'u',
	'ç': 'c', 'Ç': 'c',
	'ğ': 'g', 'Ğ': 'g',
}

// Slugify converts a name into a lowercase URL-safe slug, capped at maxLen
// runes. Runs of non-alphanumeric characters collapse into single hyphens.
func Slugify(name string, maxLen int) string {
	var out []rune
	for _, r := range name {
		if repl, ok := slugTransliterations[r]; ok {
			r = repl
		}
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			out = append(out, r)
		} else if len(out) > 0 && out[len(out)-1] != '-' {
			out = append(out, '-')
		}
	}

	if maxLen > 0 && len(out) > maxLen {
		out = out[:maxLen]
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}

	return string(out)
}
