package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns and limits
var (
	// Email validation pattern - configurable
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// Username pattern - letters, digits, underscore and dot
	UsernamePattern = `^[a-zA-Z0-9_.]{3,150}$`

	// Password min length
	PasswordMinLength = 8

	// Post title min length (after trimming)
	TitleMinLength = 5

	// Post title max length
	TitleMaxLength = 200

	// Post summary max length
	SummaryMaxLength = 300

	// Comment text max length
	CommentMaxLength = 1500

	// Assistant question max length
	QuestionMaxLength = 500
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email    *regexp.Regexp
	Username *regexp.Regexp
}{
	Email:    regexp.MustCompile(EmailPattern),
	Username: regexp.MustCompile(UsernamePattern),
}

// StringValidation validates a string value against a set of rules
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	// Check if required
	if v.Required && v.Value == "" {
		return false
	}

	// Skip other validations for empty optional values
	if !v.Required && v.Value == "" {
		return true
	}

	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}

	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// ValidTitle reports whether a post title meets the minimum length after trimming.
func ValidTitle(title string) bool {
	trimmed := strings.TrimSpace(title)
	return len([]rune(trimmed)) >= TitleMinLength && len([]rune(trimmed)) <= TitleMaxLength
}

// ValidSummary reports whether an optional post summary fits the length bound.
func ValidSummary(summary string) bool {
	return len([]rune(summary)) <= SummaryMaxLength
}

// ValidEmail reports whether the email matches the configured pattern.
func ValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(strings.ToLower(email))
}
