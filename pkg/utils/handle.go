package utils

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	MinHandleLength = 3
	MaxHandleLength = 20
)

var (
	handleRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// ValidateHandle validates a profile handle such as "@miacappuccino".
// Rules: optional leading @, then 3-20 letters, numbers or underscores,
// starting with a letter or number.
func ValidateHandle(handle string) error {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")

	if len(handle) < MinHandleLength {
		return &ValidationError{Field: "handle", Message: "Handle must be at least 3 characters"}
	}

	if len(handle) > MaxHandleLength {
		return &ValidationError{Field: "handle", Message: "Handle must be at most 20 characters"}
	}

	if !handleRegex.MatchString(handle) {
		return &ValidationError{Field: "handle", Message: "Handle can only contain letters, numbers, and underscores"}
	}

	if !(unicode.IsLetter(rune(handle[0])) || unicode.IsNumber(rune(handle[0]))) {
		return &ValidationError{Field: "handle", Message: "Handle must start with a letter or number"}
	}

	return nil
}

// NormalizeHandle lowercases the handle and makes sure it carries exactly one leading @.
func NormalizeHandle(handle string) string {
	handle = strings.ToLower(strings.TrimSpace(handle))
	return "@" + strings.TrimLeft(handle, "@")
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
