package errors

import (
	"strings"
	"unicode"
)

// ValidateOSIS validates an OSIS reference for safety and plausibility.
// It rejects references that could be used for path traversal or injection
// when the reference is embedded in cache keys, URLs, or store queries.
//
// The validation rules are intentionally conservative:
//   - No empty references
//   - No control characters or whitespace
//   - No path traversal sequences (.., //, backslash)
//   - Maximum length of 128 characters
//
// Full OSIS grammar checking (book abbreviations, verse ranges) is the
// backend's concern; this only guards the transport surface.
func ValidateOSIS(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidOSIS, "OSIS reference cannot be empty")
	}

	if len(ref) > 128 {
		return New(ErrCodeInvalidOSIS, "OSIS reference too long (max 128 characters)")
	}

	for _, r := range ref {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidOSIS, "OSIS reference contains invalid characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
		"/",    // OSIS references never contain slashes
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(ref, pattern) {
			return New(ErrCodeInvalidOSIS, "OSIS reference contains invalid sequence: %q", pattern)
		}
	}

	return nil
}
