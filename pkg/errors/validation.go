package errors

import (
	"strings"
	"unicode"
)

// maxPackageIDLength bounds package identifiers accepted from callers.
const maxPackageIDLength = 512

// ValidatePackageID validates a third-party package identifier such as
// "com.fasterxml.jackson". Identifiers are dot-separated segments without
// whitespace, empty segments or control characters.
func ValidatePackageID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "package identifier cannot be empty")
	}

	if len(id) > maxPackageIDLength {
		return New(ErrCodeInvalidInput, "package identifier too long (max %d characters)", maxPackageIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "package identifier contains invalid characters: %q", id)
		}
	}

	for _, segment := range strings.Split(id, ".") {
		if segment == "" {
			return New(ErrCodeInvalidInput, "package identifier has an empty segment: %q", id)
		}
	}

	return nil
}

// ValidatePort validates a TCP port number.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return New(ErrCodeInvalidConfig, "port must be between 1 and 65535, got %d", port)
	}
	return nil
}
