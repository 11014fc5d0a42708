package errors

import (
	"regexp"
	"strings"
)

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// sessionIDRegex accepts uuids and other URL-safe store keys.
var sessionIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidateSessionID rejects identifiers that could escape a storage directory.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}
	if !sessionIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid session id: %q", id)
	}
	return nil
}

// ValidateFilename validates a download filename.
// It must be a simple basename without separators or a leading dot.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}
	if len(name) > 255 {
		return New(ErrCodeInvalidPath, "filename too long (max 255 characters)")
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}
	return nil
}
