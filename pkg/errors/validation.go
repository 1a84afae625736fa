package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier supplied by a caller, such as the
// root of a tree layout.
//
// A valid id is non-empty, has no control characters and is at most 256
// characters long.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}

	return nil
}

// templateNameRegex matches template names such as "hierarchical-top-down".
var templateNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidateTemplateName validates a layout template name.
// Names are lowercase, start with a letter or digit and may contain dots,
// dashes and underscores.
func ValidateTemplateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "template name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "template name too long (max 64 characters)")
	}

	if strings.ToLower(name) != name {
		return New(ErrCodeInvalidInput, "template names must be lowercase: %q", name)
	}

	if !templateNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid template name: %q", name)
	}

	return nil
}
