package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport marks network failures and non-2xx catalog responses.
	ErrTransport = errors.New("transport error")
	// ErrMalformed marks responses that could not be normalized.
	ErrMalformed = errors.New("malformed response")
	// ErrNotFound marks lookups that found no matching entity.
	ErrNotFound = errors.New("not found")
	// ErrStorage marks local database failures, including constraint
	// violations.
	ErrStorage = errors.New("storage error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for classification at the command boundary.
// The marker should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
