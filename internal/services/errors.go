package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransient marks failures worth retrying (timeouts, rate limits, 5xx).
	ErrTransient = errors.New("transient failure")
	// ErrPermanent marks provider failures that retrying cannot fix.
	ErrPermanent = errors.New("permanent failure")
	// ErrNotFound marks lookups that came back empty.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks inputs a collaborator rejected outright.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks missing or unusable connection settings.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes call-site context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsTransient reports whether an error should be retried.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// ChannelNotFoundError indicates a job referenced a channel that no longer exists.
type ChannelNotFoundError struct {
	ChannelID int64
}

func (e *ChannelNotFoundError) Error() string {
	return fmt.Sprintf("channel %d not found", e.ChannelID)
}

func (e *ChannelNotFoundError) Unwrap() error { return ErrNotFound }

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
