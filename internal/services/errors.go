package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConnectivity marks failures reaching an external collaborator. The
	// operation is abandoned for the current tick or interaction and retried
	// on the next natural trigger.
	ErrConnectivity = errors.New("connectivity error")
	// ErrNotFound marks lookup misses that are expected steady-state
	// conditions, such as download jobs with no tracked approval.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks caller mistakes that will not succeed on retry.
	ErrValidation = errors.New("validation error")
	// ErrExternalTool marks a remote command that ran but reported failure.
	ErrExternalTool = errors.New("external tool error")
	// ErrTerminalState marks a state transition rejected because the record
	// has already reached a terminal status.
	ErrTerminalState = errors.New("terminal state")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrConnectivity
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether the error should be retried on the next natural
// trigger rather than surfaced as a permanent failure.
func Retryable(err error) bool {
	return errors.Is(err, ErrConnectivity)
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
