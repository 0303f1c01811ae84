package capture

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDeviceUnavailable marks failures to acquire or hold the audio input.
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	// ErrInvalidState marks an operation invoked outside its legal states.
	ErrInvalidState = errors.New("invalid state")
	// ErrValidation marks rejected user input; the session state is unchanged.
	ErrValidation = errors.New("validation error")
	// ErrSaveFailed marks a persistence failure; the bundle survives for retry.
	ErrSaveFailed = errors.New("save failed")
)

// Wrap tags an error with one of the sentinel markers above so callers can
// classify it with errors.Is while keeping the component/operation context in
// the message.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrInvalidState
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
		return "capture failure"
	}
	return strings.Join(parts, ": ")
}
