package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for catalog failures. Match with errors.Is.
var (
	ErrTransport = errors.New("transport error")
	ErrDecode    = errors.New("decode error")
	ErrNotFound  = errors.New("not found")
)

// NetworkError describes a failed catalog request.
type NetworkError struct {
	Op   string // e.g. "fetch detail 25"
	Kind error  // one of ErrTransport, ErrDecode, ErrNotFound
	Err  error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Message renders err as a short line suitable for the UI.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var prefix string
	switch {
	case errors.Is(err, ErrNotFound):
		prefix = "Not found"
	case errors.Is(err, ErrDecode):
		prefix = "Unexpected response"
	case errors.Is(err, ErrTransport):
		prefix = "Connection failed"
		errStr := err.Error()
		if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
			prefix = "Connection timeout"
		} else if strings.Contains(errStr, "no such host") {
			prefix = "Host not found"
		}
	default:
		return err.Error()
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) && netErr.Op != "" {
		return prefix + " (" + netErr.Op + ")"
	}
	return prefix
}
