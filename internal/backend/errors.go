package backend

import (
	"fmt"
	"net/http"
)

// ErrorKind distinguishes transport failures from rejected requests.
type ErrorKind int

const (
	// KindNetwork means the backend could not be reached.
	KindNetwork ErrorKind = iota + 1
	// KindStatus means the backend answered with a non-2xx status.
	KindStatus
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// SubmissionError reports a failed run-experiment request.
type SubmissionError struct {
	Kind       ErrorKind
	StatusCode int
	// Message is the backend's error text, or a generic message naming the status.
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Kind == KindNetwork {
		return fmt.Sprintf("backend unreachable: %v", e.Err)
	}
	return e.Message
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// FetchError reports a failed read of backend state.
type FetchError struct {
	Resource   string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == KindNetwork {
		return fmt.Sprintf("failed to load %s: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("failed to load %s: %s", e.Resource, statusText(e.StatusCode))
}

func (e *FetchError) Unwrap() error { return e.Err }

func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprintf("status %d", code)
}
