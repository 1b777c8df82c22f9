package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrorKind classifies a failed generation call
type ErrorKind string

const (
	// KindTransport means the service could not be reached or the connection broke
	KindTransport ErrorKind = "transport"
	// KindTimeout means the call did not finish within the configured bound
	KindTimeout ErrorKind = "timeout"
	// KindService means the service answered with an error or an unreadable reply
	KindService ErrorKind = "service"
	// KindEmptyResponse means the service answered without any text
	KindEmptyResponse ErrorKind = "empty_response"
	// KindRateLimited means the call was refused or not attempted because of rate limits
	KindRateLimited ErrorKind = "rate_limited"
)

// GenerationError is returned by every failed generation call
type GenerationError struct {
	Kind       ErrorKind
	Provider   ProviderType
	Model      string
	StatusCode int           // HTTP status when the service answered, 0 otherwise
	RetryAfter time.Duration // Service-suggested wait, informational only
	Err        error
}

func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("%s generation failed (%s, model %s)", e.Provider, e.Kind, e.Model)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// UserMessage returns the "Error:" text shown at the outer boundary
func (e *GenerationError) UserMessage() string {
	switch e.Kind {
	case KindTimeout:
		return "Error: The AI service did not respond in time. Please try again later."
	case KindRateLimited:
		return "Error: The AI service is busy. Please try again in a few minutes."
	case KindEmptyResponse:
		return "Error: The AI service returned an empty health report. Please try again."
	default:
		return "Error: Could not generate the health report. Please ensure the AI service is running and accessible."
	}
}

// IsKind reports whether err is a GenerationError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr) && genErr.Kind == kind
}

// classify picks a kind for an error that a provider did not classify itself
func classify(err error) ErrorKind {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return KindTimeout
	case errors.As(err, &netErr):
		return KindTransport
	case errors.Is(err, context.Canceled):
		return KindTransport
	case IsRateLimitError(err):
		return KindRateLimited
	default:
		return KindService
	}
}

// kindForStatus maps an HTTP status returned by a service
func kindForStatus(status int) ErrorKind {
	switch {
	case status == 429:
		return KindRateLimited
	case status == 408 || status == 504:
		return KindTimeout
	default:
		return KindService
	}
}
