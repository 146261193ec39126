package omdb

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// ErrConfig indicates a missing or rejected API key. Without a key no
	// request is sent.
	ErrConfig = errors.New("omdb API key is not configured")
	// ErrNotFound indicates the upstream reported no match
	ErrNotFound = errors.New("not found")
)

// APIError represents an error reported by OMDb, either in the response body
// or as a non-success HTTP status.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("omdb API error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("omdb API error: %s", e.Message)
}

// IsUnauthorized checks if the error indicates a rejected API key
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// TransportError wraps a network level failure.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("omdb %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying network error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies client failures for presentation.
type ErrorKind int

const (
	// KindNone means no error
	KindNone ErrorKind = iota
	// KindConfig means the API key is missing or was rejected
	KindConfig
	// KindTransport means the request could not complete
	KindTransport
	// KindAPI means OMDb reported an error
	KindAPI
	// KindNotFound means OMDb had no match
	KindNotFound
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConfig:
		return "config"
	case KindTransport:
		return "transport"
	case KindAPI:
		return "api"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Retryable reports whether re-issuing the same request may succeed.
func (k ErrorKind) Retryable() bool {
	return k == KindTransport || k == KindAPI
}

// KindOf classifies err. Unrecognised errors are treated as transport
// failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var apiErr *APIError
	switch {
	case errors.Is(err, ErrConfig):
		return KindConfig
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.As(err, &apiErr):
		return KindAPI
	default:
		return KindTransport
	}
}

// UserMessage returns the text shown to the user for err. API messages are
// passed through verbatim.
func UserMessage(err error) string {
	var apiErr *APIError
	switch KindOf(err) {
	case KindNone:
		return ""
	case KindConfig:
		if errors.As(err, &apiErr) {
			return fmt.Sprintf("OMDb rejected the API key (%s). Check omdb.api_key in the config file or the OMDB_API_KEY environment variable.", apiErr.Message)
		}
		return "OMDb API key is not configured. Set omdb.api_key in the config file or the OMDB_API_KEY environment variable."
	case KindNotFound:
		return "No matching movie found"
	case KindAPI:
		if errors.As(err, &apiErr) {
			return apiErr.Message
		}
	}
	return "Could not reach OMDb, please try again"
}

// isNotFoundMessage recognises the upstream "no match" messages such as
// "Movie not found!" and "Incorrect IMDb ID.".
func isNotFoundMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "not found") || strings.Contains(msg, "incorrect imdb id")
}

// isInvalidKeyMessage recognises the upstream key rejections such as
// "Invalid API key!" and "No API key provided.".
func isInvalidKeyMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "invalid api key") || strings.Contains(msg, "no api key")
}

// classify turns an upstream failure into ErrNotFound, ErrConfig wrapping
// the *APIError, or the bare *APIError.
func classify(apiErr *APIError) error {
	switch {
	case apiErr.IsUnauthorized() || isInvalidKeyMessage(apiErr.Message):
		return fmt.Errorf("%w: %w", ErrConfig, apiErr)
	case apiErr.StatusCode == 404 || isNotFoundMessage(apiErr.Message):
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
	default:
		return apiErr
	}
}
