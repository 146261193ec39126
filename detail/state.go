package detail

import (
	"github.com/s0up4200/reelcheck/movie"
	"github.com/s0up4200/reelcheck/omdb"
)

// Status is the state of the current detail lookup
type Status int

const (
	// StatusIdle means nothing is selected
	StatusIdle Status = iota
	// StatusLoading means a lookup is in flight
	StatusLoading
	// StatusReady means Details holds the normalized lookup
	StatusReady
	// StatusError means the lookup failed or found nothing
	StatusError
)

// String returns the string representation of a Status
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the selected movie. Selected carries
// what the search list knew before the lookup, so navigation stays
// available while loading or after a failure.
type State struct {
	ExternalID   string
	Selected     movie.Summary
	Status       Status
	Details      *movie.Details
	ErrorKind    omdb.ErrorKind
	ErrorMessage string
}

// NotFound reports the terminal "no details" state.
func (s State) NotFound() bool {
	return s.Status == StatusError && s.ErrorKind == omdb.KindNotFound
}

// Retryable reports whether Reload may succeed.
func (s State) Retryable() bool {
	return s.Status == StatusError && s.ErrorKind.Retryable()
}

// Title returns the best known title.
func (s State) Title() string {
	if s.Details != nil && s.Details.Title != "" {
		return s.Details.Title
	}
	return s.Selected.Title
}
