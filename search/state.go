package search

import (
	"github.com/s0up4200/reelcheck/movie"
	"github.com/s0up4200/reelcheck/omdb"
	"github.com/s0up4200/reelcheck/ratings"
)

// Status is the state of the current search
type Status int

const (
	// StatusIdle means there is no query
	StatusIdle Status = iota
	// StatusLoading means a search call is in flight
	StatusLoading
	// StatusSuccess means Results holds the answer for Query
	StatusSuccess
	// StatusError means the last search failed
	StatusError
)

// String returns the string representation of a Status
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of a search session. Results and Ratings
// are replaced wholesale, never modified in place.
type State struct {
	Query        string
	Status       Status
	Results      []movie.Summary
	Ratings      map[string]ratings.Set
	ErrorKind    omdb.ErrorKind
	ErrorMessage string
}

// Retryable reports whether the error state can be retried by the user.
func (s State) Retryable() bool {
	return s.Status == StatusError && s.ErrorKind.Retryable()
}

// Empty reports a successful search with no matches.
func (s State) Empty() bool {
	return s.Status == StatusSuccess && len(s.Results) == 0
}

// RatingsFor returns the list ratings of one result, once fetched.
func (s State) RatingsFor(externalID string) (ratings.Set, bool) {
	set, ok := s.Ratings[externalID]
	return set, ok
}
