package filter

import (
	"github.com/s0up4200/reelcheck/movie"
	"github.com/s0up4200/reelcheck/ratings"
)

// Item is one search result as seen by a filter. Ratings is only
// meaningful when HasRatings is set.
type Item struct {
	movie.Summary
	Ratings    ratings.Set
	HasRatings bool
}

// Filter decides whether an item is shown
type Filter interface {
	// Match checks if an item matches the filter criteria
	Match(item Item) bool
}

// CompiledFilter is a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}
