// Package movie holds the immutable movie snapshots shared by the search and
// detail controllers.
package movie

import (
	"strings"

	"github.com/s0up4200/reelcheck/ratings"
)

// Summary is one search hit. Identity is ExternalID.
type Summary struct {
	Title      string
	Year       string
	ExternalID string
	PosterURL  string
}

// Details is a Summary enriched by a lookup.
type Details struct {
	Summary
	Plot     string
	Cast     []string
	Director string
	Ratings  ratings.Set
}

// Raw is a validated lookup payload before rating normalization.
type Raw struct {
	Summary
	Plot       string
	Actors     string
	Director   string
	IMDbRating string
	Ratings    []ratings.Source
}

// Normalize converts the payload into Details.
func (r Raw) Normalize() Details {
	return Details{
		Summary:  r.Summary,
		Plot:     r.Plot,
		Cast:     ParseCast(r.Actors),
		Director: r.Director,
		Ratings:  ratings.Normalize(r.IMDbRating, r.Ratings),
	}
}

// Merge fills blank summary fields of d from fallback.
func (d Details) Merge(fallback Summary) Details {
	if d.Title == "" {
		d.Title = fallback.Title
	}
	if d.Year == "" {
		d.Year = fallback.Year
	}
	if d.ExternalID == "" {
		d.ExternalID = fallback.ExternalID
	}
	if d.PosterURL == "" {
		d.PosterURL = fallback.PosterURL
	}
	return d
}

// ParseCast splits a comma separated actor list. The result is never nil.
func ParseCast(actors string) []string {
	cast := []string{}
	for _, name := range strings.Split(actors, ",") {
		name = strings.TrimSpace(name)
		if name == "" || name == "N/A" {
			continue
		}
		cast = append(cast, name)
	}
	return cast
}
