// Package ratings converts the loosely shaped rating fields returned by OMDb
// into a fixed set of display scores.
//
// Two of the scores are proxies rather than upstream values: the Rotten
// Tomatoes audience score mirrors the IMDb rating, and the Metacritic user
// score is 80% of the Metacritic critic score. OMDb exposes neither metric.
package ratings

import (
	"math"
	"strconv"
	"strings"
)

// Source labels as reported in the OMDb Ratings array.
const (
	SourceIMDb           = "Internet Movie Database"
	SourceRottenTomatoes = "Rotten Tomatoes"
	SourceMetacritic     = "Metacritic"
)

// notAvailable is the placeholder OMDb uses for missing values.
const notAvailable = "N/A"

const metacriticUserFactor = 0.8

// Source is one {Source, Value} pair from the upstream ratings array.
type Source struct {
	Name  string
	Value string
}

// Score is a single display rating. The zero value is NA.
type Score struct {
	text    string
	value   int
	ok      bool
	numeric bool
}

// NA is the explicit "no rating" score.
var NA = Score{}

// Percent returns a score displayed as "<n>%".
func Percent(n int) Score {
	return Score{text: strconv.Itoa(n) + "%", value: n, ok: true, numeric: true}
}

// Text returns a score that displays the upstream value unchanged. value is
// the numeric component used for comparisons, when one could be parsed.
func Text(text string, value int, numeric bool) Score {
	return Score{text: text, value: value, ok: true, numeric: numeric}
}

// String returns the display text, "N/A" for NA.
func (s Score) String() string {
	if !s.ok {
		return notAvailable
	}
	return s.text
}

// IsNA reports whether the score is the NA sentinel.
func (s Score) IsNA() bool {
	return !s.ok
}

// Value returns the numeric 0-100 value of the score.
func (s Score) Value() (int, bool) {
	if !s.ok || !s.numeric {
		return 0, false
	}
	return s.value, true
}

// Set is the canonical rating set shown for a movie.
type Set struct {
	IMDb                   Score
	RottenTomatoesCritic   Score
	RottenTomatoesAudience Score
	MetacriticCritic       Score
	MetacriticUser         Score
}

// Normalize builds a Set from the imdbRating field and the Ratings array.
// It never fails: anything missing or malformed becomes NA.
func Normalize(imdbRating string, sources []Source) Set {
	imdb := scaled(imdbRating, 10, 10)

	set := Set{
		IMDb:                   imdb,
		RottenTomatoesAudience: imdb,
		RottenTomatoesCritic:   NA,
		MetacriticCritic:       NA,
		MetacriticUser:         NA,
	}

	if v, ok := Lookup(sources, SourceRottenTomatoes); ok {
		n, err := strconv.Atoi(strings.TrimSuffix(v, "%"))
		set.RottenTomatoesCritic = Text(v, n, err == nil)
	}

	if v, ok := Lookup(sources, SourceMetacritic); ok {
		critic, _, _ := strings.Cut(v, "/")
		n, err := strconv.Atoi(strings.TrimSpace(critic))
		set.MetacriticCritic = Text(v, n, err == nil)
		set.MetacriticUser = scaled(critic, metacriticUserFactor, 100)
	}

	return set
}

// Lookup returns the value of the first source whose name matches exactly.
// Blank and "N/A" values count as absent.
func Lookup(sources []Source, name string) (string, bool) {
	for _, s := range sources {
		if s.Name != name {
			continue
		}
		v := strings.TrimSpace(s.Value)
		if v == "" || v == notAvailable {
			return "", false
		}
		return v, true
	}
	return "", false
}

// scaled parses raw as a number in [0, max], multiplies it by factor and
// rounds half away from zero.
func scaled(raw string, factor, max float64) Score {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == notAvailable {
		return NA
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > max {
		return NA
	}
	return Percent(int(math.Round(f * factor)))
}
