package omdb

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/s0up4200/reelcheck/movie"
	"github.com/s0up4200/reelcheck/ratings"
)

// ResponseTrue is the envelope value of a successful response.
const ResponseTrue = "True"

// text decodes any JSON scalar into a string. Objects, arrays and null
// decode to "".
type text string

// UnmarshalJSON implements json.Unmarshaler
func (t *text) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch x := v.(type) {
	case string:
		*t = text(strings.TrimSpace(x))
	case float64:
		*t = text(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		if x {
			*t = "True"
		} else {
			*t = "False"
		}
	default:
		*t = ""
	}
	return nil
}

// value returns the string with the "N/A" placeholder mapped to "".
func (t text) value() string {
	if t == "N/A" {
		return ""
	}
	return string(t)
}

// list decodes a JSON array, skipping elements that do not decode into T.
// Anything that is not an array decodes to an empty list.
type list[T any] []T

// UnmarshalJSON implements json.Unmarshaler
func (l *list[T]) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		*l = nil
		return nil
	}

	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			continue
		}
		out = append(out, item)
	}
	*l = out
	return nil
}

// envelope holds the fields every OMDb response carries.
type envelope struct {
	Response text `json:"Response"`
	Error    text `json:"Error"`
}

// failed reports whether the body reports an error.
func (e envelope) failed() bool {
	return string(e.Response) != ResponseTrue || e.Error != ""
}

// SearchResponse is the body of an s= query
type SearchResponse struct {
	envelope
	Search       list[SearchItem] `json:"Search"`
	TotalResults text             `json:"totalResults"`
}

// SearchItem is one element of SearchResponse.Search
type SearchItem struct {
	Title  text `json:"Title"`
	Year   text `json:"Year"`
	ImdbID text `json:"imdbID"`
	Type   text `json:"Type"`
	Poster text `json:"Poster"`
}

// Summary converts the item. ok is false when the item has no id or is
// not a movie.
func (i SearchItem) Summary() (movie.Summary, bool) {
	id := i.ImdbID.value()
	if id == "" {
		return movie.Summary{}, false
	}
	if kind := i.Type.value(); kind != "" && !strings.EqualFold(kind, "movie") {
		return movie.Summary{}, false
	}
	return movie.Summary{
		Title:      i.Title.value(),
		Year:       i.Year.value(),
		ExternalID: id,
		PosterURL:  i.Poster.value(),
	}, true
}

// TitleResponse is the body of an i= query
type TitleResponse struct {
	envelope
	Title      text             `json:"Title"`
	Year       text             `json:"Year"`
	ImdbID     text             `json:"imdbID"`
	Poster     text             `json:"Poster"`
	Plot       text             `json:"Plot"`
	Actors     text             `json:"Actors"`
	Director   text             `json:"Director"`
	ImdbRating text             `json:"imdbRating"`
	Ratings    list[RatingItem] `json:"Ratings"`
}

// RatingItem is one element of TitleResponse.Ratings
type RatingItem struct {
	Source text `json:"Source"`
	Value  text `json:"Value"`
}

// Raw converts the response into the validated pre-normalization payload.
func (r TitleResponse) Raw() *movie.Raw {
	sources := make([]ratings.Source, 0, len(r.Ratings))
	for _, item := range r.Ratings {
		sources = append(sources, ratings.Source{Name: string(item.Source), Value: string(item.Value)})
	}

	return &movie.Raw{
		Summary: movie.Summary{
			Title:      r.Title.value(),
			Year:       r.Year.value(),
			ExternalID: r.ImdbID.value(),
			PosterURL:  r.Poster.value(),
		},
		Plot:       r.Plot.value(),
		Actors:     r.Actors.value(),
		Director:   r.Director.value(),
		IMDbRating: string(r.ImdbRating),
		Ratings:    sources,
	}
}
