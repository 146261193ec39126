package movie

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Destination is an external site a movie can be opened on.
type Destination int

const (
	// IMDb is addressed by external id only.
	IMDb Destination = iota
	// RottenTomatoes is the critic page, slugged with underscores.
	RottenTomatoes
	// RottenTomatoesAudience is the audience review page.
	RottenTomatoesAudience
	// Metacritic is slugged with hyphens.
	Metacritic
)

// Destinations lists every destination in display order.
var Destinations = []Destination{IMDb, RottenTomatoes, RottenTomatoesAudience, Metacritic}

const (
	imdbTitleURL      = "https://www.imdb.com/title/"
	rottenTomatoesURL = "https://www.rottentomatoes.com/m/"
	metacriticURL     = "https://www.metacritic.com/movie/"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// String returns a human readable destination name.
func (d Destination) String() string {
	switch d {
	case IMDb:
		return "IMDb"
	case RottenTomatoes:
		return "Rotten Tomatoes"
	case RottenTomatoesAudience:
		return "Rotten Tomatoes Audience"
	case Metacritic:
		return "Metacritic"
	default:
		return "unknown"
	}
}

// Slug lower-cases title and collapses each run of non-alphanumeric
// characters into sep. Accented letters are folded to ASCII first.
func Slug(title string, sep string) string {
	folded := strings.ToLower(unidecode.Unidecode(title))
	return nonAlnum.ReplaceAllString(folded, sep)
}

// URL builds the destination URL. Title based destinations return "" when
// title is empty, IMDb returns "" when externalID is empty. An empty result
// means the link is disabled.
func URL(dest Destination, title, externalID string) string {
	if dest == IMDb {
		if externalID == "" {
			return ""
		}
		return imdbTitleURL + url.PathEscape(externalID)
	}

	if strings.TrimSpace(title) == "" {
		return ""
	}

	switch dest {
	case RottenTomatoes:
		return rottenTomatoesURL + url.PathEscape(Slug(title, "_"))
	case RottenTomatoesAudience:
		return rottenTomatoesURL + url.PathEscape(Slug(title, "_")) + "/audience_reviews"
	case Metacritic:
		return metacriticURL + url.PathEscape(Slug(title, "-"))
	default:
		return ""
	}
}
