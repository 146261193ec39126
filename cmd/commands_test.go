package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/reelcheck/config"
	"github.com/s0up4200/reelcheck/filter"
	"github.com/s0up4200/reelcheck/omdb"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func fakeOMDb(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("s") == "alien":
		writeJSON(w, http.StatusOK, map[string]any{
			"Response": "True",
			"Search": []any{
				map[string]any{"Title": "Alien", "Year": "1979", "imdbID": "tt0078748"},
				map[string]any{"Title": "Aliens", "Year": "1986", "imdbID": "tt0090605"},
			},
		})
	case q.Get("s") == "a":
		writeJSON(w, http.StatusOK, map[string]any{"Response": "False", "Error": "Too many results."})
	case q.Get("s") != "":
		writeJSON(w, http.StatusOK, map[string]any{"Response": "False", "Error": "Movie not found!"})
	case q.Get("i") == "tt0078748":
		writeJSON(w, http.StatusOK, map[string]any{
			"Response":   "True",
			"Title":      "Alien",
			"Year":       "1979",
			"imdbID":     "tt0078748",
			"Director":   "Ridley Scott",
			"Actors":     "Sigourney Weaver, Tom Skerritt",
			"Plot":       "The crew of a commercial spacecraft encounters a deadly lifeform.",
			"imdbRating": "8.5",
			"Ratings": []any{
				map[string]any{"Source": "Rotten Tomatoes", "Value": "98%"},
				map[string]any{"Source": "Metacritic", "Value": "89/100"},
			},
		})
	case q.Get("i") == "tt0090605":
		writeJSON(w, http.StatusOK, map[string]any{
			"Response":   "True",
			"Title":      "Aliens",
			"Year":       "1986",
			"imdbID":     "tt0090605",
			"imdbRating": "7.9",
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"Response": "False", "Error": "Incorrect IMDb ID."})
	}
}

// setupCommandTest points the command globals at an httptest OMDb and
// restores them afterwards.
func setupCommandTest(t *testing.T, handler http.HandlerFunc) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	prevCfg, prevLogger, prevClient, prevPresets := cfg, logger, client, presets
	t.Cleanup(func() {
		cfg, logger, client, presets = prevCfg, prevLogger, prevClient, prevPresets
		filterExpr, preset, noRatings, hideIDs = "", "", false, false
	})

	cfg = &config.Config{
		Search: config.SearchConfig{
			Debounce:          time.Millisecond,
			RatingConcurrency: 2,
			ItemRatings:       true,
		},
	}
	logger = zerolog.Nop()
	client = omdb.NewClient("test-key", logger, omdb.WithBaseURL(server.URL+"/"))
	presets = filter.NewPresets(nil)
	require.NoError(t, presets.RegisterAll(map[string]string{"classics": "Year < 1980"}))

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	return cmd, &buf
}

func TestRunSearch(t *testing.T) {
	t.Run("lists results with ratings", func(t *testing.T) {
		cmd, out := setupCommandTest(t, fakeOMDb)

		require.NoError(t, runSearch(cmd, []string{"alien"}))

		assert.Contains(t, out.String(), "Movies (2):")
		assert.Contains(t, out.String(), "Alien (1979)")
		assert.Contains(t, out.String(), "Aliens (1986)")
		assert.Contains(t, out.String(), "ID: tt0078748")
		assert.Contains(t, out.String(), "⭐ 85%")
		assert.Contains(t, out.String(), "⭐ 79%")
	})

	t.Run("filter expression", func(t *testing.T) {
		cmd, out := setupCommandTest(t, fakeOMDb)
		filterExpr = "imdb >= 80"

		require.NoError(t, runSearch(cmd, []string{"alien"}))

		assert.Contains(t, out.String(), "Movie (1, 1 filtered):")
		assert.Contains(t, out.String(), "Alien (1979)")
		assert.NotContains(t, out.String(), "Aliens (1986)")
	})

	t.Run("preset", func(t *testing.T) {
		cmd, out := setupCommandTest(t, fakeOMDb)
		preset = "classics"

		require.NoError(t, runSearch(cmd, []string{"alien"}))

		assert.Contains(t, out.String(), "Alien (1979)")
		assert.NotContains(t, out.String(), "Aliens (1986)")
	})

	t.Run("unknown preset", func(t *testing.T) {
		cmd, _ := setupCommandTest(t, fakeOMDb)
		preset = "missing"

		err := runSearch(cmd, []string{"alien"})
		require.Error(t, err)
		assert.ErrorIs(t, err, filter.ErrUnknownPreset)
	})

	t.Run("misspelled filter", func(t *testing.T) {
		cmd, _ := setupCommandTest(t, fakeOMDb)
		filterExpr = "imbd >= 80"

		err := runSearch(cmd, []string{"alien"})
		require.Error(t, err)
		var compErr *filter.CompilationError
		assert.ErrorAs(t, err, &compErr)
	})

	t.Run("hide ids without ratings", func(t *testing.T) {
		cmd, out := setupCommandTest(t, fakeOMDb)
		hideIDs = true
		noRatings = true

		require.NoError(t, runSearch(cmd, []string{"alien"}))

		assert.Contains(t, out.String(), "Alien (1979)")
		assert.NotContains(t, out.String(), "ID: ")
		assert.NotContains(t, out.String(), "⭐")
	})

	t.Run("no matches", func(t *testing.T) {
		cmd, out := setupCommandTest(t, fakeOMDb)

		require.NoError(t, runSearch(cmd, []string{"zzzz", "qqqq"}))
		assert.Contains(t, out.String(), `No movies found for "zzzz qqqq"`)
	})

	t.Run("upstream error exits non-zero", func(t *testing.T) {
		cmd, out := setupCommandTest(t, fakeOMDb)

		err := runSearch(cmd, []string{"a"})
		require.EqualError(t, err, "Too many results.")
		assert.Contains(t, out.String(), "Error: Too many results. (retry to try again)")
	})

	t.Run("rejected key", func(t *testing.T) {
		cmd, out := setupCommandTest(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"Response": "False", "Error": "Invalid API key!"})
		})

		err := runSearch(cmd, []string{"alien"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid API key!")
		assert.Contains(t, out.String(), "Configuration required:")
		assert.NotContains(t, out.String(), "retry")
	})
}

func TestRunDetails(t *testing.T) {
	t.Run("prints details and links", func(t *testing.T) {
		cmd, out := setupCommandTest(t, fakeOMDb)

		require.NoError(t, runDetails(cmd, []string{"tt0078748"}))

		assert.Contains(t, out.String(), "Alien (1979)")
		assert.Contains(t, out.String(), "Director: Ridley Scott")
		assert.Contains(t, out.String(), "Cast: Sigourney Weaver, Tom Skerritt")
		assert.Contains(t, out.String(), "98%")
		assert.Contains(t, out.String(), "89/100")
		assert.Contains(t, out.String(), "https://www.imdb.com/title/tt0078748")
		assert.Contains(t, out.String(), "https://www.rottentomatoes.com/m/alien")
		assert.Contains(t, out.String(), "https://www.metacritic.com/movie/alien")
	})

	t.Run("unknown id prints no details", func(t *testing.T) {
		cmd, out := setupCommandTest(t, fakeOMDb)

		err := runDetails(cmd, []string{"tt0000000"})
		require.EqualError(t, err, "No details available for this movie")
		assert.Contains(t, out.String(), "No details available for this movie")
		assert.Contains(t, out.String(), "https://www.imdb.com/title/tt0000000")
		assert.NotContains(t, out.String(), "metacritic")
	})

	t.Run("missing key", func(t *testing.T) {
		cmd, out := setupCommandTest(t, fakeOMDb)
		client = omdb.NewClient("", logger)

		err := runDetails(cmd, []string{"tt0078748"})
		require.Error(t, err)
		assert.Contains(t, out.String(), "Configuration required: OMDb API key is not configured")
	})
}
