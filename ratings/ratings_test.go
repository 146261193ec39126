package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		imdbRating string
		sources    []Source
		want       map[string]string
	}{
		{
			name:       "imdb rating drives imdb and audience",
			imdbRating: "8.5",
			want: map[string]string{
				"imdb":            "85%",
				"audience":        "85%",
				"rt":              "N/A",
				"metacritic":      "N/A",
				"metacritic_user": "N/A",
			},
		},
		{
			name:       "metacritic critic passes through and user is derived",
			imdbRating: "N/A",
			sources:    []Source{{Name: SourceMetacritic, Value: "75/100"}},
			want: map[string]string{
				"imdb":            "N/A",
				"audience":        "N/A",
				"metacritic":      "75/100",
				"metacritic_user": "60%",
			},
		},
		{
			name:       "rotten tomatoes value is unchanged",
			imdbRating: "7.1",
			sources: []Source{
				{Name: SourceMetacritic, Value: "63/100"},
				{Name: SourceRottenTomatoes, Value: "92%"},
				{Name: SourceIMDb, Value: "7.1/10"},
			},
			want: map[string]string{
				"imdb":            "71%",
				"audience":        "71%",
				"rt":              "92%",
				"metacritic":      "63/100",
				"metacritic_user": "50%",
			},
		},
		{
			name:       "rounds half away from zero",
			imdbRating: "6.45",
			sources:    []Source{{Name: SourceMetacritic, Value: "81/100"}},
			want: map[string]string{
				"imdb":            "65%",
				"metacritic_user": "65%",
			},
		},
		{
			name:       "label match is case sensitive",
			imdbRating: "",
			sources:    []Source{{Name: "rotten tomatoes", Value: "50%"}},
			want: map[string]string{
				"rt": "N/A",
			},
		},
		{
			name:       "first duplicate wins",
			imdbRating: "",
			sources: []Source{
				{Name: SourceRottenTomatoes, Value: "40%"},
				{Name: SourceRottenTomatoes, Value: "99%"},
			},
			want: map[string]string{
				"rt": "40%",
			},
		},
		{
			name:       "garbage imdb rating is NA",
			imdbRating: "eight",
			want: map[string]string{
				"imdb":     "N/A",
				"audience": "N/A",
			},
		},
		{
			name:       "out of range imdb rating is NA",
			imdbRating: "11.2",
			want: map[string]string{
				"imdb": "N/A",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Normalize(tt.imdbRating, tt.sources)
			for key, want := range tt.want {
				got, ok := set.Get(key)
				assert.True(t, ok, key)
				assert.Equal(t, want, got.String(), key)
			}
		})
	}
}

func TestNormalizeNoSources(t *testing.T) {
	set := Normalize("", nil)
	for _, e := range set.Entries() {
		assert.True(t, e.Score.IsNA(), e.Key)
		assert.Equal(t, NA, e.Score, e.Key)
	}
	assert.Equal(t, Set{}, set)
}

func TestScoreValue(t *testing.T) {
	set := Normalize("8.5", []Source{
		{Name: SourceRottenTomatoes, Value: "Fresh"},
		{Name: SourceMetacritic, Value: "75/100"},
	})

	v, ok := set.IMDb.Value()
	assert.True(t, ok)
	assert.Equal(t, 85, v)

	_, ok = set.RottenTomatoesCritic.Value()
	assert.False(t, ok)
	assert.Equal(t, "Fresh", set.RottenTomatoesCritic.String())

	v, ok = set.MetacriticCritic.Value()
	assert.True(t, ok)
	assert.Equal(t, 75, v)

	_, ok = NA.Value()
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	sources := []Source{
		{Name: SourceRottenTomatoes, Value: "N/A"},
		{Name: SourceMetacritic, Value: " 70/100 "},
	}

	_, ok := Lookup(sources, SourceRottenTomatoes)
	assert.False(t, ok)

	v, ok := Lookup(sources, SourceMetacritic)
	assert.True(t, ok)
	assert.Equal(t, "70/100", v)

	_, ok = Lookup(sources, SourceIMDb)
	assert.False(t, ok)
}
