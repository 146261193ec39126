package ratings

// Entry is one labelled, iconified row of a Set.
type Entry struct {
	Key   string
	Label string
	Icon  string
	Score Score
}

// Entries returns the set in display order.
func (s Set) Entries() []Entry {
	return []Entry{
		{Key: "imdb", Label: "IMDb", Icon: "⭐", Score: s.IMDb},
		{Key: "rt", Label: "Rotten Tomatoes", Icon: "🍅", Score: s.RottenTomatoesCritic},
		{Key: "audience", Label: "RT Audience", Icon: "🍿", Score: s.RottenTomatoesAudience},
		{Key: "metacritic", Label: "Metacritic", Icon: "Ⓜ️", Score: s.MetacriticCritic},
		{Key: "metacritic_user", Label: "Metacritic Users", Icon: "👥", Score: s.MetacriticUser},
	}
}

// Get returns the score stored under key, as used by Entries.
func (s Set) Get(key string) (Score, bool) {
	for _, e := range s.Entries() {
		if e.Key == key {
			return e.Score, true
		}
	}
	return NA, false
}
