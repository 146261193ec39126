// Package omdb provides a client for the OMDb movie database API.
//
// The client performs exactly one HTTP GET per call and never retries. The
// upstream JSON is loosely typed, so responses are decoded leniently and
// converted into the movie package types at this boundary: a missing or
// mistyped field becomes an empty value instead of a decode failure.
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client := omdb.NewClient(apiKey, logger, omdb.WithTimeout(10*time.Second))
//
//	results, err := client.Search(ctx, "blade runner")
//	if err != nil {
//		switch omdb.KindOf(err) {
//		case omdb.KindNotFound:
//			// no matches
//		case omdb.KindConfig:
//			// no API key configured
//		}
//	}
//
// # Error Handling
//
//   - ErrConfig: no API key, returned before any request is made
//   - ErrNotFound: upstream reported no match ("Movie not found!", "Incorrect IMDb ID.")
//   - APIError: any other upstream error, in the body or as an HTTP status
//   - TransportError: the request could not be completed
//
// A body with Response != "True" or a non-empty Error field is as terminal as
// a non-success HTTP status.
package omdb
