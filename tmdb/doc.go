// Package tmdb provides a client for The Movie Database (TMDB) v3 API.
//
// The client is a thin layer over resource.Client: it fixes the base URL
// and the bearer token and exposes the three read operations marquee needs.
//
// # Usage
//
//	client, err := tmdb.NewClient(tmdb.DefaultBaseURL, token, logger,
//		tmdb.WithCacheTTL(10*time.Minute),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	popular, err := client.GetPopularMovies(ctx, 1)
//	details, err := client.GetMovie(ctx, 550)
//	results, err := client.SearchMovies(ctx, "fight club", 1)
//
// HTTP failures are returned wrapped; use errors.As with *resource.APIError
// to inspect the status.
package tmdb
