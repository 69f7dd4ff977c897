// Package tmdb provides the minimal TMDB API client used to identify titles
// and fetch their metadata.
//
// It authenticates requests and exposes movie and TV search plus movie, show
// and season detail lookups. Options allow tests to supply custom HTTP
// clients.
package tmdb
