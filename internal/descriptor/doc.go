// Package descriptor renders the NFO documents media centers read next to
// reflected media: tvshow.nfo, season.nfo and one episode document per
// reflected episode or movie.
package descriptor
