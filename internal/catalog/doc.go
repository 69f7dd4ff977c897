// Package catalog describes the external catalogs titles are identified in
// and the sites artwork is gathered from.
//
// Each catalog knows its search, open and id-parsing URL shapes; most can
// also guess a best match by scraping their search page or, for TMDB, by
// querying the API. Lookups run in the background so several catalogs can
// be searched while the caller moves on.
package catalog
