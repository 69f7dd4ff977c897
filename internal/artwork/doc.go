// Package artwork downloads the background, banner, and poster images named
// in overlay documents next to the media they describe, and checks that the
// stored images have the aspect ratio media centers expect for each slot.
package artwork
