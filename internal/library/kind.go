package library

import (
	"mediamirror/internal/overlay"
	"mediamirror/internal/textutil"
)

// Kind classifies a context and selects its own namespace.
type Kind string

const (
	// KindNone is only seen on the traversal base before any overlay.
	KindNone       Kind = ""
	KindSeries     Kind = overlay.Series
	KindSeason     Kind = overlay.Season
	KindMovie      Kind = overlay.Movie
	KindOVA        Kind = overlay.OVA
	KindSoundtrack Kind = overlay.Soundtrack
	KindIgnore     Kind = overlay.Ignore
)

// Catalog keys used as namespace entries and subseries tags.
const (
	KeyAniDB       = "anidb"
	KeyMAL         = "mal"
	KeyTVDB        = "tvdb"
	KeyIMDB        = "imdb"
	KeyHummingBird = "hummingbird"
	KeyTMDB        = "tmdb"
	// KeyGenericID only appears inside episode overrides.
	KeyGenericID = "id"
)

// Art resource keys.
const (
	ArtBackground = "background"
	ArtBanner     = "banner"
	ArtPoster     = "poster"
)

// SubseriesKeys are the override fields that can move an episode out of the
// main numbering, checked in this order.
var SubseriesKeys = []string{KeyAniDB, KeyMAL, KeyTVDB, KeyIMDB, KeyHummingBird, KeyTMDB, KeyGenericID}

// Namespace returns the namespace owned by k, or "" for Ignore and None.
func (k Kind) Namespace() string {
	switch k {
	case KindSeries, KindSeason, KindMovie, KindOVA, KindSoundtrack:
		return string(k)
	default:
		return ""
	}
}

// Episodic reports whether contexts of this kind resolve episodes.
func (k Kind) Episodic() bool {
	return k == KindSeason || k == KindOVA
}

// Reflected reports whether contexts of this kind produce derived entries.
func (k Kind) Reflected() bool {
	switch k {
	case KindSeries, KindSeason, KindMovie, KindOVA:
		return true
	default:
		return false
	}
}

// IDKeys lists the catalogs a context of this kind should be identified in.
func (k Kind) IDKeys() []string {
	switch k {
	case KindSeries:
		return []string{KeyTVDB, KeyTMDB}
	case KindSeason:
		return []string{KeyAniDB, KeyMAL, KeyIMDB}
	case KindMovie:
		return []string{KeyAniDB, KeyMAL, KeyIMDB, KeyTMDB}
	case KindOVA:
		return []string{KeyAniDB, KeyMAL}
	default:
		return nil
	}
}

// ExpectedArt lists the art resources a context of this kind should carry.
func (k Kind) ExpectedArt() []string {
	if k.Reflected() {
		return []string{ArtBackground, ArtPoster}
	}
	return nil
}

// Label returns a display form such as "Season".
func (k Kind) Label() string {
	switch k {
	case KindNone:
		return "-"
	case KindOVA:
		return "OVA"
	default:
		return textutil.Title(string(k))
	}
}
