package artwork

import (
	"os"
	"path/filepath"

	"mediamirror/internal/library"
)

// Resources lists the art keys in the order they are processed.
var Resources = []string{library.ArtBackground, library.ArtBanner, library.ArtPoster}

// ImageExtensions are the only extensions art is stored with.
var ImageExtensions = []string{"png", "jpg"}

var resourceStems = map[string]string{
	library.ArtBackground: "fanart",
	library.ArtBanner:     "banner",
	library.ArtPoster:     "poster",
}

var extensionAliases = map[string]string{
	"jpeg": "jpg",
	"jpe":  "jpg",
}

// Stem returns the file name, without extension, art is stored under.
func Stem(art string) string {
	return resourceStems[art]
}

// Existing returns the stored file for art in dir, or "" when none exists.
func Existing(dir, art string) string {
	stem := Stem(art)
	if stem == "" {
		return ""
	}
	for _, ext := range ImageExtensions {
		path := filepath.Join(dir, stem+"."+ext)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func normalizeExtension(ext string) (string, bool) {
	if alias, ok := extensionAliases[ext]; ok {
		ext = alias
	}
	for _, known := range ImageExtensions {
		if ext == known {
			return ext, true
		}
	}
	return ext, false
}
