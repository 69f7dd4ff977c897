package artwork

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"mediamirror/internal/library"
	"mediamirror/internal/services"
)

// ratioChecks holds the width/height constraint for each art slot.
var ratioChecks = map[string]struct {
	ok   func(float64) bool
	want string
}{
	library.ArtBanner:     {func(r float64) bool { return r > 3.0 }, "> 3.0"},
	library.ArtBackground: {func(r float64) bool { return r < 2.0 }, "< 2.0"},
	library.ArtPoster:     {func(r float64) bool { return r < 1.0 }, "< 1.0"},
}

// Dimensions reports the pixel size of the image at path.
func Dimensions(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Verify checks the aspect ratio of every stored art file of c. A file with
// the wrong shape is a validation error naming the context and the ratio.
func Verify(c *library.Context) error {
	for _, art := range Resources {
		path := Existing(c.Path(), art)
		if path == "" {
			continue
		}
		width, height, err := Dimensions(path)
		if err != nil {
			return services.Wrap(services.ErrValidation, c.String(), "verify artwork", art, err)
		}
		if height == 0 {
			return services.Wrap(services.ErrValidation, c.String(), "verify artwork",
				fmt.Sprintf("%s has zero height: %s", art, path), nil)
		}
		ratio := float64(width) / float64(height)
		check := ratioChecks[art]
		if !check.ok(ratio) {
			return services.Wrap(services.ErrValidation, c.String(), "verify artwork",
				fmt.Sprintf("artwork for %s has ratio %.2f (%dx%d), want %s: %s", art, ratio, width, height, check.want, path), nil)
		}
	}
	return nil
}
