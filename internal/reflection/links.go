package reflection

import (
	"path/filepath"

	"mediamirror/internal/library"
)

// MovieStem is the derived filename stem of a movie's main file.
const MovieStem = "Movie.ep00"

// Link pairs a derived path with the source file it points at.
type Link struct {
	Path   string
	Target string
}

// ProjectLinks computes the derived link for every regular file in the
// context's directory. The designated movie file and resolved episodes get
// canonical names; everything else keeps its filename. Soundtrack and
// ignored contexts project nothing.
func ProjectLinks(c *library.Context) ([]Link, error) {
	if !c.Kind().Reflected() {
		return nil, nil
	}
	reflected, err := c.ReflectedPath()
	if err != nil {
		return nil, err
	}
	files, err := c.RegularFilenames()
	if err != nil {
		return nil, err
	}

	renamed := make(map[string]string)
	switch {
	case c.Kind() == library.KindMovie:
		movie, err := c.MovieFilename()
		if err != nil {
			return nil, err
		}
		renamed[movie] = MovieStem + filepath.Ext(movie)
	case c.Kind().Episodic():
		episodes, err := library.ResolveEpisodes(c)
		if err != nil {
			return nil, err
		}
		for _, ep := range episodes {
			renamed[ep.Filename] = ep.DerivedName()
		}
	}

	links := make([]Link, 0, len(files))
	for _, name := range files {
		derived := name
		if canonical, ok := renamed[name]; ok {
			derived = canonical
		}
		links = append(links, Link{
			Path:   filepath.Join(reflected, derived),
			Target: filepath.Join(c.Path(), name),
		})
	}
	return links, nil
}

// MovieDerivedPath returns the derived path of a movie context's main file.
func MovieDerivedPath(c *library.Context) (string, error) {
	reflected, err := c.ReflectedPath()
	if err != nil {
		return "", err
	}
	movie, err := c.MovieFilename()
	if err != nil {
		return "", err
	}
	return filepath.Join(reflected, MovieStem+filepath.Ext(movie)), nil
}
