package kodi

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mediamirror/internal/fileutil"
)

// fallbackViews are the skin sections whose fallback background is managed.
var fallbackViews = []string{"System", "Movies", "TVShows", "Videos"}

// GUISettingsPath returns the GUI settings file of a Kodi profile.
func GUISettingsPath(profile string) string {
	return filepath.Join(profile, "userdata", "guisettings.xml")
}

// FallbackSettings returns the names of the skin settings that hold a
// fallback background.
func FallbackSettings(skin string) []string {
	names := make([]string, 0, len(fallbackViews))
	for _, view := range fallbackViews {
		names = append(names, skin+"."+view+".Fallback")
	}
	return names
}

// SetFallbackBackground points every fallback background setting of skin in
// the profile's guisettings.xml at background. The file is only rewritten
// when a value differs, and bytes outside the edited settings are kept.
func SetFallbackBackground(profile, skin, background string) (bool, error) {
	path := GUISettingsPath(profile)
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read gui settings: %w", err)
	}
	updated, changed, err := replaceSettings(data, FallbackSettings(skin), background)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if !changed {
		return false, nil
	}
	if _, _, err := fileutil.WriteFileIfChanged(path, updated, 0o644); err != nil {
		return false, fmt.Errorf("write gui settings: %w", err)
	}
	return true, nil
}

type splice struct {
	start, end  int64
	replacement []byte
}

// replaceSettings sets the text of every <setting> element whose name or id
// attribute is in names to value.
func replaceSettings(data []byte, names []string, value string) ([]byte, bool, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(value)); err != nil {
		return nil, false, err
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var splices []splice
	var (
		inside     bool
		depth      int
		tagStart   int64
		contentPos int64
		text       bytes.Buffer
	)
	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("parse settings: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if inside {
				depth++
				continue
			}
			if t.Name.Local == "setting" && wanted[settingName(t)] {
				inside = true
				depth = 0
				tagStart = offset
				contentPos = dec.InputOffset()
				text.Reset()
			}
		case xml.CharData:
			if inside && depth == 0 {
				text.Write(t)
			}
		case xml.EndElement:
			if !inside {
				continue
			}
			if depth > 0 {
				depth--
				continue
			}
			inside = false
			if text.String() == value {
				continue
			}
			if contentPos == dec.InputOffset() {
				// Self-closing element: rebuild it with a body.
				open := bytes.TrimRight(data[tagStart:contentPos], " \t\r\n")
				open = bytes.TrimSuffix(open, []byte("/>"))
				open = bytes.TrimRight(open, " \t\r\n")
				replacement := append(append([]byte{}, open...), '>')
				replacement = append(replacement, escaped.Bytes()...)
				replacement = append(replacement, []byte("</"+t.Name.Local+">")...)
				splices = append(splices, splice{start: tagStart, end: contentPos, replacement: replacement})
				continue
			}
			splices = append(splices, splice{start: contentPos, end: offset, replacement: escaped.Bytes()})
		}
	}
	if len(splices) == 0 {
		return data, false, nil
	}

	var out bytes.Buffer
	var pos int64
	for _, s := range splices {
		out.Write(data[pos:s.start])
		out.Write(s.replacement)
		pos = s.end
	}
	out.Write(data[pos:])
	return out.Bytes(), true, nil
}

func settingName(el xml.StartElement) string {
	for _, attr := range el.Attr {
		if attr.Name.Local == "name" || attr.Name.Local == "id" {
			return attr.Value
		}
	}
	return ""
}
