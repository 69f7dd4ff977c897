// Package kodi keeps Kodi profiles in step with the reflected tree: it
// records a view mode for every reflected directory in the profile's
// ViewModes6.db and points the skin's fallback backgrounds at the
// configured image.
package kodi
