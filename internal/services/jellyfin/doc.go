// Package jellyfin notifies a Jellyfin server that the reflected library
// changed so it rescans the derived tree.
//
// When the integration is disabled or credentials are missing the configured
// service is a no-op, letting callers refresh unconditionally.
package jellyfin
