// Package library builds the context tree of an annotated media library.
//
// Every directory that carries a .info overlay becomes a Context whose five
// namespaces inherit from the nearest annotated ancestor. Contexts validate
// themselves as they are built, resolve their media files into movies or
// episodes, and know where their reflection lives relative to the .root
// marker. Walk drives the traversal; ConfigError reports inconsistencies.
package library
