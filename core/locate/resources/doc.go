/*
Package resources makes font sources available as local files.

Fonts may be referenced by URL, as Google webfonts, as fonts installed on
the system, or as local files. Downloads are kept in the user's cache
directory, under a name derived from a hash of the source URL. Repeated
runs therefore will not download a source again.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'fontstacks.resources'.
func tracer() tracing.Trace {
	return tracing.Select("fontstacks.resources")
}
