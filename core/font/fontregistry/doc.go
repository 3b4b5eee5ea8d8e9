/*
Package fontregistry keeps track of font sources which have been prepared
for glyph combination, i.e. fetched and rasterized.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fontstacks.fonts'
func tracer() tracing.Trace {
	return tracing.Select("fontstacks.fonts")
}
