/*
Package build produces combined glyph ranges for the styles of a font.

For every style, all its variants are fetched and rasterized concurrently.
Then each of the 256 codepoint ranges is combined from the variants'
glyph containers, on a bounded pool of workers, and written to

	<output>/<style name>/<range>.pbf

Ranges no variant covers are skipped. Any failure aborts the style: a
partial glyph set is worse than none.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package build

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fontstacks.build'.
func tracer() tracing.Trace {
	return tracing.Select("fontstacks.build")
}
