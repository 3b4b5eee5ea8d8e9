/*
Package glyphs holds SDF glyph stacks as produced by an external glyph
builder, and knows how to combine several of them into one.

Glyphs are partitioned into 256 fixed ranges of 256 codepoints each.
A glyph container (one file per range, usually named "<range>.pbf")
carries a single font stack for a single range. Combining containers of
different fonts for the same range yields one stack, where glyphs of
earlier containers take precedence over glyphs of later ones.

	merged, err := glyphs.Combine([]glyphs.Source{
	    {Data: latin},
	    {Data: cjk, Offset: glyphs.Offset{Top: -4}},
	}, glyphs.NameBlank)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphs

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'fontstacks.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("fontstacks.glyphs")
}
