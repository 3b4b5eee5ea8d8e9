/*
Package font inspects font sources before they are handed to the glyph
builder.

Glyph building is done by an external tool, which reports broken input
only by failing without much of a hint. Looking into the file beforehand lets
us reject payloads which are not fonts at all (HTML error pages served
with status 200 are a classic) and gives us the font's names for logging.
Anything else is passed on, as the glyph builder reads more formats than
we parse.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package font

import (
	"bytes"
	"os"

	"github.com/npillmayer/fontstacks/core"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'fontstacks.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("fontstacks.fonts")
}

// ScalableFont is a parsed font source file.
type ScalableFont struct {
	Fontname string // full font name, e.g. "Noto Sans Bold"
	Family   string // family name, e.g. "Noto Sans"
	Filepath string
	Faces    int        // number of faces; > 1 for collections
	SFNT     *sfnt.Font // the (first) face
}

// Inspect reads a font source before it is handed to the glyph builder.
// Markup served in place of a font is rejected with core.EINVALID.
// Files the sfnt parser cannot read, e.g. WOFF, are left for the glyph
// builder to judge: Inspect returns a nil font and no error for them.
func Inspect(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	if IsMarkup(bytez) {
		return nil, core.Error(core.EINVALID, "not a font file: %s (markup)", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		tracer().Infof("font file %s not parseable here (%v), passing it on unchecked", fontfile, err)
		return nil, nil
	}
	f.Filepath = fontfile
	tracer().Debugf("font file %s contains %q (%d face(s))", fontfile, f.Fontname, f.Faces)
	return f, nil
}

// IsMarkup is true for payloads which start like an HTML or XML document,
// as error pages do.
func IsMarkup(data []byte) bool {
	if len(data) > 512 {
		data = data[:512]
	}
	head := bytes.ToLower(bytes.TrimLeft(data, " \t\r\n\ufeff"))
	for _, prefix := range []string{"<!doctype", "<html", "<?xml", "<head", "<body"} {
		if bytes.HasPrefix(head, []byte(prefix)) {
			return true
		}
	}
	return false
}

// ParseOpenTypeFont parses the binary of a font or font collection.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Faces: 1}
	if f.SFNT, err = sfnt.Parse(fbytes); err != nil {
		coll, cerr := sfnt.ParseCollection(fbytes)
		if cerr != nil || coll.NumFonts() == 0 {
			return nil, err
		}
		f.Faces = coll.NumFonts()
		if f.SFNT, err = coll.Font(0); err != nil {
			return nil, err
		}
	}
	var buf sfnt.Buffer
	f.Fontname, _ = f.SFNT.Name(&buf, sfnt.NameIDFull)
	f.Family, _ = f.SFNT.Name(&buf, sfnt.NameIDFamily)
	return f, nil
}

// NumGlyphs returns the number of glyphs in the (first) face of a font.
func (sf *ScalableFont) NumGlyphs() int {
	if sf == nil || sf.SFNT == nil {
		return 0
	}
	return sf.SFNT.NumGlyphs()
}
