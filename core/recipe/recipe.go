/*
Package recipe reads build recipes. A recipe lists fonts to build; every
font comes in styles, and every style is composed of font variants:

	fonts:
	  - name: noto
	    styles:
	      - name: Noto Sans Regular
	        variants:
	          - url: https://…/NotoSans-Regular.ttf
	          - url: https://…/NotoSansCJKsc-Regular.otf
	            offset: [-4]        # top, left

Variants are listed in priority order. JSON recipes work as well, and the
key "gredients" is accepted in place of "variants".

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package recipe

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/fontstacks/core"
	"github.com/npillmayer/fontstacks/core/glyphs"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// tracer traces with key 'fontstacks.recipe'.
func tracer() tracing.Trace {
	return tracing.Select("fontstacks.recipe")
}

// Recipe is a list of fonts to build.
type Recipe struct {
	Fonts []Font `yaml:"fonts" json:"fonts"`
}

// Font is a named group of styles.
type Font struct {
	Name   string  `yaml:"name" json:"name"`
	Styles []Style `yaml:"styles" json:"styles"`
}

// Style is one output font stack, merged from its variants.
type Style struct {
	Name      string    `yaml:"name" json:"name"`
	Variants  []Variant `yaml:"variants" json:"variants"`
	Gredients []Variant `yaml:"gredients,omitempty" json:"gredients,omitempty"`
}

// Variant is one font source of a style.
type Variant struct {
	URL    string  `yaml:"url" json:"url"`
	Offset []int32 `yaml:"offset,omitempty" json:"offset,omitempty"`
}

// GlyphOffset returns the position correction of a variant.
func (v Variant) GlyphOffset() glyphs.Offset {
	off, _ := glyphs.OffsetFrom(v.Offset) // checked by Validate
	return off
}

// Load reads a recipe file.
func Load(path string) (*Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot open recipe %s", path)
	}
	defer f.Close()
	r, err := Parse(f)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "invalid recipe %s: %s", path, core.UserMessage(err))
	}
	return r, nil
}

// Parse reads a recipe in YAML or JSON format, normalizes and validates it.
func Parse(r io.Reader) (*Recipe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot read recipe")
	}
	rcp := &Recipe{}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, rcp)
	} else {
		err = yaml.Unmarshal(data, rcp)
	}
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "recipe cannot be decoded: %v", err)
	}
	rcp.normalize()
	if err = rcp.Validate(); err != nil {
		return nil, err
	}
	tracer().Debugf("recipe has %d fonts", len(rcp.Fonts))
	return rcp, nil
}

func (rcp *Recipe) normalize() {
	for i := range rcp.Fonts {
		f := &rcp.Fonts[i]
		f.Name = cleanName(f.Name)
		for j := range f.Styles {
			s := &f.Styles[j]
			s.Name = cleanName(s.Name)
			s.Variants = append(s.Variants, s.Gredients...)
			s.Gredients = nil
			for k := range s.Variants {
				s.Variants[k].URL = strings.TrimSpace(s.Variants[k].URL)
			}
		}
	}
}

// cleanName normalizes names to NFC. Style names become directory names,
// which must not depend on how an editor composed accented characters.
func cleanName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Validate checks a recipe for completeness.
func (rcp *Recipe) Validate() error {
	fonts := make(map[string]bool)
	for _, f := range rcp.Fonts {
		if f.Name == "" {
			return core.Error(core.EINVALID, "recipe contains a font without a name")
		}
		if fonts[f.Name] {
			return core.Error(core.EINVALID, "font %q defined more than once", f.Name)
		}
		fonts[f.Name] = true
		styles := make(map[string]bool)
		for _, s := range f.Styles {
			if err := s.validate(f.Name); err != nil {
				return err
			}
			if styles[s.Name] {
				return core.Error(core.EINVALID, "font %q: style %q defined more than once", f.Name, s.Name)
			}
			styles[s.Name] = true
		}
	}
	return nil
}

func (s Style) validate(font string) error {
	if s.Name == "" {
		return core.Error(core.EINVALID, "font %q contains a style without a name", font)
	}
	if s.Name == "." || s.Name == ".." || strings.ContainsAny(s.Name, `/\`) {
		return core.Error(core.EINVALID, "font %q: style name %q is not usable as a directory name", font, s.Name)
	}
	if len(s.Variants) == 0 {
		return core.Error(core.EINVALID, "font %q: style %q has no variants", font, s.Name)
	}
	for _, v := range s.Variants {
		if v.URL == "" {
			return core.Error(core.EINVALID, "font %q: style %q has a variant without source", font, s.Name)
		}
		if _, err := glyphs.OffsetFrom(v.Offset); err != nil {
			return core.WrapError(err, core.EINVALID, "font %q: style %q: %v", font, s.Name, err)
		}
	}
	return nil
}

// Font returns the font with a given name.
func (rcp *Recipe) Font(name string) (*Font, error) {
	name = cleanName(name)
	for i := range rcp.Fonts {
		if rcp.Fonts[i].Name == name {
			return &rcp.Fonts[i], nil
		}
	}
	return nil, core.Error(core.EMISSING, "font not found: %s", name)
}

// Style returns the style with a given name.
func (f *Font) Style(name string) (*Style, error) {
	name = cleanName(name)
	for i := range f.Styles {
		if f.Styles[i].Name == name {
			return &f.Styles[i], nil
		}
	}
	return nil, core.Error(core.EMISSING, "font %s has no style %q", f.Name, name)
}
