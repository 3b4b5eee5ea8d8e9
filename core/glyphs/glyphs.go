package glyphs

import (
	"fmt"
	"strconv"
)

// Glyph is a single rendered codepoint.
// Bitmap may be nil for glyphs without visible ink, e.g. whitespace.
type Glyph struct {
	ID      uint32
	Bitmap  []byte
	Width   uint32
	Height  uint32
	Left    int32
	Top     int32
	Advance uint32
}

// FontStack is a named collection of glyphs for one codepoint range.
type FontStack struct {
	Name   string
	Range  string
	Glyphs []Glyph
}

// Len returns the number of glyphs in a stack.
func (fs *FontStack) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.Glyphs)
}

// IDs returns the codepoints of a stack, in stack order.
func (fs *FontStack) IDs() []uint32 {
	if fs == nil {
		return nil
	}
	ids := make([]uint32, len(fs.Glyphs))
	for i, g := range fs.Glyphs {
		ids[i] = g.ID
	}
	return ids
}

func (fs *FontStack) String() string {
	if fs == nil {
		return "<nil stack>"
	}
	return fmt.Sprintf("stack[%q %s #%d]", fs.Name, fs.Range, len(fs.Glyphs))
}

// --- Ranges ----------------------------------------------------------------

// RangeCount is the number of fixed codepoint ranges, RangeSize the number
// of codepoints in each of them.
const (
	RangeCount = 256
	RangeSize  = 256
)

// RangeLabel returns the label of range i, e.g. "256-511" for i = 1.
func RangeLabel(i int) string {
	return strconv.Itoa(RangeSize*i) + "-" + strconv.Itoa(RangeSize*(i+1)-1)
}

// RangeFile returns the container file name for range i.
func RangeFile(i int) string {
	return RangeLabel(i) + ".pbf"
}

// Ranges returns all range labels in ascending order.
func Ranges() []string {
	labels := make([]string, RangeCount)
	for i := range labels {
		labels[i] = RangeLabel(i)
	}
	return labels
}
