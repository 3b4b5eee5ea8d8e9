package glyphs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Offset is a pixel correction for glyph positions. It compensates for
// baseline differences between font families.
type Offset struct {
	Top  int32
	Left int32
}

// IsZero is true for an offset which does not move glyphs.
func (o Offset) IsZero() bool {
	return o.Top == 0 && o.Left == 0
}

func (o Offset) String() string {
	return fmt.Sprintf("(%+d,%+d)", o.Top, o.Left)
}

// OffsetFrom creates an offset from an optional pair (top, left), as found
// in recipes. Missing components default to 0.
func OffsetFrom(pair []int32) (Offset, error) {
	var o Offset
	switch len(pair) {
	case 2:
		o.Left = pair[1]
		fallthrough
	case 1:
		o.Top = pair[0]
	case 0:
	default:
		return o, fmt.Errorf("offset has %d components, at most 2 allowed", len(pair))
	}
	return o, nil
}

// Adjust moves every glyph of the stack by an offset. Only positions are
// touched: width, height, advance and bitmap remain unchanged.
func (fs *FontStack) Adjust(off Offset) *FontStack {
	if fs == nil || off.IsZero() {
		return fs
	}
	for i := range fs.Glyphs {
		fs.Glyphs[i].Top += off.Top
		fs.Glyphs[i].Left += off.Left
	}
	return fs
}

// --- Name rules ------------------------------------------------------------

// OffsetRule selects an offset for font stacks by their name.
type OffsetRule struct {
	Pattern *regexp.Regexp
	Offset  Offset
}

// DefaultOffsetRules returns the corrections applied when combining
// pre-built glyph directories: the CJK cuts of IBM Plex Sans sit 4 pixels
// too low relative to the Latin cuts.
func DefaultOffsetRules() []OffsetRule {
	return []OffsetRule{
		{Pattern: regexp.MustCompile(`^IBM Plex Sans (SC|TC) `), Offset: Offset{Top: -4}},
	}
}

// ParseOffsetRule parses a rule of the form "<regexp>=<top>[,<left>]".
// The last '=' separates pattern and offset.
func ParseOffsetRule(s string) (OffsetRule, error) {
	eq := strings.LastIndex(s, "=")
	if eq <= 0 {
		return OffsetRule{}, fmt.Errorf("offset rule %q: expected <pattern>=<top>[,<left>]", s)
	}
	re, err := regexp.Compile(s[:eq])
	if err != nil {
		return OffsetRule{}, fmt.Errorf("offset rule %q: %w", s, err)
	}
	var pair []int32
	for _, c := range strings.Split(s[eq+1:], ",") {
		v, err := strconv.ParseInt(strings.TrimSpace(c), 10, 32)
		if err != nil {
			return OffsetRule{}, fmt.Errorf("offset rule %q: %w", s, err)
		}
		pair = append(pair, int32(v))
	}
	off, err := OffsetFrom(pair)
	if err != nil {
		return OffsetRule{}, fmt.Errorf("offset rule %q: %w", s, err)
	}
	return OffsetRule{Pattern: re, Offset: off}, nil
}

// OffsetFor returns the offset of the first rule matching name.
func OffsetFor(rules []OffsetRule, name string) (Offset, bool) {
	for _, r := range rules {
		if r.Pattern != nil && r.Pattern.MatchString(name) {
			return r.Offset, true
		}
	}
	return Offset{}, false
}
