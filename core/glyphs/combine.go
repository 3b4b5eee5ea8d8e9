package glyphs

import (
	"sort"
	"strings"
)

// Naming decides how a combined stack is named.
type Naming int

const (
	// NameBlank leaves the combined stack without a name.
	NameBlank Naming = iota
	// NameJoin names the combined stack after its constituents, separated by ", ".
	NameJoin
)

// Source is a glyph container for one range, together with the position
// correction to apply to its glyphs.
type Source struct {
	Data   []byte
	Offset Offset
	Origin string // for diagnostics only, e.g. the file path
}

// Combiner merges glyph containers of one range into a single container.
type Combiner struct {
	Naming Naming
	// Rules add an offset to stacks with a matching name, on top of the
	// offset configured for a source.
	Rules []OffsetRule
}

// Combine decodes the containers of sources (in priority order), adjusts
// their glyph positions and merges them. If sources is empty, Combine
// returns nil and no error.
func (c Combiner) Combine(sources []Source) ([]byte, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	stacks := make([]*FontStack, 0, len(sources))
	for _, src := range sources {
		stack, err := Decode(src.Data)
		if err != nil {
			tracer().Errorf("cannot decode glyphs of %s", src.Origin)
			return nil, err
		}
		off := src.Offset
		if r, ok := OffsetFor(c.Rules, stack.Name); ok {
			tracer().Debugf("stack %q matches offset rule %v", stack.Name, r)
			off.Top += r.Top
			off.Left += r.Left
		}
		stacks = append(stacks, stack.Adjust(off))
	}
	return Encode(Merge(stacks, c.Naming)), nil
}

// Combine is a shortcut for a Combiner without name rules.
func Combine(sources []Source, naming Naming) ([]byte, error) {
	return Combiner{Naming: naming}.Combine(sources)
}

// Merge unifies stacks into a new stack. stacks are given in priority
// order: if a codepoint occurs more than once, the glyph seen first is
// kept. The glyphs of the result are sorted by codepoint.
//
// Merge returns nil if stacks is empty. Stacks without glyphs contribute
// nothing, but the result is non-nil even if no stack has any glyph.
func Merge(stacks []*FontStack, naming Naming) *FontStack {
	if len(stacks) == 0 {
		return nil
	}
	result := &FontStack{}
	seen := make(map[uint32]struct{})
	names := make([]string, 0, len(stacks))
	for _, stack := range stacks {
		if stack == nil {
			continue
		}
		if result.Range == "" {
			result.Range = stack.Range
		}
		names = append(names, stack.Name)
		for _, g := range stack.Glyphs {
			if _, dup := seen[g.ID]; dup {
				continue
			}
			seen[g.ID] = struct{}{}
			result.Glyphs = append(result.Glyphs, g)
		}
	}
	if naming == NameJoin {
		result.Name = strings.Join(names, ", ")
	}
	sort.Slice(result.Glyphs, func(i, j int) bool {
		return result.Glyphs[i].ID < result.Glyphs[j].ID
	})
	tracer().Debugf("merged %d stacks into %v", len(stacks), result)
	return result
}
