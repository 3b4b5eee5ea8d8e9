package glyphs

import (
	"fmt"

	"github.com/npillmayer/fontstacks/core"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the glyph container schema:
//
//	message glyph     { uint32 id = 1; bytes bitmap = 2; uint32 width = 3; uint32 height = 4;
//	                    sint32 left = 5; sint32 top = 6; uint32 advance = 7; }
//	message fontstack { string name = 1; string range = 2; repeated glyph glyphs = 3; }
//	message glyphs    { repeated fontstack stacks = 1; }
const (
	fieldStacks protowire.Number = 1

	fieldStackName   protowire.Number = 1
	fieldStackRange  protowire.Number = 2
	fieldStackGlyphs protowire.Number = 3

	fieldGlyphID      protowire.Number = 1
	fieldGlyphBitmap  protowire.Number = 2
	fieldGlyphWidth   protowire.Number = 3
	fieldGlyphHeight  protowire.Number = 4
	fieldGlyphLeft    protowire.Number = 5
	fieldGlyphTop     protowire.Number = 6
	fieldGlyphAdvance protowire.Number = 7
)

// Decode reads the first font stack of a glyph container. Further stacks
// are skipped, as are fields unknown to the schema.
//
// Glyph bitmaps share memory with data; clients must not modify data while
// the stack is in use.
func Decode(data []byte) (*FontStack, error) {
	var stack *FontStack
	skipped := 0
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldStacks {
			return skip(num, typ, b)
		}
		v, n, err := consumeBytes(typ, b)
		if err != nil {
			return n, err
		}
		if stack != nil {
			skipped++
			return n, nil
		}
		stack, err = decodeStack(v)
		return n, err
	})
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "malformed glyph container")
	}
	if stack == nil {
		return nil, core.Error(core.EINVALID, "glyph container holds no font stack")
	}
	if skipped > 0 {
		tracer().Debugf("glyph container %s: ignoring %d additional stacks", stack.Range, skipped)
	}
	return stack, nil
}

func decodeStack(data []byte) (*FontStack, error) {
	stack := &FontStack{}
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldStackName, fieldStackRange:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			if num == fieldStackName {
				stack.Name = string(v)
			} else {
				stack.Range = string(v)
			}
			return n, nil
		case fieldStackGlyphs:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			g, err := decodeGlyph(v)
			if err != nil {
				return n, err
			}
			stack.Glyphs = append(stack.Glyphs, g)
			return n, nil
		}
		return skip(num, typ, b)
	})
	return stack, err
}

func decodeGlyph(data []byte) (Glyph, error) {
	var g Glyph
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == fieldGlyphBitmap {
			v, n, err := consumeBytes(typ, b)
			g.Bitmap = v
			return n, err
		}
		if num < fieldGlyphID || num > fieldGlyphAdvance {
			return skip(num, typ, b)
		}
		if typ != protowire.VarintType {
			return 0, fmt.Errorf("glyph field %d: unexpected wire type %d", num, typ)
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return n, protowire.ParseError(n)
		}
		switch num {
		case fieldGlyphID:
			g.ID = uint32(v)
		case fieldGlyphWidth:
			g.Width = uint32(v)
		case fieldGlyphHeight:
			g.Height = uint32(v)
		case fieldGlyphLeft:
			g.Left = int32(protowire.DecodeZigZag(v & 0xffffffff))
		case fieldGlyphTop:
			g.Top = int32(protowire.DecodeZigZag(v & 0xffffffff))
		case fieldGlyphAdvance:
			g.Advance = uint32(v)
		}
		return n, nil
	})
	return g, err
}

// walk iterates over the fields of a message. fn consumes a field's value
// and reports the number of bytes consumed.
func walk(data []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		m, err := fn(num, typ, data)
		if err != nil {
			return err
		}
		if m < 0 || m > len(data) {
			return fmt.Errorf("field %d: truncated value", num)
		}
		data = data[m:]
	}
	return nil
}

func consumeBytes(typ protowire.Type, b []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, fmt.Errorf("unexpected wire type %d for length-delimited field", typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, n, protowire.ParseError(n)
	}
	return v, n, nil
}

func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return n, protowire.ParseError(n)
	}
	return n, nil
}

// --- Encoding --------------------------------------------------------------

// Encode writes a font stack as a glyph container holding exactly this stack.
func Encode(stack *FontStack) []byte {
	if stack == nil {
		return nil
	}
	var body, scratch []byte
	body = protowire.AppendTag(body, fieldStackName, protowire.BytesType)
	body = protowire.AppendString(body, stack.Name)
	body = protowire.AppendTag(body, fieldStackRange, protowire.BytesType)
	body = protowire.AppendString(body, stack.Range)
	for i := range stack.Glyphs {
		scratch = appendGlyph(scratch[:0], &stack.Glyphs[i])
		body = protowire.AppendTag(body, fieldStackGlyphs, protowire.BytesType)
		body = protowire.AppendBytes(body, scratch)
	}
	out := make([]byte, 0, len(body)+protowire.SizeTag(fieldStacks)+protowire.SizeBytes(len(body)))
	out = protowire.AppendTag(out, fieldStacks, protowire.BytesType)
	return protowire.AppendBytes(out, body)
}

func appendGlyph(b []byte, g *Glyph) []byte {
	b = appendVarint(b, fieldGlyphID, uint64(g.ID))
	if g.Bitmap != nil {
		b = protowire.AppendTag(b, fieldGlyphBitmap, protowire.BytesType)
		b = protowire.AppendBytes(b, g.Bitmap)
	}
	b = appendVarint(b, fieldGlyphWidth, uint64(g.Width))
	b = appendVarint(b, fieldGlyphHeight, uint64(g.Height))
	b = appendVarint(b, fieldGlyphLeft, protowire.EncodeZigZag(int64(g.Left)))
	b = appendVarint(b, fieldGlyphTop, protowire.EncodeZigZag(int64(g.Top)))
	b = appendVarint(b, fieldGlyphAdvance, uint64(g.Advance))
	return b
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}
