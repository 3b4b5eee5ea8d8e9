package glyphs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustMovesPositionsOnly(t *testing.T) {
	bitmap := []byte{1, 2, 3, 4}
	stack := &FontStack{Glyphs: []Glyph{
		{ID: 7, Bitmap: bitmap, Width: 2, Height: 2, Left: 1, Top: -10, Advance: 9},
	}}
	stack.Adjust(Offset{Top: 4})
	g := stack.Glyphs[0]
	assert.Equal(t, int32(-6), g.Top)
	assert.Equal(t, int32(1), g.Left)
	assert.Equal(t, uint32(2), g.Width)
	assert.Equal(t, uint32(2), g.Height)
	assert.Equal(t, uint32(9), g.Advance)
	assert.Equal(t, []byte{1, 2, 3, 4}, g.Bitmap)
	//
	stack.Adjust(Offset{Top: -1, Left: 3})
	assert.Equal(t, int32(-7), stack.Glyphs[0].Top)
	assert.Equal(t, int32(4), stack.Glyphs[0].Left)
}

func TestOffsetFrom(t *testing.T) {
	o, err := OffsetFrom(nil)
	require.NoError(t, err)
	assert.True(t, o.IsZero())
	o, err = OffsetFrom([]int32{3})
	require.NoError(t, err)
	assert.Equal(t, Offset{Top: 3}, o)
	o, err = OffsetFrom([]int32{3, -2})
	require.NoError(t, err)
	assert.Equal(t, Offset{Top: 3, Left: -2}, o)
	_, err = OffsetFrom([]int32{1, 2, 3})
	assert.Error(t, err)
}

func TestDefaultOffsetRules(t *testing.T) {
	rules := DefaultOffsetRules()
	off, ok := OffsetFor(rules, "IBM Plex Sans SC Regular")
	assert.True(t, ok)
	assert.Equal(t, Offset{Top: -4}, off)
	off, ok = OffsetFor(rules, "IBM Plex Sans TC Bold")
	assert.True(t, ok)
	_, ok = OffsetFor(rules, "IBM Plex Sans Regular")
	assert.False(t, ok)
	_, ok = OffsetFor(rules, "IBM Plex Sans KR Regular")
	assert.False(t, ok)
}

func TestParseOffsetRule(t *testing.T) {
	r, err := ParseOffsetRule("^Noto Sans JP =-3,1")
	require.NoError(t, err)
	assert.Equal(t, Offset{Top: -3, Left: 1}, r.Offset)
	assert.True(t, r.Pattern.MatchString("Noto Sans JP Regular"))
	//
	r, err = ParseOffsetRule("a=b=2")
	require.NoError(t, err)
	assert.Equal(t, "a=b", r.Pattern.String())
	//
	for _, bad := range []string{"nopattern", "=4", "(=1", "x=1,2,3", "x=up"} {
		_, err := ParseOffsetRule(bad)
		assert.Error(t, err, bad)
	}
}
