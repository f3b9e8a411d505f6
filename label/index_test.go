// SPDX-License-Identifier: MIT

package label_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/glls/label"
)

func params(ps ...label.Parameter) label.Index[label.Parameter] {
	ix, err := label.NewIndex(ps)
	if err != nil {
		panic(err)
	}
	return ix
}

var (
	u5f = label.Parameter{ZAI: 922350, MT: label.MTFission, Group: 0}
	u5c = label.Parameter{ZAI: 922350, MT: label.MTCapture, Group: 0}
	u8f = label.Parameter{ZAI: 922380, MT: label.MTFission, Group: 1}
)

func TestNewIndex_PreservesOrderAndLookup(t *testing.T) {
	ix, err := label.NewIndex([]label.Parameter{u8f, u5f, u5c})
	require.NoError(t, err)
	assert.Equal(t, 3, ix.Len())
	assert.Equal(t, u8f, ix.At(0))

	p, ok := ix.Pos(u5c)
	assert.True(t, ok)
	assert.Equal(t, 2, p)
	assert.False(t, ix.Contains(label.Parameter{ZAI: 10010}))
}

func TestNewIndex_RejectsDuplicates(t *testing.T) {
	_, err := label.NewIndex([]label.Parameter{u5f, u5c, u5f})
	assert.ErrorIs(t, err, label.ErrLabelMismatch)
}

func TestIndex_KeysIsACopy(t *testing.T) {
	ix := params(u5f, u5c)
	keys := ix.Keys()
	keys[0] = u8f
	assert.Equal(t, u5f, ix.At(0), "mutating Keys() must not leak into the index")
}

func TestIndex_EqualAndRequire(t *testing.T) {
	a := params(u5f, u5c)
	b := params(u5f, u5c)
	c := params(u5c, u5f)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "order matters")
	assert.NoError(t, label.Require("prior", a, b))
	assert.ErrorIs(t, label.Require("prior", a, c), label.ErrLabelMismatch)
	assert.ErrorIs(t, label.Require("prior", a, params(u5f)), label.ErrLabelMismatch)
}

func TestIndex_PositionsIntersectUnion(t *testing.T) {
	a := params(u5f, u5c)
	b := params(u5c, u8f)

	pos, err := a.Positions([]label.Parameter{u5c, u5f})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, pos)

	_, err = a.Positions([]label.Parameter{u8f})
	assert.ErrorIs(t, err, label.ErrLabelMismatch)

	assert.Equal(t, []label.Parameter{u5c}, a.Intersect(b))

	u := a.Union(b)
	assert.Equal(t, []label.Parameter{u5f, u5c, u8f}, u.Keys())
}

func TestIndex_ZeroValueIsEmpty(t *testing.T) {
	var ix label.Index[label.Response]
	assert.Equal(t, 0, ix.Len())
	assert.False(t, ix.Contains(label.Response{Title: "HMF001", Kind: label.KindKeff}))
	assert.Empty(t, ix.Keys())
}
