// SPDX-License-Identifier: MIT

package label_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/glls/label"
)

func TestParameter_StringAndOrder(t *testing.T) {
	assert.Equal(t, "U235 MT18 g3", label.Parameter{ZAI: 922350, MT: 18, Group: 3}.String())
	assert.Equal(t, "Pu239 MT452 all", label.Parameter{ZAI: 942390, MT: 452, Group: label.AllGroups}.String())

	ps := []label.Parameter{
		{ZAI: 942390, MT: 18, Group: 0},
		{ZAI: 922350, MT: 102, Group: 1},
		{ZAI: 922350, MT: 18, Group: 2},
		{ZAI: 922350, MT: 18, Group: 1},
	}
	label.SortParameters(ps)
	assert.Equal(t, []label.Parameter{
		{ZAI: 922350, MT: 18, Group: 1},
		{ZAI: 922350, MT: 18, Group: 2},
		{ZAI: 922350, MT: 102, Group: 1},
		{ZAI: 942390, MT: 18, Group: 0},
	}, ps)
}

func TestKind_ParseAndText(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want label.Kind
	}{
		{"keff", label.KindKeff},
		{" KEFF ", label.KindKeff},
		{"rate", label.KindReactionRate},
		{"ratio", label.KindSpectralIndex},
		{"xs", label.KindCrossSection},
	} {
		got, err := label.ParseKind(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
		assert.True(t, got.Valid())
	}

	_, err := label.ParseKind("beta-eff")
	assert.ErrorIs(t, err, label.ErrUnknownKind)
	assert.False(t, label.KindUnknown.Valid())

	var k label.Kind
	require.NoError(t, k.UnmarshalText([]byte("ratio")))
	assert.Equal(t, label.KindSpectralIndex, k)
	_, err = label.KindUnknown.MarshalText()
	assert.ErrorIs(t, err, label.ErrUnknownKind)
}

func TestResponse_String(t *testing.T) {
	assert.Equal(t, "keff:HMF001", label.Response{Title: "HMF001", Kind: label.KindKeff}.String())
}

func TestReactions(t *testing.T) {
	assert.Equal(t, 18, label.MTFromSerpent("mt 18 xs"))
	assert.Equal(t, 456, label.MTFromSerpent("Nubar Prompt"))
	assert.Equal(t, 35018, label.MTFromSerpent("chi prompt"))
	assert.Equal(t, 67, label.MTFromSerpent("mt 67 xs"))
	assert.Equal(t, label.UnknownMT, label.MTFromSerpent("mt 5000 xs"))

	assert.Equal(t, "(n,gamma)", label.ReactionName(102))
	assert.Equal(t, "MT51", label.ReactionName(51))
}

func TestNuclideName(t *testing.T) {
	assert.Equal(t, "U235", label.NuclideName(922350))
	assert.Equal(t, "Am242m", label.NuclideName(952421))
	assert.Equal(t, "H1", label.NuclideName(10010))
	assert.Equal(t, "0", label.NuclideName(0))

	z, a, iso := label.SplitZAI(952421)
	assert.Equal(t, [3]int{95, 242, 1}, [3]int{z, a, iso})
}

func TestGroupStructure(t *testing.T) {
	gs, err := label.NewGroupStructure([]float64{1e-5, 0.625, 1e5, 2e7})
	require.NoError(t, err)
	assert.Equal(t, 3, gs.Len())

	lo, hi, err := gs.Bounds(1)
	require.NoError(t, err)
	assert.Equal(t, 0.625, lo)
	assert.Equal(t, 1e5, hi)

	w, err := gs.LethargyWidth(2)
	require.NoError(t, err)
	assert.InDelta(t, 5.298317366548036, w, 1e-12)

	_, _, err = gs.Bounds(3)
	assert.ErrorIs(t, err, label.ErrInvalidGroups)

	for _, bad := range [][]float64{{1}, {1, 1}, {2, 1}, {0, 1}, {1, 2, -3}} {
		_, err = label.NewGroupStructure(bad)
		assert.ErrorIs(t, err, label.ErrInvalidGroups, "%v", bad)
	}
}
