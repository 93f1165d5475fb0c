package connectivity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalBondRejectsSelfBond(t *testing.T) {
	_, err := NewBond(2, 2)
	assert.Error(t, err)
}

func TestCanonicalAngleRejectsRepeatedAtom(t *testing.T) {
	_, err := NewAngle(1, 1, 2)
	assert.Error(t, err)
	_, err = NewAngle(1, 2, 1)
	assert.Error(t, err)
}

func TestCanonicalDihedralAndImproperRejectRepeats(t *testing.T) {
	_, err := NewDihedral(0, 1, 2, 1)
	assert.Error(t, err)
	_, err = NewImproper(0, 1, 2, 1)
	assert.Error(t, err)
}

func TestCanonicalDihedralOrientation(t *testing.T) {
	d, err := NewDihedral(3, 2, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, Dihedral{I: 0, J: 1, K: 2, L: 3}, d)
}

func TestCanonicalImproperSortsNonCenterAtoms(t *testing.T) {
	imp, err := NewImproper(5, 9, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, Improper{I: 1, J: 5, K: 3, L: 9}, imp)
}

func TestAddBondIsSortedAndDeduped(t *testing.T) {
	c := New()
	require.NoError(t, c.AddBond(4, 1, BondOrderSingle))
	require.NoError(t, c.AddBond(0, 2, BondOrderSingle))
	require.NoError(t, c.AddBond(2, 0, BondOrderDouble))

	assert.Equal(t, []Bond{{I: 0, J: 2}, {I: 1, J: 4}}, c.Bonds())
	order, ok := c.BondOrder(0, 2)
	require.True(t, ok)
	assert.Equal(t, BondOrderSingle, order, "re-adding an existing bond leaves its order untouched")
}

func TestRemoveBondIsIdempotent(t *testing.T) {
	c := New()
	require.NoError(t, c.AddBond(0, 1, BondOrderSingle))
	c.RemoveBond(0, 1)
	c.RemoveBond(0, 1)
	assert.Empty(t, c.Bonds())
}

func TestBondsAndBondOrdersStayIndexAligned(t *testing.T) {
	c := New()
	require.NoError(t, c.AddBond(1, 0, BondOrderSingle))
	require.NoError(t, c.AddBond(2, 1, BondOrderDouble))
	require.NoError(t, c.AddBond(0, 2, BondOrderTriple))

	bonds := c.Bonds()
	orders := c.BondOrders()
	require.Len(t, orders, len(bonds))
	for i, b := range bonds {
		want, ok := c.BondOrder(b.I, b.J)
		require.True(t, ok)
		assert.Equal(t, want, orders[i])
	}
}

func buildScenarioA(t *testing.T) *Connectivity {
	t.Helper()
	c := New()
	for _, pair := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {1, 4}} {
		require.NoError(t, c.AddBond(pair[0], pair[1], BondOrderSingle))
	}
	return c
}

func TestScenarioATopologyCacheAngles(t *testing.T) {
	c := buildScenarioA(t)

	want := []Angle{
		{I: 0, J: 1, K: 2},
		{I: 0, J: 1, K: 4},
		{I: 2, J: 1, K: 4},
		{I: 1, J: 2, K: 3},
		{I: 2, J: 3, K: 4},
		{I: 1, J: 4, K: 3},
	}
	got := c.Angles()
	assert.ElementsMatch(t, want, got)
}

func TestScenarioATopologyCacheDihedrals(t *testing.T) {
	c := buildScenarioA(t)

	got := c.Dihedrals()
	assert.Contains(t, got, Dihedral{I: 0, J: 1, K: 2, L: 3})
	assert.Contains(t, got, Dihedral{I: 0, J: 1, K: 4, L: 3})
}

// Invariant 1: bonds() always reflects exactly the endpoint pairs added,
// sorted and deduplicated, with bond_orders() index-aligned.
func TestInvariantBondsReflectAddRemoveSequence(t *testing.T) {
	c := New()
	require.NoError(t, c.AddBond(0, 1, BondOrderSingle))
	require.NoError(t, c.AddBond(1, 2, BondOrderSingle))
	require.NoError(t, c.AddBond(0, 1, BondOrderDouble))
	c.RemoveBond(1, 2)

	assert.Equal(t, []Bond{{I: 0, J: 1}}, c.Bonds())
	assert.Equal(t, []BondOrder{BondOrderSingle}, c.BondOrders())
}

// Invariant 2: every angle (i,j,k) implies Bond(i,j) and Bond(j,k) exist.
func TestInvariantAnglesImplyBonds(t *testing.T) {
	c := buildScenarioA(t)
	for _, a := range c.Angles() {
		_, ok := c.BondOrder(a.I, a.J)
		assert.True(t, ok, "missing bond (%d,%d) for angle %+v", a.I, a.J, a)
		_, ok = c.BondOrder(a.J, a.K)
		assert.True(t, ok, "missing bond (%d,%d) for angle %+v", a.J, a.K, a)
	}
}

// Invariant 3: every dihedral (i,j,k,l) implies Bond(i,j), Bond(j,k),
// Bond(k,l) all exist.
func TestInvariantDihedralsImplyBonds(t *testing.T) {
	c := buildScenarioA(t)
	for _, d := range c.Dihedrals() {
		_, ok := c.BondOrder(d.I, d.J)
		assert.True(t, ok)
		_, ok = c.BondOrder(d.J, d.K)
		assert.True(t, ok)
		_, ok = c.BondOrder(d.K, d.L)
		assert.True(t, ok)
	}
}

func TestAtomRemovedFailsWhileABondStillReferencesTheAtom(t *testing.T) {
	c := New()
	require.NoError(t, c.AddBond(0, 1, BondOrderSingle))
	require.NoError(t, c.AddBond(1, 2, BondOrderSingle))
	require.NoError(t, c.AddBond(2, 3, BondOrderSingle))

	err := c.AtomRemoved(1)
	require.Error(t, err)
	assert.Equal(t, []Bond{{I: 0, J: 1}, {I: 1, J: 2}, {I: 2, J: 3}}, c.Bonds())
}

func TestAtomRemovedShiftsIndicesOnceIncidentBondsAreGone(t *testing.T) {
	c := New()
	require.NoError(t, c.AddBond(0, 1, BondOrderSingle))
	require.NoError(t, c.AddBond(1, 2, BondOrderSingle))
	require.NoError(t, c.AddBond(2, 3, BondOrderSingle))

	c.RemoveBond(0, 1)
	c.RemoveBond(1, 2)
	require.NoError(t, c.AtomRemoved(1))

	assert.Equal(t, []Bond{{I: 1, J: 2}}, c.Bonds())
}

func TestImpropersGeneratedForThreeOrMoreNeighbors(t *testing.T) {
	c := New()
	require.NoError(t, c.AddBond(0, 1, BondOrderSingle))
	require.NoError(t, c.AddBond(0, 2, BondOrderSingle))
	require.NoError(t, c.AddBond(0, 3, BondOrderSingle))

	imps := c.Impropers()
	require.Len(t, imps, 1)
	assert.Equal(t, Improper{I: 1, J: 0, K: 2, L: 3}, imps[0])
}
