package pdbconn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResidueTemplateKnownResidue(t *testing.T) {
	bonds, ok := ResidueTemplate("ALA")
	require.True(t, ok)
	assert.Contains(t, bonds, Bond{A: "N", B: "CA"})
	assert.Contains(t, bonds, Bond{A: "CA", B: "CB"})
}

func TestResidueTemplateUnknownResidue(t *testing.T) {
	_, ok := ResidueTemplate("NOSUCHRES")
	assert.False(t, ok)
}

func TestResidueTemplateWater(t *testing.T) {
	bonds, ok := ResidueTemplate("HOH")
	require.True(t, ok)
	assert.Len(t, bonds, 2)
}
