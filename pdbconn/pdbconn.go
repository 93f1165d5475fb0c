// Package pdbconn is the PDBConnectivity collaborator of spec section 6.3:
// a static table of per-residue-template intra-residue bonds, used to
// synthesize connectivity for formats that carry only residue names (e.g.
// a PDB ATOM record has no bond list of its own). Out of scope as a
// maintained table per spec section 1; this package ships a handful of
// common templates sufficient to demonstrate the interface.
package pdbconn

// Bond is one templated intra-residue bond between two atom names.
type Bond struct {
	A, B string
}

var templates = map[string][]Bond{
	"HOH": {{"O", "H1"}, {"O", "H2"}},
	"WAT": {{"O", "H1"}, {"O", "H2"}},
	"ALA": {
		{"N", "CA"}, {"CA", "C"}, {"C", "O"}, {"CA", "CB"},
	},
	"GLY": {
		{"N", "CA"}, {"CA", "C"}, {"C", "O"},
	},
}

// ResidueTemplate returns the intra-residue bond template for the named
// residue, if known.
func ResidueTemplate(name string) ([]Bond, bool) {
	b, ok := templates[name]
	return b, ok
}
