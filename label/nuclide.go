// SPDX-License-Identifier: MIT

package label

import "fmt"

// elements holds chemical symbols indexed by atomic number Z (index 0 is the neutron).
var elements = [...]string{
	"n", "H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm",
	"Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

// SplitZAI decomposes a ZAI identifier into (Z, A, isomeric state).
func SplitZAI(zai int) (z, a, iso int) {
	return zai / 10000, (zai / 10) % 1000, zai % 10
}

// NuclideName renders a ZAI as "U235", "Am242m" or "Pu239m2".
// Identifiers with an unknown Z fall back to the decimal ZAI.
func NuclideName(zai int) string {
	if zai <= 0 {
		return fmt.Sprintf("%d", zai)
	}
	z, a, iso := SplitZAI(zai)
	if z >= len(elements) {
		return fmt.Sprintf("%d", zai)
	}
	switch {
	case iso == 0:
		return fmt.Sprintf("%s%d", elements[z], a)
	case iso == 1:
		return fmt.Sprintf("%s%dm", elements[z], a)
	default:
		return fmt.Sprintf("%s%dm%d", elements[z], a, iso)
	}
}
