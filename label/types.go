// SPDX-License-Identifier: MIT

package label

import (
	"fmt"
	"sort"
	"strings"
)

// AllGroups is the Group value of a Parameter that stands for an energy-integrated
// quantity (e.g. the rows produced by a group collapse).
const AllGroups = -1

// Parameter identifies one multi-group nuclear-data value.
//   - ZAI:   Z*10000 + A*10 + isomeric state (e.g. 922350 for U-235).
//   - MT:    ENDF reaction number (18 fission, 102 capture, 452 nubar, ...).
//   - Group: zero-based energy group, or AllGroups.
type Parameter struct {
	ZAI   int
	MT    int
	Group int
}

// String renders "U235 MT18 g3" (or "U235 MT18 all" for collapsed parameters).
func (p Parameter) String() string {
	if p.Group == AllGroups {
		return fmt.Sprintf("%s MT%d all", NuclideName(p.ZAI), p.MT)
	}

	return fmt.Sprintf("%s MT%d g%d", NuclideName(p.ZAI), p.MT, p.Group)
}

// Less orders parameters by ZAI, then MT, then group.
func (p Parameter) Less(q Parameter) bool {
	if p.ZAI != q.ZAI {
		return p.ZAI < q.ZAI
	}
	if p.MT != q.MT {
		return p.MT < q.MT
	}

	return p.Group < q.Group
}

// SortParameters sorts ps in place into canonical (ZAI, MT, group) order.
func SortParameters(ps []Parameter) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })
}

// Response identifies one integral response (a benchmark measurement or an
// application target). Title is unique within a response space.
type Response struct {
	Title string
	Kind  Kind
}

// String renders "keff:HMF001".
func (r Response) String() string { return r.Kind.String() + ":" + r.Title }

// Kind is the closed set of integral response kinds. Every kind is consumed
// uniformly by the sensitivity model; the tag only travels with the label so
// that reports and loaders can group and validate responses.
type Kind int

const (
	// KindUnknown is the zero value and never valid.
	KindUnknown Kind = iota
	// KindKeff is an effective multiplication factor.
	KindKeff
	// KindReactionRate is an absolute or normalized reaction rate.
	KindReactionRate
	// KindSpectralIndex is a ratio of two reaction rates.
	KindSpectralIndex
	// KindCrossSection is a group-collapsed or integral cross section.
	KindCrossSection
)

var kindNames = [...]string{
	KindUnknown:       "unknown",
	KindKeff:          "keff",
	KindReactionRate:  "rate",
	KindSpectralIndex: "ratio",
	KindCrossSection:  "xs",
}

// String returns the short kind name used in files and reports.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}

	return kindNames[k]
}

// Valid reports whether k is one of the defined non-zero kinds.
func (k Kind) Valid() bool { return k > KindUnknown && int(k) < len(kindNames) }

// ParseKind maps a name (case-insensitive) to a Kind.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k := KindKeff; int(k) < len(kindNames); k++ {
		if kindNames[k] == n {
			return k, nil
		}
	}

	return KindUnknown, fmt.Errorf("ParseKind(%q): %w", name, ErrUnknownKind)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("MarshalText(%d): %w", int(k), ErrUnknownKind)
	}

	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed

	return nil
}
