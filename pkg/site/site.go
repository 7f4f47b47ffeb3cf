// Package site defines the web ring's member records and sort ordering.
//
// A Site is one member of the ring: a name, an external link, a grouping
// key (e.g. the program a member belongs to), and an ordinal year. Sites
// are sorted before topology construction; the layout engine itself never
// reads the display attributes.
package site

import (
	"slices"
	"strings"
)

// Site is one member of the web ring.
type Site struct {
	Name  string `json:"name" toml:"name" bson:"name"`
	Link  string `json:"link" toml:"link" bson:"link"`
	Group string `json:"group,omitempty" toml:"group,omitempty" bson:"group,omitempty"`
	Year  int    `json:"year,omitempty" toml:"year,omitempty" bson:"year,omitempty"`
}

// SortKey selects the attribute used to order sites around the ring.
type SortKey string

// Supported sort keys.
const (
	SortName  SortKey = "name"
	SortGroup SortKey = "group"
	SortYear  SortKey = "year"
)

// ValidSortKeys is the set of supported sort keys.
var ValidSortKeys = map[SortKey]bool{
	SortName:  true,
	SortGroup: true,
	SortYear:  true,
}

// Sort orders sites in place by the given key. String keys compare
// case-insensitively; ties fall back to name so the order is total.
// When desc is true the order is reversed.
func Sort(sites []Site, key SortKey, desc bool) {
	slices.SortStableFunc(sites, func(a, b Site) int {
		c := compare(a, b, key)
		if desc {
			return -c
		}
		return c
	})
}

func compare(a, b Site, key SortKey) int {
	switch key {
	case SortGroup:
		if c := strings.Compare(strings.ToLower(a.Group), strings.ToLower(b.Group)); c != 0 {
			return c
		}
	case SortYear:
		if a.Year != b.Year {
			if a.Year < b.Year {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}
