// Package filter selects the survey rows matching the user's category choices.
package filter

import (
	"sort"

	"github.com/KaramelBytes/conectividad/internal/dataset"
)

// Selection holds the chosen values for each categorical dimension. Values
// within a dimension are OR-ed; dimensions are AND-ed. An empty dimension
// matches nothing.
type Selection struct {
	Municipalities []string  `json:"municipalities"`
	SpaceTypes     []string  `json:"space_types"`
	Ratings        []float64 `json:"ratings"`
}

// All selects every observed option, the default for a new session.
func All(opt dataset.Options) Selection {
	return Selection{
		Municipalities: append([]string{}, opt.Municipalities...),
		SpaceTypes:     append([]string{}, opt.SpaceTypes...),
		Ratings:        append([]float64{}, opt.Ratings...),
	}
}

// Normalize returns a copy with duplicates removed and values sorted.
func (s Selection) Normalize() Selection {
	return Selection{
		Municipalities: uniqStrings(s.Municipalities),
		SpaceTypes:     uniqStrings(s.SpaceTypes),
		Ratings:        uniqFloats(s.Ratings),
	}
}

// Apply returns the rows of t whose municipality, space type and rating are
// all selected. Row order is preserved and t is not modified.
func Apply(t *dataset.Table, sel Selection) *dataset.Table {
	if t == nil {
		return &dataset.Table{}
	}
	muni := stringSet(sel.Municipalities)
	space := stringSet(sel.SpaceTypes)
	rating := make(map[float64]struct{}, len(sel.Ratings))
	for _, v := range sel.Ratings {
		rating[v] = struct{}{}
	}

	rows := make([]dataset.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if _, ok := muni[r.Site.Municipality]; !ok {
			continue
		}
		if _, ok := space[r.Site.SpaceType]; !ok {
			continue
		}
		if _, ok := rating[r.Site.Rating]; !ok {
			continue
		}
		rows = append(rows, r)
	}
	return t.WithRows(rows)
}

func stringSet(vals []string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return m
}

func uniqStrings(vals []string) []string {
	out := make([]string, 0, len(vals))
	for v := range stringSet(vals) {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func uniqFloats(vals []float64) []float64 {
	seen := make(map[float64]struct{}, len(vals))
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}
