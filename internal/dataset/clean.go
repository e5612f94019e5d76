package dataset

import (
	"log/slog"
	"sort"
)

// Sentinel is the value at or below which a speed means "not measured".
const Sentinel = -1

// Clean keeps the rows whose latitude, longitude, download, upload and rating
// are all present and whose speeds are above the sentinel. Row order is
// preserved and t is not modified.
func Clean(t *Table) *Table {
	if t == nil {
		return &Table{}
	}
	kept := make([]Row, 0, len(t.Rows))
	var incomplete, unmeasured int
	for _, r := range t.Rows {
		if !r.Complete() {
			incomplete++
			continue
		}
		if r.Site.Download <= Sentinel || r.Site.Upload <= Sentinel {
			unmeasured++
			continue
		}
		kept = append(kept, r)
	}
	slog.Debug("survey cleaned",
		"rows", len(t.Rows), "kept", len(kept),
		"dropped_incomplete", incomplete, "dropped_unmeasured", unmeasured)
	return t.WithRows(kept)
}

// DeriveOptions collects the distinct non-missing municipalities, space types
// and ratings of t, sorted ascending.
func DeriveOptions(t *Table) Options {
	muni := map[string]struct{}{}
	space := map[string]struct{}{}
	rating := map[float64]struct{}{}
	if t != nil {
		for _, r := range t.Rows {
			if r.Site.Municipality != "" {
				muni[r.Site.Municipality] = struct{}{}
			}
			if r.Site.SpaceType != "" {
				space[r.Site.SpaceType] = struct{}{}
			}
			if r.HasRating() {
				rating[r.Site.Rating] = struct{}{}
			}
		}
	}
	opt := Options{
		Municipalities: sortedKeys(muni),
		SpaceTypes:     sortedKeys(space),
		Ratings:        make([]float64, 0, len(rating)),
	}
	for v := range rating {
		opt.Ratings = append(opt.Ratings, v)
	}
	sort.Float64s(opt.Ratings)
	return opt
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
