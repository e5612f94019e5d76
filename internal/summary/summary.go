// Package summary aggregates survey rows per municipality.
package summary

import (
	"math"
	"sort"

	"github.com/KaramelBytes/conectividad/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// Row is the per-municipality mean of the speed and rating columns.
type Row struct {
	Municipality string  `json:"municipality"`
	Sites        int     `json:"sites"`
	Download     float64 `json:"download_mbps"`
	Upload       float64 `json:"upload_mbps"`
	Rating       float64 `json:"rating"`
}

// Summarize groups t by municipality and averages download, upload and rating,
// rounded to two decimals. Groups are ordered by municipality name; a
// municipality without rows does not appear.
func Summarize(t *dataset.Table) []Row {
	type acc struct{ down, up, rating []float64 }
	groups := map[string]*acc{}
	if t != nil {
		for _, r := range t.Rows {
			g, ok := groups[r.Site.Municipality]
			if !ok {
				g = &acc{}
				groups[r.Site.Municipality] = g
			}
			g.down = append(g.down, r.Site.Download)
			g.up = append(g.up, r.Site.Upload)
			g.rating = append(g.rating, r.Site.Rating)
		}
	}
	out := make([]Row, 0, len(groups))
	for name, g := range groups {
		out = append(out, Row{
			Municipality: name,
			Sites:        len(g.down),
			Download:     Round2(stat.Mean(g.down, nil)),
			Upload:       Round2(stat.Mean(g.up, nil)),
			Rating:       Round2(stat.Mean(g.rating, nil)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Municipality < out[j].Municipality })
	return out
}

// Round2 rounds to two decimals, halves away from zero.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Shade maps each value of a column to [0,1] relative to the column's min and
// max, for background gradients. Columns are download, upload, rating.
func Shade(rows []Row) [][3]float64 {
	out := make([][3]float64, len(rows))
	if len(rows) == 0 {
		return out
	}
	pick := [3]func(Row) float64{
		func(r Row) float64 { return r.Download },
		func(r Row) float64 { return r.Upload },
		func(r Row) float64 { return r.Rating },
	}
	for c, get := range pick {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, r := range rows {
			lo = math.Min(lo, get(r))
			hi = math.Max(hi, get(r))
		}
		for i, r := range rows {
			if hi > lo {
				out[i][c] = (get(r) - lo) / (hi - lo)
			}
		}
	}
	return out
}
