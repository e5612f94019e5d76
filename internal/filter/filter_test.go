package filter

import (
	"testing"

	"github.com/KaramelBytes/conectividad/internal/dataset"
)

func sampleTable() *dataset.Table {
	return dataset.FromSites("sample",
		dataset.Site{SiteID: "1", Municipality: "León", SpaceType: "Plaza", Rating: 8, Download: 40, Upload: 20},
		dataset.Site{SiteID: "2", Municipality: "León", SpaceType: "Parque", Rating: 5, Download: 10, Upload: 4},
		dataset.Site{SiteID: "3", Municipality: "Silao", SpaceType: "Plaza", Rating: 7, Download: 25, Upload: 9},
		dataset.Site{SiteID: "4", Municipality: "Celaya", SpaceType: "Biblioteca", Rating: 2, Download: 3, Upload: 1},
		dataset.Site{SiteID: "5", Municipality: "Silao", SpaceType: "Parque", Rating: 5, Download: 8, Upload: 2},
	)
}

func ids(t *dataset.Table) []string {
	out := make([]string, 0, t.Len())
	for _, r := range t.Rows {
		out = append(out, r.Site.SiteID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApplyAllIsIdentity(t *testing.T) {
	tbl := sampleTable()
	got := Apply(tbl, All(dataset.DeriveOptions(tbl)))
	if !equal(ids(got), ids(tbl)) {
		t.Fatalf("Apply(All) = %v, want %v", ids(got), ids(tbl))
	}
}

func TestApplyMatchesAllDimensions(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{
			name: "one municipality",
			sel:  Selection{Municipalities: []string{"Silao"}, SpaceTypes: []string{"Plaza", "Parque", "Biblioteca"}, Ratings: []float64{2, 5, 7, 8}},
			want: []string{"3", "5"},
		},
		{
			name: "and across dimensions",
			sel:  Selection{Municipalities: []string{"León", "Silao"}, SpaceTypes: []string{"Parque"}, Ratings: []float64{5}},
			want: []string{"2", "5"},
		},
		{
			name: "unknown value",
			sel:  Selection{Municipalities: []string{"Salamanca"}, SpaceTypes: []string{"Plaza"}, Ratings: []float64{8}},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sampleTable(), tt.sel)
			if !equal(ids(got), tt.want) {
				t.Errorf("Apply = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestApplyEmptyDimensionYieldsEmpty(t *testing.T) {
	tbl := sampleTable()
	all := All(dataset.DeriveOptions(tbl))
	cases := map[string]Selection{
		"municipalities": {SpaceTypes: all.SpaceTypes, Ratings: all.Ratings},
		"space types":    {Municipalities: all.Municipalities, Ratings: all.Ratings},
		"ratings":        {Municipalities: all.Municipalities, SpaceTypes: all.SpaceTypes},
	}
	for name, sel := range cases {
		if got := Apply(tbl, sel); got.Len() != 0 {
			t.Errorf("empty %s: got %d rows, want 0", name, got.Len())
		}
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	tbl := sampleTable()
	sel := Selection{Municipalities: []string{"León", "Celaya"}, SpaceTypes: []string{"Plaza", "Biblioteca"}, Ratings: []float64{2, 8}}
	once := Apply(tbl, sel)
	twice := Apply(once, sel)
	if !equal(ids(once), ids(twice)) {
		t.Fatalf("not idempotent: %v vs %v", ids(once), ids(twice))
	}
	wider := Apply(once, All(dataset.DeriveOptions(tbl)))
	if !equal(ids(once), ids(wider)) {
		t.Fatalf("superset selection changed result: %v vs %v", ids(once), ids(wider))
	}
	if tbl.Len() != 5 {
		t.Errorf("Apply mutated input")
	}
}

func TestNormalize(t *testing.T) {
	s := Selection{Municipalities: []string{"Silao", "León", "Silao"}, Ratings: []float64{7, 5, 7}}.Normalize()
	if !equal(s.Municipalities, []string{"León", "Silao"}) {
		t.Errorf("municipalities = %v", s.Municipalities)
	}
	if len(s.Ratings) != 2 || s.Ratings[0] != 5 || s.Ratings[1] != 7 {
		t.Errorf("ratings = %v", s.Ratings)
	}
	if s.SpaceTypes == nil || len(s.SpaceTypes) != 0 {
		t.Errorf("space types = %#v, want empty non-nil", s.SpaceTypes)
	}
}
