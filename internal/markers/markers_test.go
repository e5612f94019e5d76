package markers

import (
	"errors"
	"strings"
	"testing"

	"github.com/KaramelBytes/conectividad/internal/dataset"
)

func TestClassifyRatingColors(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		rating float64
		want   string
	}{
		{8, Green},
		{7, Green},
		{6, Red},
		{5, Orange},
		{2, Red},
	}
	for _, tt := range tests {
		st, err := Classify(dataset.Site{Rating: tt.rating}, LayerRating, p)
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		if st.Color != tt.want {
			t.Errorf("rating %v: color = %s, want %s", tt.rating, st.Color, tt.want)
		}
		if st.Radius != 7 {
			t.Errorf("rating radius = %v, want 7", st.Radius)
		}
	}
}

func TestClassifyFairRatingsConfigurable(t *testing.T) {
	p := DefaultPolicy()
	p.FairRatings = []float64{5, 6}
	st, _ := Classify(dataset.Site{Rating: 6}, LayerRating, p)
	if st.Color != Orange {
		t.Errorf("rating 6 with fair [5,6]: color = %s, want orange", st.Color)
	}
}

func TestClassifySpeedRadius(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		mbps float64
		want float64
	}{
		{0, 5},
		{40, 10},
		{100, 15},
		{22, 5.5},
	}
	for _, tt := range tests {
		down, err := Classify(dataset.Site{Download: tt.mbps}, LayerDownload, p)
		if err != nil {
			t.Fatal(err)
		}
		if down.Color != Blue || down.Radius != tt.want {
			t.Errorf("download %v: got %+v, want blue/%v", tt.mbps, down, tt.want)
		}
		up, _ := Classify(dataset.Site{Upload: tt.mbps}, LayerUpload, p)
		if up.Color != Purple || up.Radius != tt.want {
			t.Errorf("upload %v: got %+v, want purple/%v", tt.mbps, up, tt.want)
		}
	}

	p.Clamp = false
	p.SpeedDivisor = 5
	st, _ := Classify(dataset.Site{Download: 100}, LayerDownload, p)
	if st.Radius != 20 {
		t.Errorf("unclamped radius = %v, want 20", st.Radius)
	}
}

func TestParseLayer(t *testing.T) {
	for in, want := range map[string]Layer{
		"rating":              LayerRating,
		"Download":            LayerDownload,
		"Velocidad de Subida": LayerUpload,
		"calificación":        LayerRating,
	} {
		got, err := ParseLayer(in)
		if err != nil || got != want {
			t.Errorf("ParseLayer(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseLayer("latency"); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("ParseLayer(latency) err = %v, want ErrUnknownLayer", err)
	}
	if _, err := Classify(dataset.Site{}, Layer("latency"), DefaultPolicy()); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("Classify unknown layer err = %v", err)
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}
	p := DefaultPolicy()
	p.SpeedDivisor = 0
	if p.Validate() == nil {
		t.Error("zero divisor accepted")
	}
	p = DefaultPolicy()
	p.MinRadius = 20
	if p.Validate() == nil {
		t.Error("min > max accepted")
	}
}

func TestRender(t *testing.T) {
	tbl := dataset.FromSites("t",
		dataset.Site{SiteID: "S-1", Name: "Plaza <Mayor>", Municipality: "León", SpaceType: "Plaza", ConnectionType: "Fibra",
			Latitude: 21.12, Longitude: -101.68, Download: 40, Upload: 12.5, Rating: 8, Notes: "ok & estable"},
		dataset.Site{SiteID: "S-2", Municipality: "Silao", Latitude: 20.94, Longitude: -101.42, Download: 2, Upload: 1, Rating: 5},
	)
	view, err := Render(tbl, LayerDownload, DefaultPolicy(), DefaultMapSettings())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(view.Markers) != 2 {
		t.Fatalf("markers = %d, want 2", len(view.Markers))
	}
	m := view.Markers[0]
	if m.Lat != 21.12 || m.Lon != -101.68 || m.Radius != 10 || m.Color != Blue || m.FillOpacity != 0.7 {
		t.Errorf("unexpected marker: %+v", m)
	}
	for _, want := range []string{"<b>S-1</b>", "Plaza &lt;Mayor&gt;", "<b>Bajada:</b> 40 Mbps", "<b>Subida:</b> 12.5 Mbps", "ok &amp; estable", "Tipo de conexión:</b> Fibra"} {
		if !strings.Contains(m.Popup, want) {
			t.Errorf("popup missing %q:\n%s", want, m.Popup)
		}
	}
	if view.Zoom != 9 || view.CenterLat != 20.866064 || !strings.Contains(view.Tiles.URL, "cartocdn") {
		t.Errorf("unexpected map settings: %+v", view)
	}
}

func TestRenderEmptyTable(t *testing.T) {
	view, err := Render(dataset.FromSites("empty"), LayerRating, DefaultPolicy(), DefaultMapSettings())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if view.Markers == nil || len(view.Markers) != 0 {
		t.Errorf("markers = %#v, want empty slice", view.Markers)
	}
	if len(view.Legend) != 3 {
		t.Errorf("legend = %v", view.Legend)
	}
}

func TestResolveTiles(t *testing.T) {
	if tl := ResolveTiles("CartoDB positron"); !strings.Contains(tl.URL, "light_all") {
		t.Errorf("CartoDB positron -> %q", tl.URL)
	}
	custom := "https://tiles.example/{z}/{x}/{y}.png"
	if tl := ResolveTiles(custom); tl.URL != custom {
		t.Errorf("custom template -> %q", tl.URL)
	}
}
