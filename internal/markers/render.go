package markers

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/KaramelBytes/conectividad/internal/dataset"
)

// MapSettings positions the base map.
type MapSettings struct {
	CenterLat     float64
	CenterLon     float64
	Zoom          int
	Tiles         string
	Width         int
	Height        int
	PopupMaxWidth int
}

// DefaultMapSettings centers the map between León and Celaya.
func DefaultMapSettings() MapSettings {
	return MapSettings{
		CenterLat:     20.866064,
		CenterLon:     -101.176864,
		Zoom:          9,
		Tiles:         "cartodb-positron",
		Width:         950,
		Height:        520,
		PopupMaxWidth: 300,
	}
}

// TileLayer is a tile URL template with its attribution.
type TileLayer struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

var tilePresets = map[string]TileLayer{
	"cartodb-positron": {
		URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
	},
	"openstreetmap": {
		URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
	},
}

// ResolveTiles maps a preset name to its tile layer. Unknown names are taken
// as a literal URL template.
func ResolveTiles(name string) TileLayer {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
	if tl, ok := tilePresets[key]; ok {
		return tl
	}
	if strings.Contains(name, "{z}") {
		return TileLayer{URL: name}
	}
	return tilePresets["cartodb-positron"]
}

// Marker is one circle marker handed to the map library.
type Marker struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Radius      float64 `json:"radius"`
	Color       string  `json:"color"`
	FillColor   string  `json:"fill_color"`
	FillOpacity float64 `json:"fill_opacity"`
	Popup       string  `json:"popup"`
}

// MapView is everything the map library needs to draw the filtered sites.
type MapView struct {
	CenterLat     float64       `json:"center_lat"`
	CenterLon     float64       `json:"center_lon"`
	Zoom          int           `json:"zoom"`
	Tiles         TileLayer     `json:"tiles"`
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	PopupMaxWidth int           `json:"popup_max_width"`
	Layer         Layer         `json:"layer"`
	Legend        []LegendEntry `json:"legend"`
	Markers       []Marker      `json:"markers"`
}

// Render builds one marker per row of t. An empty table yields a map with no
// markers.
func Render(t *dataset.Table, layer Layer, p Policy, ms MapSettings) (*MapView, error) {
	view := &MapView{
		CenterLat:     ms.CenterLat,
		CenterLon:     ms.CenterLon,
		Zoom:          ms.Zoom,
		Tiles:         ResolveTiles(ms.Tiles),
		Width:         ms.Width,
		Height:        ms.Height,
		PopupMaxWidth: ms.PopupMaxWidth,
		Layer:         layer,
		Legend:        Legend(layer, p),
		Markers:       make([]Marker, 0, t.Len()),
	}
	if t == nil {
		return view, nil
	}
	for _, r := range t.Rows {
		st, err := Classify(r.Site, layer, p)
		if err != nil {
			return nil, err
		}
		popup, err := Popup(r.Site)
		if err != nil {
			return nil, err
		}
		view.Markers = append(view.Markers, Marker{
			Lat:         r.Site.Latitude,
			Lon:         r.Site.Longitude,
			Radius:      st.Radius,
			Color:       st.Color,
			FillColor:   st.Color,
			FillOpacity: p.FillOpacity,
			Popup:       popup,
		})
	}
	return view, nil
}

var popupTmpl = template.Must(template.New("popup").Funcs(template.FuncMap{
	"num": dataset.FormatNumber,
}).Parse(`<b>{{.SiteID}}</b><br>
<b>{{.Name}}</b><br>
<b>Municipio:</b> {{.Municipality}}<br>
<b>Tipo de espacio:</b> {{.SpaceType}}<br>
<b>Tipo de conexión:</b> {{.ConnectionType}}<br>
<b>Calificación:</b> {{num .Rating}}<br>
<b>Bajada:</b> {{num .Download}} Mbps<br>
<b>Subida:</b> {{num .Upload}} Mbps<br>
<b>Observaciones:</b> {{.Notes}}`))

// Popup renders the escaped HTML popup for a site.
func Popup(s dataset.Site) (string, error) {
	var b bytes.Buffer
	if err := popupTmpl.Execute(&b, s); err != nil {
		return "", fmt.Errorf("render popup for %s: %w", s.SiteID, err)
	}
	return b.String(), nil
}
