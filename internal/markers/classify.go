// Package markers turns survey rows into styled map markers.
package markers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/conectividad/internal/dataset"
)

// Layer is the attribute driving marker color and size.
type Layer string

const (
	LayerRating   Layer = "rating"
	LayerDownload Layer = "download"
	LayerUpload   Layer = "upload"
)

// Layers lists the selectable layers in display order.
var Layers = []Layer{LayerRating, LayerDownload, LayerUpload}

// ErrUnknownLayer is returned for a layer outside Layers.
var ErrUnknownLayer = errors.New("unknown layer")

// Label is the user-facing name of the layer.
func (l Layer) Label() string {
	switch l {
	case LayerRating:
		return "Calificación"
	case LayerDownload:
		return "Velocidad de Bajada"
	case LayerUpload:
		return "Velocidad de Subida"
	}
	return string(l)
}

// ParseLayer accepts a layer id or its label, case-insensitively.
func ParseLayer(s string) (Layer, error) {
	v := strings.TrimSpace(s)
	for _, l := range Layers {
		if strings.EqualFold(v, string(l)) || strings.EqualFold(v, l.Label()) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w %q (use rating, download or upload)", ErrUnknownLayer, s)
}

// Marker colors.
const (
	Green  = "green"
	Orange = "orange"
	Red    = "red"
	Blue   = "blue"
	Purple = "purple"
)

// Policy holds the thresholds and sizes used to style markers.
type Policy struct {
	// GoodRating and above is green.
	GoodRating float64
	// FairRatings are orange; any other rating below GoodRating is red.
	FairRatings []float64
	// RatingRadius is the fixed radius on the rating layer.
	RatingRadius float64
	// SpeedDivisor scales Mbps to a radius on the speed layers.
	SpeedDivisor float64
	// MinRadius and MaxRadius bound speed radii when Clamp is set.
	MinRadius float64
	MaxRadius float64
	Clamp     bool
	// FillOpacity of every marker.
	FillOpacity float64
}

// DefaultPolicy is the canonical styling: green at 7+, orange at exactly 5,
// speed radius Mbps/4 clamped to [5, 15].
func DefaultPolicy() Policy {
	return Policy{
		GoodRating:   7,
		FairRatings:  []float64{5},
		RatingRadius: 7,
		SpeedDivisor: 4,
		MinRadius:    5,
		MaxRadius:    15,
		Clamp:        true,
		FillOpacity:  0.7,
	}
}

// Validate reports policy values that cannot produce a sensible marker.
func (p Policy) Validate() error {
	if p.SpeedDivisor <= 0 {
		return fmt.Errorf("marker speed divisor must be positive, got %v", p.SpeedDivisor)
	}
	if p.Clamp && p.MinRadius > p.MaxRadius {
		return fmt.Errorf("marker min radius %v exceeds max radius %v", p.MinRadius, p.MaxRadius)
	}
	if p.FillOpacity < 0 || p.FillOpacity > 1 {
		return fmt.Errorf("marker fill opacity must be within [0,1], got %v", p.FillOpacity)
	}
	return nil
}

// Style is the appearance of one marker.
type Style struct {
	Color  string  `json:"color"`
	Radius float64 `json:"radius"`
}

// Classify picks the color and radius for a site on the given layer.
func Classify(s dataset.Site, layer Layer, p Policy) (Style, error) {
	switch layer {
	case LayerRating:
		return Style{Color: p.ratingColor(s.Rating), Radius: p.RatingRadius}, nil
	case LayerDownload:
		return Style{Color: Blue, Radius: p.speedRadius(s.Download)}, nil
	case LayerUpload:
		return Style{Color: Purple, Radius: p.speedRadius(s.Upload)}, nil
	}
	return Style{}, fmt.Errorf("%w %q", ErrUnknownLayer, string(layer))
}

func (p Policy) ratingColor(r float64) string {
	if r >= p.GoodRating {
		return Green
	}
	for _, f := range p.FairRatings {
		if r == f {
			return Orange
		}
	}
	return Red
}

func (p Policy) speedRadius(mbps float64) float64 {
	r := mbps / p.SpeedDivisor
	if !p.Clamp {
		return r
	}
	if r < p.MinRadius {
		return p.MinRadius
	}
	if r > p.MaxRadius {
		return p.MaxRadius
	}
	return r
}

// LegendEntry describes one color key of a layer.
type LegendEntry struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

// Legend explains the colors used on a layer.
func Legend(layer Layer, p Policy) []LegendEntry {
	switch layer {
	case LayerRating:
		fair := make([]string, len(p.FairRatings))
		for i, f := range p.FairRatings {
			fair[i] = dataset.FormatNumber(f)
		}
		return []LegendEntry{
			{Color: Green, Label: "Calificación ≥ " + dataset.FormatNumber(p.GoodRating)},
			{Color: Orange, Label: "Calificación " + strings.Join(fair, ", ")},
			{Color: Red, Label: "Otras calificaciones"},
		}
	case LayerDownload:
		return []LegendEntry{{Color: Blue, Label: "Bajada (Mbps); tamaño proporcional"}}
	case LayerUpload:
		return []LegendEntry{{Color: Purple, Label: "Subida (Mbps); tamaño proporcional"}}
	}
	return nil
}
