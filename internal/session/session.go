// Package session keeps per-user filter state over the shared, immutable
// survey data and recomputes the dashboard views from it.
package session

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/KaramelBytes/conectividad/internal/dataset"
	"github.com/KaramelBytes/conectividad/internal/export"
	"github.com/KaramelBytes/conectividad/internal/filter"
	"github.com/KaramelBytes/conectividad/internal/markers"
	"github.com/KaramelBytes/conectividad/internal/summary"
)

// Dataset is the cleaned survey plus the filter options derived at load time.
// It is never modified after NewDataset returns.
type Dataset struct {
	Name    string
	Loaded  int
	Table   *dataset.Table
	Options dataset.Options
}

// NewDataset derives the filter options from the loaded table and then
// cleans it.
func NewDataset(loaded *dataset.Table) *Dataset {
	return &Dataset{
		Name:    loaded.Name,
		Loaded:  loaded.Len(),
		Options: dataset.DeriveOptions(loaded),
		Table:   dataset.Clean(loaded),
	}
}

// Settings are the rendering values shared by every session.
type Settings struct {
	Policy markers.Policy
	Map    markers.MapSettings
}

// Session is one user's selection and layer.
type Session struct {
	ID        string
	CreatedAt time.Time

	data     *Dataset
	settings Settings

	mu        sync.Mutex
	selection filter.Selection
	layer     markers.Layer
}

func newSession(id string, data *Dataset, settings Settings) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		data:      data,
		settings:  settings,
		selection: filter.All(data.Options),
		layer:     markers.LayerRating,
	}
}

// Change updates a session. Nil slices and an empty layer keep the current
// value; an empty, non-nil slice selects nothing in that dimension.
type Change struct {
	Municipalities []string  `json:"municipalities"`
	SpaceTypes     []string  `json:"space_types"`
	Ratings        []float64 `json:"ratings"`
	Layer          string    `json:"layer"`
}

// Export describes the download available for the current selection.
type Export struct {
	FileName string `json:"file_name"`
	Rows     int    `json:"rows"`
}

// Snapshot is the recomputed dashboard state for a session.
type Snapshot struct {
	ID        string           `json:"id"`
	Selection filter.Selection `json:"selection"`
	Layer     markers.Layer    `json:"layer"`
	Total     int              `json:"total"`
	Count     int              `json:"count"`
	Map       *markers.MapView `json:"map"`
	Summary   []summary.Row    `json:"summary"`
	Shade     [][3]float64     `json:"summary_shade"`
	Export    Export           `json:"export"`
}

// Apply validates c and updates the session. An unknown layer is rejected
// and leaves the session unchanged.
func (s *Session) Apply(c Change) (*Snapshot, error) {
	var layer markers.Layer
	if c.Layer != "" {
		l, err := markers.ParseLayer(c.Layer)
		if err != nil {
			return nil, err
		}
		layer = l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Municipalities != nil {
		s.selection.Municipalities = c.Municipalities
	}
	if c.SpaceTypes != nil {
		s.selection.SpaceTypes = c.SpaceTypes
	}
	if c.Ratings != nil {
		s.selection.Ratings = c.Ratings
	}
	s.selection = s.selection.Normalize()
	if layer != "" {
		s.layer = layer
	}
	return s.snapshotLocked()
}

// Snapshot recomputes the filtered table, map, summary and export state.
func (s *Session) Snapshot() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() (*Snapshot, error) {
	filtered := filter.Apply(s.data.Table, s.selection)
	view, err := markers.Render(filtered, s.layer, s.settings.Policy, s.settings.Map)
	if err != nil {
		return nil, fmt.Errorf("render map: %w", err)
	}
	rows := summary.Summarize(filtered)
	return &Snapshot{
		ID:        s.ID,
		Selection: s.selection,
		Layer:     s.layer,
		Total:     s.data.Table.Len(),
		Count:     filtered.Len(),
		Map:       view,
		Summary:   rows,
		Shade:     summary.Shade(rows),
		Export:    Export{FileName: export.FileName, Rows: filtered.Len()},
	}, nil
}

// Filtered returns the rows matching the current selection.
func (s *Session) Filtered() *dataset.Table {
	s.mu.Lock()
	sel := s.selection
	s.mu.Unlock()
	return filter.Apply(s.data.Table, sel)
}

// ExportXLSX serializes the current filtered rows. The result is not cached.
func (s *Session) ExportXLSX() ([]byte, error) {
	return export.XLSX(s.Filtered())
}

// Chart writes the summary chart of the current filtered rows.
func (s *Session) Chart(w io.Writer) error {
	return summary.Chart(w, summary.Summarize(s.Filtered()))
}
