package web

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/KaramelBytes/conectividad/internal/dataset"
	"github.com/KaramelBytes/conectividad/internal/markers"
	"github.com/KaramelBytes/conectividad/internal/rubric"
	"github.com/KaramelBytes/conectividad/internal/session"
)

//go:embed templates/dashboard.html
var dashboardHTML string

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"json": func(v any) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b) //nolint:gosec // json.Marshal escapes <, > and &
	},
	"num": dataset.FormatNumber,
}).Parse(dashboardHTML))

type layerOption struct {
	ID    markers.Layer
	Label string
}

type dashboardData struct {
	Title       string
	Options     dataset.Options
	Layers      []layerOption
	Snapshot    *session.Snapshot
	Rubric      []rubric.Entry
	RubricIntro string
	MaxScore    int
}

// handleIndex starts a fresh session and renders the dashboard around it.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	sess := s.store.Create()
	snap, err := sess.Snapshot()
	if err != nil {
		s.internalError(w, err)
		return
	}
	layers := make([]layerOption, 0, len(markers.Layers))
	for _, l := range markers.Layers {
		layers = append(layers, layerOption{ID: l, Label: l.Label()})
	}
	data := dashboardData{
		Title:       "Evaluación de Sitios Públicos con Conectividad",
		Options:     s.store.Dataset().Options,
		Layers:      layers,
		Snapshot:    snap,
		Rubric:      rubric.Entries(),
		RubricIntro: rubric.Intro,
		MaxScore:    rubric.MaxScore(),
	}
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		s.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
