package summary

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/conectividad/internal/dataset"
	"github.com/KaramelBytes/conectividad/internal/markers"
	"github.com/KaramelBytes/conectividad/internal/report"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func fmt2(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

// Markdown renders the summary as a compact markdown section.
func Markdown(rows []Row) string {
	var b strings.Builder
	b.WriteString("## Resumen por municipio\n\n")
	if len(rows) == 0 {
		b.WriteString("_Sin sitios para los filtros seleccionados._\n")
		return b.String()
	}
	b.WriteString("| Municipio | Sitios | Bajada (Mbps) | Subida (Mbps) | Calificación |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, r := range rows {
		name := strings.ReplaceAll(r.Municipality, "|", "/")
		if name == "" {
			name = "(sin municipio)"
		}
		b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s |\n", name, r.Sites, fmt2(r.Download), fmt2(r.Upload), fmt2(r.Rating)))
	}
	return b.String()
}

// WriteTable prints the summary as an aligned terminal table, coloring the
// mean rating with the rating-layer colors of p.
func WriteTable(w io.Writer, rows []Row, p markers.Policy) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "  Sin sitios para los filtros seleccionados.")
		return err
	}
	ratingColor := func(v string) string {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return v
		}
		st, _ := markers.Classify(dataset.Site{Rating: f}, markers.LayerRating, p)
		return report.ColorByName(st.Color, v)
	}
	tbl := report.NewTable(
		report.Column{Header: "Municipio"},
		report.Column{Header: "Sitios", Align: report.AlignRight},
		report.Column{Header: "Bajada", Align: report.AlignRight},
		report.Column{Header: "Subida", Align: report.AlignRight},
		report.Column{Header: "Calificación", Align: report.AlignRight, Color: ratingColor},
	)
	for _, r := range rows {
		tbl.AddRow(r.Municipality, strconv.Itoa(r.Sites), fmt2(r.Download), fmt2(r.Upload), fmt2(r.Rating))
	}
	return tbl.Render(w)
}

// Chart writes a PNG grouped bar chart of mean download and upload per
// municipality. An empty summary yields a chart with axes only.
func Chart(w io.Writer, rows []Row) error {
	p := plot.New()
	p.Title.Text = "Velocidad promedio por municipio"
	p.Y.Label.Text = "Mbps"
	p.Y.Min = 0

	if len(rows) > 0 {
		down := make(plotter.Values, len(rows))
		up := make(plotter.Values, len(rows))
		names := make([]string, len(rows))
		for i, r := range rows {
			down[i], up[i], names[i] = r.Download, r.Upload, r.Municipality
		}
		width := vg.Points(14)
		downBars, err := plotter.NewBarChart(down, width)
		if err != nil {
			return fmt.Errorf("chart download bars: %w", err)
		}
		downBars.Color = color.RGBA{R: 37, G: 99, B: 235, A: 255}
		downBars.Offset = -width / 2
		upBars, err := plotter.NewBarChart(up, width)
		if err != nil {
			return fmt.Errorf("chart upload bars: %w", err)
		}
		upBars.Color = color.RGBA{R: 128, G: 0, B: 128, A: 255}
		upBars.Offset = width / 2

		p.Add(downBars, upBars)
		p.Legend.Add("Bajada", downBars)
		p.Legend.Add("Subida", upBars)
		p.Legend.Top = true
		p.NominalX(names...)
	}

	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("chart canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
