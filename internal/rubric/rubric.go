// Package rubric holds the fixed checklist used to score each site.
package rubric

import (
	"io"
	"strconv"

	"github.com/KaramelBytes/conectividad/internal/report"
)

// Entry is one evaluated criterion. Each passed test is worth Weight points.
type Entry struct {
	Criterion   string `json:"criterion"`
	Expectation string `json:"expectation"`
	Weight      int    `json:"weight"`
}

var entries = [...]Entry{
	{"Conexión fácil", "Que los dispositivos se puedan conectar de manera instantánea o con el menor esfuerzo", 1},
	{"Mensajero (Telegram o WhatsApp)", "Poder envíar mensaje", 1},
	{"FaceBook", "Poder ver de manera correcta las publicaciones y/o reels", 1},
	{"Youtube", "Visualizar los videos", 1},
	{"Google Maps", "Que muestre en tiempo real la ubicación actual", 1},
	{"Navegación en Chrome", "Poder navegar en diversas páginas web y que muestre el contenido", 1},
	{"Navegación constante", "Que no haya interrupciones o lentitud al momento de cargar la información", 1},
	{"Buen ancho de banda", "Que el ancho de banda supere los 14MB", 1},
}

// Intro explains how the rubric relates to a site's rating.
const Intro = "Se evaluaron 8 rubros clave mediante pruebas específicas. Cada prueba equivale a un punto. " +
	"El puntaje total refleja el número de pruebas superadas satisfactoriamente."

// Entries returns a copy of the rubric.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries[:])
	return out
}

// MaxScore is the sum of all weights.
func MaxScore() int {
	total := 0
	for _, e := range entries {
		total += e.Weight
	}
	return total
}

// WriteTable prints the rubric as an aligned terminal table.
func WriteTable(w io.Writer) error {
	tbl := report.NewTable(
		report.Column{Header: "Prueba o Aplicación"},
		report.Column{Header: "Lo que esperamos"},
		report.Column{Header: "Ponderación", Align: report.AlignRight},
	)
	for _, e := range entries {
		tbl.AddRow(e.Criterion, e.Expectation, strconv.Itoa(e.Weight))
	}
	return tbl.Render(w)
}
