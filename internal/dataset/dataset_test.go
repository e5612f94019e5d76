package dataset

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

const surveyHeader = "Sitio,Nombre,Municipio,Tipo de espacio,Tipo de conexión,Latitud,Longitud,Bajada,Subida,Calificación,Observaciones"

var surveyRows = []string{
	"S-001,Plaza Principal,León,Plaza,Fibra,21.1221,-101.6827,40,20,8,Sin cortes",
	"S-002,Biblioteca Central,Silao,Biblioteca,Satelital,20.9436,-101.4270,-5,3,5,",
	`S-003,Jardín Unión,Guanajuato,Jardín,Fibra,21.0170,-101.2560,"12,5",6,7,"Lento, pero estable"`,
	"S-004,Parque Norte,León,Parque,Móvil,,-101.6800,10,5,6,Sin coordenadas",
	"S-005,Centro Cívico,Celaya,Plaza,Fibra,20.5230,-100.8150,15,-1,5,Subida no medida",
	"S-006,Auditorio,Irapuato,Auditorio,Fibra,20.6767,-101.3563,22,11,,Sin calificación",
}

// writeLatin1 writes lines to a file encoded as ISO-8859-1.
func writeLatin1(t *testing.T, name string, lines []string) string {
	t.Helper()
	enc, err := charmap.ISO8859_1.NewEncoder().String(strings.Join(lines, "\n") + "\n")
	if err != nil {
		t.Fatalf("encode latin1: %v", err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(enc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func loadFixture(t *testing.T) *Table {
	t.Helper()
	path := writeLatin1(t, "sitios.csv", append([]string{surveyHeader}, surveyRows...))
	tbl, err := Load(path, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tbl
}

func TestLoadDecodesLatin1(t *testing.T) {
	tbl := loadFixture(t)
	if tbl.Len() != len(surveyRows) {
		t.Fatalf("rows = %d, want %d", tbl.Len(), len(surveyRows))
	}
	if tbl.Header[4] != ColConnectionType || tbl.Header[9] != ColRating {
		t.Fatalf("header not decoded: %q", tbl.Header)
	}
	s := tbl.Rows[0].Site
	if s.Municipality != "León" || s.Download != 40 || s.Upload != 20 || s.Rating != 8 {
		t.Errorf("unexpected first site: %+v", s)
	}
	if got := tbl.Rows[2].Site.Download; got != 12.5 {
		t.Errorf("decimal comma download = %v, want 12.5", got)
	}
	if got := tbl.Rows[2].Site.Notes; got != "Lento, pero estable" {
		t.Errorf("quoted notes = %q", got)
	}
	if tbl.Rows[3].Complete() {
		t.Errorf("row without latitude reported complete")
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), DefaultLoadOptions())
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
	t.Run("missing columns", func(t *testing.T) {
		path := writeLatin1(t, "bad.csv", []string{"Sitio,Nombre,Municipio", "S-1,X,León"})
		_, err := Load(path, DefaultLoadOptions())
		var mc *MissingColumnsError
		if !errors.As(err, &mc) {
			t.Fatalf("err = %v, want MissingColumnsError", err)
		}
		if len(mc.Missing) != 8 {
			t.Errorf("missing = %v", mc.Missing)
		}
	})
	t.Run("latin1 bytes read as utf-8", func(t *testing.T) {
		path := writeLatin1(t, "latin.csv", append([]string{surveyHeader}, surveyRows...))
		opt := DefaultLoadOptions()
		opt.Encoding = "utf-8"
		_, err := Load(path, opt)
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("err = %v, want DecodeError", err)
		}
		if de.Line != 1 {
			t.Errorf("line = %d, want 1", de.Line)
		}
	})
	t.Run("malformed quoting", func(t *testing.T) {
		path := writeLatin1(t, "roto.csv", []string{
			surveyHeader,
			`S-1,Plaza,León,Plaza,Fibra,21.12,-101.68,40,20,8,"sin cierre`,
			"S-2,Biblioteca,Silao,Biblioteca,Fibra,20.94,-101.42,10,5,5,",
			"S-3,Jardín,Celaya,Jardín,Fibra,20.52,-100.81,12,6,7,",
		})
		tbl, err := Load(path, DefaultLoadOptions())
		var pe *csv.ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("err = %v (rows %d), want csv.ParseError", err, tbl.Len())
		}
	})
	t.Run("unknown encoding", func(t *testing.T) {
		path := writeLatin1(t, "x.csv", []string{surveyHeader})
		if _, err := Load(path, LoadOptions{Encoding: "ebcdic"}); err == nil {
			t.Fatal("expected error for unknown encoding")
		}
	})
	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "x.json")
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path, DefaultLoadOptions()); !errors.Is(err, ErrUnsupported) {
			t.Fatalf("err = %v, want ErrUnsupported", err)
		}
	})
}

func TestCleanKeepsOnlyCompleteMeasuredRows(t *testing.T) {
	tbl := loadFixture(t)
	clean := Clean(tbl)
	want := []string{"S-001", "S-003"}
	if clean.Len() != len(want) {
		t.Fatalf("clean rows = %d, want %d", clean.Len(), len(want))
	}
	for i, id := range want {
		if got := clean.Rows[i].Site.SiteID; got != id {
			t.Errorf("row %d = %s, want %s", i, got, id)
		}
	}
	for _, r := range clean.Rows {
		if !r.Complete() || r.Site.Download <= -1 || r.Site.Upload <= -1 {
			t.Errorf("invalid row survived cleaning: %+v", r.Site)
		}
	}
	if tbl.Len() != len(surveyRows) {
		t.Errorf("Clean mutated its input")
	}
}

func TestDeriveOptionsUsesLoadedTable(t *testing.T) {
	opt := DeriveOptions(loadFixture(t))
	wantMuni := []string{"Celaya", "Guanajuato", "Irapuato", "León", "Silao"}
	if strings.Join(opt.Municipalities, "|") != strings.Join(wantMuni, "|") {
		t.Errorf("municipalities = %v, want %v", opt.Municipalities, wantMuni)
	}
	wantRatings := []float64{5, 6, 7, 8}
	if len(opt.Ratings) != len(wantRatings) {
		t.Fatalf("ratings = %v, want %v", opt.Ratings, wantRatings)
	}
	for i := range wantRatings {
		if opt.Ratings[i] != wantRatings[i] {
			t.Errorf("ratings[%d] = %v, want %v", i, opt.Ratings[i], wantRatings[i])
		}
	}
	if len(opt.SpaceTypes) != 5 {
		t.Errorf("space types = %v", opt.SpaceTypes)
	}
}

func TestLoadXLSXSource(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	header := strings.Split(surveyHeader, ",")
	hdr := make([]interface{}, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		t.Fatal(err)
	}
	row := []interface{}{"S-010", "Kiosco", "Salamanca", "Plaza", "Fibra", 20.57, -101.19, 33.5, 12, 9}
	if err := f.SetSheetRow(sheet, "A2", &row); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "sitios.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	tbl, err := Load(path, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load xlsx: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("rows = %d, want 1", tbl.Len())
	}
	s := tbl.Rows[0].Site
	if s.Municipality != "Salamanca" || s.Download != 33.5 || s.Rating != 9 || s.Notes != "" {
		t.Errorf("unexpected site: %+v", s)
	}
	if !tbl.Rows[0].Complete() {
		t.Errorf("xlsx row should be complete")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.5", 12.5, true},
		{"12,5", 12.5, true},
		{"1.234,5", 1234.5, true},
		{"1,234.5", 1234.5, true},
		{"1,234", 0, false},
		{"-12,345", 0, false},
		{"0,125", 0.125, true},
		{"1234,567", 1234.567, true},
		{"12,50", 12.5, true},
		{"-1", -1, true},
		{" 7 ", 7, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"n/a", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
