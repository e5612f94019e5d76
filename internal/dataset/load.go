package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// LoadOptions controls how a survey file is read.
type LoadOptions struct {
	// Encoding of delimited text files: latin1 (default), windows-1252 or utf-8.
	Encoding string
	// Delimiter for text files. If 0, ',' is used (or '\t' for .tsv).
	Delimiter rune
}

// DefaultLoadOptions matches the published survey export: comma separated, Latin-1.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Encoding: "latin1", Delimiter: ','}
}

// source reads the header and records of one file format.
type source interface {
	CanRead(path string) bool
	Read(path string, opt LoadOptions) (header []string, records [][]string, err error)
}

var sources []source

func register(s source) { sources = append(sources, s) }

func init() {
	register(textSource{})
	register(xlsxSource{})
}

// Load reads a survey file into a Table. The source is chosen by extension:
// delimited text (.csv, .tsv, .txt) or a workbook (.xlsx, first sheet).
func Load(path string, opt LoadOptions) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat survey file: %w", err)
	}
	for _, s := range sources {
		if !s.CanRead(path) {
			continue
		}
		header, records, err := s.Read(path, opt)
		if err != nil {
			return nil, err
		}
		t, err := build(path, header, records)
		if err != nil {
			return nil, err
		}
		slog.Debug("survey loaded", "path", path, "rows", t.Len(), "columns", len(t.Header))
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

type textSource struct{}

func (textSource) CanRead(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return true
	}
	return false
}

func (textSource) Read(path string, opt LoadOptions) ([]string, [][]string, error) {
	enc, name, err := lookupEncoding(opt.Encoding)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open survey file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(enc.NewDecoder().Reader(f))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = opt.Delimiter
	if r.Comma == 0 {
		r.Comma = sniffDelimiter(path)
	}
	validate := name == "utf-8"

	var header []string
	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		if validate {
			for _, c := range rec {
				if !utf8.ValidString(c) {
					line, _ := r.FieldPos(0)
					return nil, nil, &DecodeError{Path: path, Encoding: name, Line: line}
				}
			}
		}
		if header == nil {
			header = rec
			continue
		}
		records = append(records, rec)
	}
	return header, records, nil
}

type xlsxSource struct{}

func (xlsxSource) CanRead(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

func (xlsxSource) Read(path string, _ LoadOptions) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open survey file: %w", err)
	}
	defer f.Close()
	return ReadXLSX(f)
}

// lookupEncoding maps a configured encoding name to a decoder. The canonical
// name is returned for error messages.
func lookupEncoding(name string) (encoding.Encoding, string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, "latin1", nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, "windows-1252", nil
	case "utf-8", "utf8":
		// passed through untouched so invalid bytes can be reported; the BOM
		// is stripped from the header by build
		return encoding.Nop, "utf-8", nil
	default:
		return nil, "", fmt.Errorf("unsupported encoding %q (use latin1, windows-1252 or utf-8)", name)
	}
}

func sniffDelimiter(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

// build validates the header and parses every record into a Row.
func build(path string, header []string, records [][]string) (*Table, error) {
	hdr := make([]string, len(header))
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		hdr[i] = h
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Path: path, Missing: missing}
	}

	t := &Table{Name: filepath.Base(path), Header: hdr, Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		if blank(rec) {
			continue
		}
		cells := make([]string, len(hdr))
		copy(cells, rec)
		t.Rows = append(t.Rows, parseRow(cells, idx))
	}
	return t, nil
}

func parseRow(cells []string, idx map[string]int) Row {
	text := func(col string) string { return strings.TrimSpace(cells[idx[col]]) }
	row := Row{Cells: cells}
	row.Site = Site{
		SiteID:         text(ColSite),
		Name:           text(ColName),
		Municipality:   text(ColMunicipality),
		SpaceType:      text(ColSpaceType),
		ConnectionType: text(ColConnectionType),
		Notes:          text(ColNotes),
	}
	nums := []struct {
		col  string
		dst  *float64
		flag uint8
	}{
		{ColLatitude, &row.Site.Latitude, hasLatitude},
		{ColLongitude, &row.Site.Longitude, hasLongitude},
		{ColDownload, &row.Site.Download, hasDownload},
		{ColUpload, &row.Site.Upload, hasUpload},
		{ColRating, &row.Site.Rating, hasRating},
	}
	for _, n := range nums {
		if v, ok := ParseNumber(text(n.col)); ok {
			*n.dst = v
			row.present |= n.flag
		}
	}
	return row
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseNumber parses a numeric cell, accepting '.' or ',' as the decimal
// separator. When both appear, the last one is the decimal separator and the
// other is dropped as a thousands separator. A lone comma followed by exactly
// three digits ("1,234") may be either, so it is missing, as are empty cells
// and NaN.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	if raw == "" {
		return 0, false
	}
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0 && cpos > dpos:
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.Replace(raw, ",", ".", 1)
	case cpos >= 0 && dpos >= 0:
		raw = strings.ReplaceAll(raw, ",", "")
	case cpos >= 0:
		if ambiguousGroup(raw, cpos) {
			return 0, false
		}
		raw = strings.Replace(raw, ",", ".", 1)
	}
	raw = strings.ReplaceAll(raw, " ", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ambiguousGroup reports whether the only comma in s, at pos, reads equally
// well as a thousands separator: a non-zero integer part of one to three
// digits followed by exactly three digits.
func ambiguousGroup(s string, pos int) bool {
	if strings.Count(s, ",") != 1 {
		return false
	}
	intPart := strings.TrimPrefix(s[:pos], "-")
	frac := s[pos+1:]
	if len(frac) != 3 || len(intPart) == 0 || len(intPart) > 3 || intPart[0] == '0' {
		return false
	}
	return allDigits(intPart) && allDigits(frac)
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
