package dataset

import "strconv"

// Column names of the survey file. They are part of the external contract and
// must match the header exactly (after decoding).
const (
	ColSite           = "Sitio"
	ColName           = "Nombre"
	ColMunicipality   = "Municipio"
	ColSpaceType      = "Tipo de espacio"
	ColConnectionType = "Tipo de conexión"
	ColLatitude       = "Latitud"
	ColLongitude      = "Longitud"
	ColDownload       = "Bajada"
	ColUpload         = "Subida"
	ColRating         = "Calificación"
	ColNotes          = "Observaciones"
)

// RequiredColumns lists every column a survey file must carry.
var RequiredColumns = []string{
	ColSite, ColName, ColMunicipality, ColSpaceType, ColConnectionType,
	ColLatitude, ColLongitude, ColDownload, ColUpload, ColRating, ColNotes,
}

// NumericColumns are parsed as numbers; every other column stays text.
var NumericColumns = []string{ColLatitude, ColLongitude, ColDownload, ColUpload, ColRating}

// IsNumericColumn reports whether name is one of the numeric survey columns.
func IsNumericColumn(name string) bool {
	for _, c := range NumericColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Site is one surveyed public site.
type Site struct {
	SiteID         string  `json:"site_id"`
	Name           string  `json:"name"`
	Municipality   string  `json:"municipality"`
	SpaceType      string  `json:"space_type"`
	ConnectionType string  `json:"connection_type"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Download       float64 `json:"download_mbps"`
	Upload         float64 `json:"upload_mbps"`
	Rating         float64 `json:"rating"`
	Notes          string  `json:"notes"`
}

// field flags for the numeric values a row managed to parse
const (
	hasLatitude uint8 = 1 << iota
	hasLongitude
	hasDownload
	hasUpload
	hasRating

	hasRequired = hasLatitude | hasLongitude | hasDownload | hasUpload | hasRating
)

// Row is one record of a Table: the decoded cells as they appeared in the
// source (aligned with Table.Header) plus the parsed Site.
type Row struct {
	Cells []string
	Site  Site

	present uint8
}

// Complete reports whether latitude, longitude, download, upload and rating
// were all present and numeric.
func (r Row) Complete() bool { return r.present&hasRequired == hasRequired }

// HasRating reports whether the rating cell parsed as a number.
func (r Row) HasRating() bool { return r.present&hasRating != 0 }

// Table is an in-memory survey table. Rows are identified by position.
type Table struct {
	Name   string
	Header []string
	Rows   []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Sites returns the parsed sites in row order.
func (t *Table) Sites() []Site {
	if t == nil {
		return nil
	}
	out := make([]Site, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Site
	}
	return out
}

// WithRows returns a table that shares t's name and header but holds rows.
func (t *Table) WithRows(rows []Row) *Table {
	return &Table{Name: t.Name, Header: t.Header, Rows: rows}
}

// Options are the distinct, non-missing category values offered as filter
// choices. They are derived once from the loaded table and never re-derived
// from a filtered subset.
type Options struct {
	Municipalities []string  `json:"municipalities"`
	SpaceTypes     []string  `json:"space_types"`
	Ratings        []float64 `json:"ratings"`
}

// FromSites builds a table with the standard survey header from parsed
// sites. Every numeric field is treated as present.
func FromSites(name string, sites ...Site) *Table {
	t := &Table{Name: name, Header: append([]string{}, RequiredColumns...), Rows: make([]Row, len(sites))}
	for i, s := range sites {
		t.Rows[i] = Row{
			Cells: []string{
				s.SiteID, s.Name, s.Municipality, s.SpaceType, s.ConnectionType,
				FormatNumber(s.Latitude), FormatNumber(s.Longitude),
				FormatNumber(s.Download), FormatNumber(s.Upload), FormatNumber(s.Rating),
				s.Notes,
			},
			Site:    s,
			present: hasRequired,
		}
	}
	return t
}

// FormatNumber renders v with the fewest digits that round-trip.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
