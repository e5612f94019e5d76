package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates the survey file does not exist.
var ErrNotFound = errors.New("survey file not found")

// ErrUnsupported indicates a file extension no source can read.
var ErrUnsupported = errors.New("unsupported survey file format")

// MissingColumnsError indicates the header lacks required survey columns.
type MissingColumnsError struct {
	Path    string
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// DecodeError indicates the file bytes are invalid for the configured encoding.
type DecodeError struct {
	Path     string
	Encoding string
	Line     int
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d is not valid %s text", e.Path, e.Line, e.Encoding)
	}
	return fmt.Sprintf("%s: not valid %s text", e.Path, e.Encoding)
}
