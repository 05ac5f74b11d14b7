// Package census loads the population density and age/sex tables, reshapes
// them into the immutable Dataset, and answers the per-chart filter and
// aggregate queries the dashboard issues.
package census

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/banshee-data/census.report/internal/fsutil"
	"github.com/banshee-data/census.report/internal/monitoring"
)

// ErrFileNotFound is wrapped by LoadRaw when an input file is absent.
var ErrFileNotFound = errors.New("census input file not found")

// ParseError reports a malformed CSV input, such as a row whose column
// count differs from the header.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RawTable is a CSV file as read, with its original column headers.
type RawTable struct {
	Path   string
	Header []string
	Rows   [][]string
}

// Column returns the index of the named header.
func (t *RawTable) Column(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// RawTables holds both inputs before preprocessing.
type RawTables struct {
	Density   *RawTable
	AgeGender *RawTable
}

// LoadRaw reads the density and age/gender CSV files.
func LoadRaw(fsys fsutil.FileSystem, densityPath, ageGenderPath string) (*RawTables, error) {
	density, err := ReadCSV(fsys, densityPath)
	if err != nil {
		return nil, err
	}
	ageGender, err := ReadCSV(fsys, ageGenderPath)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("loaded %s (%d rows) and %s (%d rows)",
		densityPath, len(density.Rows), ageGenderPath, len(ageGender.Rows))
	return &RawTables{Density: density, AgeGender: ageGender}, nil
}

// ReadCSV reads a single headed CSV file. Every row must have as many fields
// as the header.
func ReadCSV(fsys fsutil.FileSystem, path string) (*RawTable, error) {
	f, err := fsys.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrFileNotFound, path, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return parseCSV(f, path)
}

func parseCSV(r io.Reader, path string) (*RawTable, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Path: path, Err: errors.New("empty file, no header row")}
	}
	if err != nil {
		return nil, wrapCSVError(path, err)
	}
	// Spreadsheet exports often carry a UTF-8 byte order mark on the first header.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := &RawTable{Path: path, Header: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapCSVError(path, err)
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}

func wrapCSVError(path string, err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Path: path, Line: csvErr.Line, Err: csvErr.Err}
	}
	return &ParseError{Path: path, Err: err}
}
