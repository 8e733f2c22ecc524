// Package dataset loads the semicolon separated tables and the column
// catalog a report is built from. Files are opened and closed within one
// call; nothing is cached.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bjaus/reta"
	"github.com/bjaus/reta/columns"
)

// Sentinel errors for programmatic error handling.
var (
	ErrSource = errors.New("cannot read source")
)

// Comma separates the fields of every table file.
const Comma = ';'

// Load reads the table at path. The first record is the header.
func Load(path string) (reta.Table, error) {
	var t reta.Table
	err := withFile(path, func(r io.Reader) error {
		var err error
		t, err = Read(r)
		return err
	})
	return t, err
}

// Read parses a table. Records may have different lengths; short rows are
// padded with empty cells.
func Read(r io.Reader) (reta.Table, error) {
	rs := csv.NewReader(r)
	rs.Comma = Comma
	rs.LazyQuotes = true
	rs.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := rs.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return reta.Table{}, fmt.Errorf("%w: %w", ErrSource, err)
		}
		records = append(records, rec)
	}
	return reta.NewTable(records), nil
}

// LoadCatalog reads the YAML column catalog at path.
func LoadCatalog(path string) (*columns.Catalog, error) {
	var c *columns.Catalog
	err := withFile(path, func(r io.Reader) error {
		var err error
		c, err = columns.LoadCatalog(r)
		return err
	})
	return c, err
}

func withFile(path string, fn func(io.Reader) error) error {
	r, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSource, err)
	}
	defer r.Close()

	if err := fn(r); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
