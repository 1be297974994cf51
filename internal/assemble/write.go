package assemble

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// writeCSV writes rows as UTF-8 with a byte order mark so spreadsheet
// programs detect the encoding.
func writeCSV(w io.Writer, rows [][]string) error {
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bom)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := bom.Close(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteResults writes the transposed results table.
func (d *Document) WriteResults(w io.Writer) error {
	return writeCSV(w, d.ResultsTable())
}

// WriteAmbiguity writes the ambiguity report with its header.
func (d *Document) WriteAmbiguity(w io.Writer) error {
	rows := make([][]string, 0, len(d.Ambiguities)+1)
	rows = append(rows, AmbiguityHeader)
	for _, a := range d.Ambiguities {
		rows = append(rows, a.Strings())
	}
	return writeCSV(w, rows)
}

// WriteSummary writes the summary as YAML.
func (d *Document) WriteSummary(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d.Summary()); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return enc.Close()
}

// WriteFile creates path (and its directory) and fills it with write.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return write(f)
}
