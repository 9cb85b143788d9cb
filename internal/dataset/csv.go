package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadCSV reads a comma separated file with a header row.
func LoadCSV(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer file.Close()

	return readCSV(file, path)
}

func readCSV(r io.Reader, name string) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("dataset: file %s is empty", name)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: read header of %s: %w", name, err)
	}
	header = cleanHeader(header)

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read %s: %w", name, err)
		}
		rows = append(rows, zipRow(header, rec))
	}
	return rows, nil
}

// cleanHeader trims header names and a leading byte order mark.
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// zipRow pairs header names with cells. Short rows leave the trailing
// columns empty.
func zipRow(header, cells []string) Row {
	row := make(Row, len(header))
	for j, h := range header {
		if h == "" {
			continue
		}
		if j < len(cells) {
			row[h] = strings.TrimSpace(cells[j])
		} else {
			row[h] = ""
		}
	}
	return row
}
