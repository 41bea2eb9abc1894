package format

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"skiff-hq/skiff/pkg/export"
)

// CSVSerializer encodes rows as RFC 4180 comma-separated records.
// Fields containing the delimiter, quotes or newlines are quoted by
// encoding/csv; the engine appends each encoded record to the artifact
// as one self-contained unit.
type CSVSerializer struct {
	// Comma is the field delimiter. Defaults to ','.
	Comma rune
}

// NewCSV creates a CSV serializer with the standard comma delimiter.
func NewCSV() *CSVSerializer {
	return &CSVSerializer{Comma: ','}
}

// NewTSV creates a tab-delimited serializer.
func NewTSV() *CSVSerializer {
	return &CSVSerializer{Comma: '\t'}
}

// Name returns the format identifier.
func (s *CSVSerializer) Name() string {
	if s.Comma == '\t' {
		return "tsv"
	}
	return "csv"
}

// Ext returns the artifact filename extension.
func (s *CSVSerializer) Ext() string {
	if s.Comma == '\t' {
		return "tsv"
	}
	return "csv"
}

// EncodeHeader encodes the schema as the first record of the artifact.
func (s *CSVSerializer) EncodeHeader(schema []string) ([]byte, error) {
	return s.encodeRecord(schema)
}

// EncodeRow encodes one row in schema field order.
func (s *CSVSerializer) EncodeRow(schema []string, row export.Row) ([]byte, error) {
	record := make([]string, len(schema))
	for i, field := range schema {
		record[i] = formatValue(row[field])
	}
	return s.encodeRecord(record)
}

func (s *CSVSerializer) encodeRecord(record []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if s.Comma != 0 {
		w.Comma = s.Comma
	}
	if err := w.Write(record); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatValue renders a scalar row value as a CSV field. Nil values
// render as the empty field, not the string "<nil>".
func formatValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
