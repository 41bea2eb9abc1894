package format

import (
	"bytes"
	"encoding/json"

	"skiff-hq/skiff/pkg/export"
)

// JSONLSerializer encodes rows as line-delimited JSON objects. The
// format has no header; the schema restricts which fields are emitted
// so every line carries the same keys.
type JSONLSerializer struct{}

// NewJSONL creates a JSON-lines serializer.
func NewJSONL() *JSONLSerializer {
	return &JSONLSerializer{}
}

// Name returns the format identifier.
func (s *JSONLSerializer) Name() string { return "jsonl" }

// Ext returns the artifact filename extension.
func (s *JSONLSerializer) Ext() string { return "jsonl" }

// EncodeHeader returns nil: JSON-lines artifacts have no preamble.
func (s *JSONLSerializer) EncodeHeader(schema []string) ([]byte, error) {
	return nil, nil
}

// EncodeRow encodes one row as a single JSON object terminated by a
// newline. Only schema fields are emitted.
func (s *JSONLSerializer) EncodeRow(schema []string, row export.Row) ([]byte, error) {
	obj := make(map[string]any, len(schema))
	for _, field := range schema {
		obj[field] = row[field]
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + 1)
	buf.Write(data)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
