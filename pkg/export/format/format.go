package format

import (
	"fmt"
	"strings"

	"skiff-hq/skiff/pkg/export"
)

// New returns the serializer registered under the given name.
// Supported names: "csv" (default when name is empty), "tsv", "jsonl".
func New(name string) (export.Serializer, error) {
	switch strings.ToLower(name) {
	case "", "csv":
		return NewCSV(), nil
	case "tsv":
		return NewTSV(), nil
	case "jsonl", "ndjson":
		return NewJSONL(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (supported: csv, tsv, jsonl)", name)
	}
}
