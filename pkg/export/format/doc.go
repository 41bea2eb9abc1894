// Package format provides record serializers for export artifacts.
//
// # Formats
//
//   - CSV: RFC 4180 comma-separated records with a header row
//   - TSV: tab-separated variant of the CSV serializer
//   - JSONL: line-delimited JSON objects, no header
//
// Serializers encode one self-contained unit at a time (one delimited
// line); the export engine appends and flushes each unit to the
// artifact before moving on, so a crash loses at most the in-flight
// row. Use New to look a serializer up by name:
//
//	serializer, err := format.New("csv")
//	if err != nil {
//	    return err
//	}
package format
