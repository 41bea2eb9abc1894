// Skiff is a resumable, chunked data-export runtime.
//
// It pulls rows from a paginated source, serializes them in pages, and
// appends them to an output artifact, tracking enough state along the
// way that a run can be observed and resumed step by step.
//
// Usage:
//
//	# One-shot export of a SQLite table to CSV
//	skiff run --db orders.db --table orders --out exports/
//
//	# Export a query as JSON Lines
//	skiff run --db orders.db --query "SELECT id, total FROM orders" --format jsonl
//
//	# Run scheduled exports from a jobs file, with /metrics
//	skiff serve --config /etc/skiff/config.yaml
//
//	# Validate configuration and jobs file
//	skiff validate --config /etc/skiff/config.yaml
//
//	# Show version information
//	skiff version
package main

func main() {
	Execute()
}
