// Package source provides row source implementations for the export
// engine.
//
// A row source exposes the result set being exported as pages of
// field-to-value rows plus an authoritative count:
//
//   - SQLiteSource pages over a SQLite table or SELECT statement with
//     LIMIT/OFFSET, converting each result row to an export.Row.
//   - MemorySource serves an in-memory slice of rows, for tests and
//     embedded use.
//
// Sources must produce a stable row order across Fetch calls (table
// mode orders by rowid unless configured otherwise); the engine's
// pagination is only as consistent as the source's ordering.
package source
