// Package core provides the cleaning engine for tabular data of unknown
// provenance.
//
// This package holds all domain logic independent of any UI or transport
// layer. It is used by the web handlers, the sheetclean CLI, and tests
// without modification.
//
// # Pipeline
//
// [CleanTable] runs a raw [Table] through these steps:
//
//  1. Columns, then rows, that hold only missing cells are dropped.
//  2. Column labels are mapped to storage-safe names ([SanitizeColumnName]).
//     Two labels with the same name are an error.
//  3. Each column is standardized against the junk [Vocabulary] and run
//     through the type gauntlet: EMPTY, BOOLEAN, NUMERIC, DATETIME, STRING.
//     NUMERIC and DATETIME are accepted when the share of present values
//     that parse reaches the threshold.
//  4. Present values that fail coercion are recorded as [QuarantineRecord]s
//     and joined back onto the raw rows.
//
// The [Result] carries the comparison, load-ready and quarantine tables and a
// [TypeReport]. Row IDs survive every step, so any output row can be traced
// to its input row.
//
// # Service
//
// [Service] wraps the engine for concurrent callers: a [JobLimiter] bounds
// running jobs, results are kept in memory for a configured TTL, and
// [Service.LoadJob] copies a load-ready table into PostgreSQL with COPY.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code for support reference:
//
//   - FILE001-FILE007: File intake errors (size, type, format)
//   - CLN001-CLN003: Cleaning errors (threshold, name collisions, shape)
//   - JOB001-JOB005: Job errors (busy, not found, cancelled, timeout)
//   - DB001-DB005: Load target errors
package core
