// Package models defines the domain types shared by the lookup
// pipeline and its report writers.
//
// The package contains three categories of types:
//
// 1. Input and catalog data:
//   - [InputRow] : One ISRC from the input document with its pass-through cells
//   - [Track] : Catalog metadata for a matched recording
//
// 2. Outcomes:
//   - [LookupResult] : Per-row outcome, exactly one per input row
//   - [Status] : success, not_found, or error
//
// 3. Reporting:
//   - [BatchSummary] : Aggregate counts derived by [Summarize]
//   - [RunMetadata] : Run identity and timing captured once per run
//   - [Report] : The immutable unit handed to every writer
//
// [NormalizeISRC] implements the surface validation applied before any
// network call: trim, uppercase, strip hyphens, then require exactly
// twelve alphanumeric characters.
package models
