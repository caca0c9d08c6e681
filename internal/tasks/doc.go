// Package tasks orchestrates batch ISRC matching with real-time progress reporting.
//
// # Core Operation
//
// The [Engine] interface defines a single operation:
//
//	[Engine.Run] : Match a batch of input rows against a catalog provider
//	  - Validates each ISRC before any network call
//	  - Queries the provider once per valid code, in input order
//	  - Records one result per input row; failures never abort the batch
//	  - Derives the summary and run metadata exactly once
//
// Only configuration and authentication errors, and context
// cancellation, abort a run. Rate-limit exhaustion, timeouts, and
// other per-row failures become error rows in the report.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Pacing
//
// Provider requests are spaced with golang.org/x/time/rate so a batch
// never exceeds one lookup per configured delay. Invalid ISRCs skip
// the limiter entirely.
//
// # Implementation
//
// [MatchEngine] implements [Engine] with a dependency on
// [services.Matcher], the single-lookup provider abstraction.
package tasks
