// Package workflow runs one reconciliation batch end to end.
//
// The Runner loads the question bank, parses every transcript against a
// shared reconcile.Engine, aggregates the successful results, and hands the
// table to the emitter. Transcripts are independent units of failure: a
// transcript that cannot be read or carries a malformed score is reported
// and left out of the table while the rest of the batch proceeds.
//
// Parsing fans out across a bounded worker pool; results are kept in input
// order so the output columns never depend on scheduling. Every run gets a
// random run ID that is attached to each log line it produces.
package workflow
