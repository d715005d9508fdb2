// Package bank holds the canonical question bank.
//
// A Bank groups questions into three type buckets (single choice, multiple
// choice, true/false) kept in source order, and indexes each bucket by
// normalized question text. Buckets are consulted in a fixed priority order
// so the same text appearing under two types always resolves the same way.
// A Bank is read-only after Load and safe to share between goroutines.
package bank
