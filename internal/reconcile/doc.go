// Package reconcile maps transcript question fragments onto bank slots.
//
// Resolution tries an exact lookup first, then an approximate pass over
// every distinct bank text using the sequence-matcher ratio, then the same
// comparison over reversed strings so fragments that only agree at their
// tails can still be recovered. An approximate candidate must beat the
// threshold strictly.
package reconcile
