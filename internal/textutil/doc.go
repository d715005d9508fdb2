// Package textutil provides the text canonicalization and similarity
// primitives used to line transcript fragments up with bank questions.
//
// The primary use cases are:
//   - Normalizing raw text before any comparison (line breaks, non-printable
//     runes, whitespace runs)
//   - Computing a sequence-matcher similarity ratio between two strings
//   - Reversing strings by rune for suffix-aligned comparisons
//
// Normalization is idempotent: feeding a normalized string back through
// Normalize returns it unchanged. Ratios are computed over runes, so CJK
// question text compares character by character.
package textutil
