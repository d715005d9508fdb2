// Package transcript reads per-student transcripts and extracts the student
// name, (question fragment, score) pairs, and the total score.
//
// Documents are reduced to an ordered list of text units: paragraphs for
// .docx files and lines for plain text. A Scanner walks those units as a
// two-state machine; a Parser drives the Scanner and hands each scored
// fragment to a reconcile.Engine.
package transcript
