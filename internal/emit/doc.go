// Package emit renders an aggregate.Table to xlsx, csv, or sqlite files and
// to a console preview.
//
// Write owns destination handling: overwrite confirmation, an advisory lock
// next to the destination, permission preflight, and an atomic
// temp-file-then-rename replace so a failed or declined write never leaves
// a partial file behind.
package emit
