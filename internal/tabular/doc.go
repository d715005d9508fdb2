// Package tabular reads header-plus-rows tables from spreadsheet exports.
//
// Workbooks (.xlsx) are read with excelize; comma-separated files (.csv)
// with encoding/csv. Both produce a Table whose rows are padded to the
// header width and carry their 1-based source row number, so downstream
// validation can point at the offending line. Fully blank rows are skipped.
package tabular
