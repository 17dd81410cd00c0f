package models

import "fmt"

// ImportRowResult reports the outcome of a single bulk-import row.
// Skipped rows (CSV header lines) are neither successes nor failures.
type ImportRowResult struct {
	Row      int       `json:"row"`
	Success  bool      `json:"success"`
	Skipped  bool      `json:"skipped"`
	Message  string    `json:"message,omitempty"`
	Redirect *Redirect `json:"redirect,omitempty"`
}

// ImportReport aggregates the per-row outcomes of a bulk import.
type ImportReport struct {
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Skipped  int               `json:"skipped"`
	Failures []ImportRowResult `json:"failures,omitempty"`
}

// Summary renders the human-readable outcome shown after an import.
func (r *ImportReport) Summary() string {
	return fmt.Sprintf("%d records imported. Failed to import %d records.", r.Imported, r.Failed)
}
