package models

import (
	"time"

	"github.com/google/uuid"
)

// Redirect represents a single redirect rule mapping a source path (or
// pattern, when IsRegex is set) to a target URL.
type Redirect struct {
	ID          uuid.UUID `json:"id"`
	IsRegex     bool      `json:"is_regex"`
	OldURL      string    `json:"old_url"`
	NewURL      string    `json:"new_url"`
	Notes       string    `json:"notes"`
	LastUpdated time.Time `json:"last_updated"`
}

// IsExact reports whether the rule matches by literal path comparison.
func (r *Redirect) IsExact() bool {
	return !r.IsRegex
}
