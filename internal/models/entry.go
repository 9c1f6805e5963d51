package models

import (
	"time"
)

// Defaults applied when an add request omits optional fields.
const (
	DefaultSet         = "Unknown Set"
	DefaultGrade       = "N/A"
	DefaultMarketValue = "N/A"
)

// Subgrade is one named quality axis scored 0-10 (e.g. surface, edges).
// Subgrades are kept as an ordered list rather than a map because axis
// order drives the radar chart layout.
type Subgrade struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CollectionEntry is one scanned/owned card in the vault.
//
// OverallGrade and Subgrades are independent fields: editing one never
// recomputes the other. OverallGrade is a numeric string or "N/A";
// MarketValue is a formatted currency string ("$123.45") or "N/A".
type CollectionEntry struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Set          string     `json:"set"`
	SetNumber    string     `json:"set_number"`
	OverallGrade string     `json:"overall_grade"`
	Subgrades    []Subgrade `json:"subgrades"`
	MarketValue  string     `json:"market_value"`
	PhotoURI     *string    `json:"photo_uri"`
	ScannedAt    time.Time  `json:"scanned_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	Confidence   float64    `json:"confidence"`
	Notes        string     `json:"notes"`
	Tags         []string   `json:"tags"`
}

// HasTag reports whether the entry carries the given tag.
func (e *CollectionEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CardInput is the add-card request. Only Name is required; every
// other field falls back to its default.
type CardInput struct {
	ID           string     `json:"id"`
	Name         string     `json:"name" binding:"required"`
	Set          string     `json:"set"`
	SetNumber    string     `json:"set_number"`
	OverallGrade string     `json:"overall_grade"`
	Subgrades    []Subgrade `json:"subgrades"`
	MarketValue  string     `json:"market_value"`
	PhotoURI     *string    `json:"photo_uri"`
	Confidence   float64    `json:"confidence"`
	Notes        string     `json:"notes"`
	Tags         []string   `json:"tags"`
}

// CardPatch is a partial update; nil fields are left untouched.
//
// Because an absent field and a JSON null both decode to nil, a patch
// cannot clear PhotoURI back to null; it can only replace it. Clear a
// photo reference by deleting and re-adding the entry, or by patching
// in a new reference.
type CardPatch struct {
	Name         *string     `json:"name"`
	Set          *string     `json:"set"`
	SetNumber    *string     `json:"set_number"`
	OverallGrade *string     `json:"overall_grade"`
	Subgrades    *[]Subgrade `json:"subgrades"`
	MarketValue  *string     `json:"market_value"`
	PhotoURI     *string     `json:"photo_uri"`
	Confidence   *float64    `json:"confidence"`
	Notes        *string     `json:"notes"`
	Tags         *[]string   `json:"tags"`
}

// CardFilter combines optional predicates with AND semantics.
type CardFilter struct {
	MinGrade *float64
	MaxGrade *float64
	Set      string
	Tags     []string
}
