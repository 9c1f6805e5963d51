package models

// CollectionStats is derived from the current entry list on demand and
// never persisted.
type CollectionStats struct {
	TotalCards   int               `json:"total_cards"`
	TotalValue   float64           `json:"total_value"`
	AverageGrade float64           `json:"average_grade"`
	GradeCounts  map[int]int       `json:"grade_counts"`
	SetCounts    map[string]int    `json:"set_counts"`
	TopCards     []CollectionEntry `json:"top_cards"`
}
