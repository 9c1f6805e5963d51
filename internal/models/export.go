package models

import (
	"time"
)

// ExportVersion is written into every export package. The persisted
// vault blob itself is unversioned; only exports carry a version.
const ExportVersion = "1.0"

// ExportPackage is a portable vault snapshot. PhotoURI is nulled on
// every exported entry because it references device-local files.
type ExportPackage struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	TotalCards int               `json:"total_cards"`
	Cards      []CollectionEntry `json:"cards"`
}

// ImportResult reports how many entries an import actually added and
// the resulting vault size.
type ImportResult struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}
