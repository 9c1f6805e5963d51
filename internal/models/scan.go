package models

// Types in this file mirror the identification backend's response
// shape. The backend itself is an external collaborator; the vault
// only consumes these DTOs.

// ScanSource labels where a scan result came from.
const (
	ScanSourceBackend = "backend"
	ScanSourceMock    = "mock"
)

// ScanResponse is the identification backend's answer to an image
// upload, or a locally generated equivalent when the backend is
// unreachable (Source = "mock").
type ScanResponse struct {
	Success        bool               `json:"success"`
	IdentifiedInfo *IdentifiedInfo    `json:"identified_info,omitempty"`
	CVConfidence   float64            `json:"cv_confidence"`
	Matches        []ScanMatch        `json:"matches"`
	Grading        map[string]float64 `json:"grading,omitempty"`
	Error          string             `json:"error,omitempty"`
	Source         string             `json:"source,omitempty"`
}

// IdentifiedInfo is what the backend read off the card image itself.
type IdentifiedInfo struct {
	Name      string `json:"name"`
	HP        int    `json:"hp"`
	SetNumber string `json:"set_number"`
}

// ScanMatch is one candidate card from the backend's database, ranked
// by confidence.
type ScanMatch struct {
	Card       CardDetails  `json:"card"`
	Confidence float64      `json:"confidence"`
	Pricing    *PricingInfo `json:"pricing,omitempty"`
}

// CardDetails is the backend's card identity record.
type CardDetails struct {
	Name        string `json:"name"`
	SetName     string `json:"set_name"`
	SetNumber   string `json:"set_number"`
	Rarity      string `json:"rarity"`
	HP          int    `json:"hp"`
	CardType    string `json:"card_type"`
	ReleaseDate string `json:"release_date"`
}

// PricingInfo holds per-grade-tier price summaries for one card.
type PricingInfo struct {
	PricesByGrade map[string]GradePrice `json:"prices_by_grade"`
	TotalListings int                   `json:"total_listings,omitempty"`
}

// GradePrice is the price summary for a single grade tier.
type GradePrice struct {
	AvgPrice    float64 `json:"avg_price"`
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	MedianPrice float64 `json:"median_price"`
	SaleCount   int     `json:"sale_count"`
}

// BestMatch returns the highest-confidence match, or nil when the scan
// produced none.
func (r *ScanResponse) BestMatch() *ScanMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	best := &r.Matches[0]
	for i := range r.Matches[1:] {
		if r.Matches[i+1].Confidence > best.Confidence {
			best = &r.Matches[i+1]
		}
	}
	return best
}
