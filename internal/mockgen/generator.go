// Package mockgen synthesizes grading, pricing, and market data when
// no live identification/pricing backend is reachable, and for the
// periodic demo market feed. All randomness comes from an injected
// *rand.Rand so generation is reproducible under a fixed seed.
package mockgen

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/codyseavey/card-vault/internal/models"
)

// DefaultAxes are the four classic condition axes. Generators accept
// any axis set; these are just the fallback.
var DefaultAxes = []string{"centering", "surface", "edges", "corners"}

// gradeTier pairs a grade label with its price multiplier. Order
// matters for deterministic generation under a fixed seed.
var gradeTiers = []struct {
	Label      string
	Multiplier float64
}{
	{"Ungraded", 1.0},
	{"PSA 8", 3.0},
	{"PSA 9", 6.0},
	{"PSA 10", 12.0},
	{"BGS 9.5", 8.0},
}

// popularityMultipliers scale base prices for chase cards. Unlisted
// names use 1.0.
var popularityMultipliers = map[string]float64{
	"Charizard": 8.0,
	"Pikachu":   3.0,
	"Blastoise": 4.0,
	"Venusaur":  4.0,
}

// rarityBasePrices map rarity tiers to base prices in USD. Unknown
// rarities fall back to the Common default.
var rarityBasePrices = map[string]float64{
	"Holo Rare": 50,
	"Rare":      15,
	"Uncommon":  3,
	"Common":    5,
}

const defaultBasePrice = 5.0

// Generator produces mock grading and pricing data. The zero value is
// not usable; construct with New. A Generator is safe for concurrent
// use: the underlying rand source is guarded.
type Generator struct {
	mu   sync.Mutex
	rng  *rand.Rand
	axes []string
}

// New returns a generator over the default condition axes.
func New(rng *rand.Rand) *Generator {
	return NewWithAxes(rng, DefaultAxes)
}

// NewWithAxes returns a generator grading the given axes, in order.
func NewWithAxes(rng *rand.Rand, axes []string) *Generator {
	if len(axes) == 0 {
		axes = DefaultAxes
	}
	return &Generator{rng: rng, axes: axes}
}

// Axes returns the axis labels this generator grades, in order.
func (g *Generator) Axes() []string {
	out := make([]string, len(g.axes))
	copy(out, g.axes)
	return out
}

// uniform draws from [min, max). Callers hold g.mu.
func (g *Generator) uniform(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Grading synthesizes condition subgrades for a card name. The base
// grade is derived from the name's first byte (7, 8, or 9); each axis
// gets independent jitter in [-0.75, +0.75] and is clamped to [5, 10],
// rounded to one decimal.
func (g *Generator) Grading(name string) []models.Subgrade {
	first := byte('P')
	if name != "" {
		first = name[0]
	}
	base := float64(7 + int(first)%3)

	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]models.Subgrade, len(g.axes))
	for i, axis := range g.axes {
		v := clamp(base+g.uniform(-0.75, 0.75), 5, 10)
		out[i] = models.Subgrade{Label: axis, Value: round1(v)}
	}
	return out
}

// GradingMap returns the same grading as Grading, keyed by axis, in
// the shape the identification backend uses.
func (g *Generator) GradingMap(name string) map[string]float64 {
	grades := g.Grading(name)
	out := make(map[string]float64, len(grades))
	for _, sg := range grades {
		out[sg.Label] = sg.Value
	}
	return out
}

// Pricing synthesizes per-grade-tier prices for a card. The base price
// comes from the rarity tier scaled by the name's popularity
// multiplier; each tier then gets its fixed multiplier and a variance
// draw from [0.8, 1.2).
func (g *Generator) Pricing(name, rarity string) models.PricingInfo {
	base, ok := rarityBasePrices[rarity]
	if !ok {
		base = defaultBasePrice
	}
	if mult, ok := popularityMultipliers[name]; ok {
		base *= mult
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	prices := make(map[string]models.GradePrice, len(gradeTiers))
	totalListings := 0
	for _, tier := range gradeTiers {
		price := base * tier.Multiplier * g.uniform(0.8, 1.2)
		saleCount := 5 + g.rng.Intn(20)
		prices[tier.Label] = models.GradePrice{
			AvgPrice:    round2(price),
			MinPrice:    round2(price * 0.7),
			MaxPrice:    round2(price * 1.4),
			MedianPrice: round2(price * 0.95),
			SaleCount:   saleCount,
		}
		totalListings += saleCount
	}
	return models.PricingInfo{PricesByGrade: prices, TotalListings: totalListings}
}

// UngradedValue formats the Ungraded tier's average price as a market
// value string for a new vault entry.
func UngradedValue(pricing models.PricingInfo) string {
	gp, ok := pricing.PricesByGrade["Ungraded"]
	if !ok {
		return models.DefaultMarketValue
	}
	return fmt.Sprintf("$%.2f", gp.AvgPrice)
}
