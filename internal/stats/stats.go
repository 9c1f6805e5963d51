// Package stats derives collection statistics from an entry list. The
// computation is pure: it never mutates its input and two calls over
// the same list produce identical results.
package stats

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/codyseavey/card-vault/internal/models"
)

// topCardLimit caps the value ranking.
const topCardLimit = 5

// ParseCurrency parses a formatted currency string ("$1,234.56").
// Returns false for "N/A" and anything else that does not parse.
func ParseCurrency(s string) (float64, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseGrade parses a numeric overall grade string. "N/A" and free
// text return false.
func ParseGrade(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// roundHalfUp1 rounds to one decimal, half away from zero for the
// positive grades this sees.
func roundHalfUp1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// Compute aggregates the entry list into CollectionStats.
//
// Entries whose market value does not parse are excluded from
// TotalValue and TopCards but still counted in TotalCards and
// SetCounts. Only numeric overall grades contribute to AverageGrade
// and GradeCounts. Ties in TopCards keep original list order.
func Compute(entries []models.CollectionEntry) models.CollectionStats {
	st := models.CollectionStats{
		TotalCards:  len(entries),
		GradeCounts: make(map[int]int),
		SetCounts:   make(map[string]int),
		TopCards:    []models.CollectionEntry{},
	}

	type valued struct {
		entry models.CollectionEntry
		value float64
	}
	var priced []valued

	var gradeSum float64
	var gradeCount int

	for _, e := range entries {
		st.SetCounts[e.Set]++

		if v, ok := ParseCurrency(e.MarketValue); ok {
			st.TotalValue += v
			priced = append(priced, valued{entry: e, value: v})
		}
		if g, ok := ParseGrade(e.OverallGrade); ok {
			gradeSum += g
			gradeCount++
			st.GradeCounts[int(math.Floor(g))]++
		}
	}

	if gradeCount > 0 {
		st.AverageGrade = roundHalfUp1(gradeSum / float64(gradeCount))
	}

	sort.SliceStable(priced, func(i, j int) bool {
		return priced[i].value > priced[j].value
	})
	for i, p := range priced {
		if i == topCardLimit {
			break
		}
		st.TopCards = append(st.TopCards, p.entry)
	}

	return st
}
