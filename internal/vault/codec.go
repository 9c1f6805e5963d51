package vault

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/codyseavey/card-vault/internal/models"
)

// ExportVault produces a versioned snapshot of the vault. PhotoURI is
// nulled on every card: it points at device-local files and is not
// portable.
func (s *Service) ExportVault() models.ExportPackage {
	s.mu.RLock()
	cards := make([]models.CollectionEntry, len(s.entries))
	copy(cards, s.entries)
	s.mu.RUnlock()

	for i := range cards {
		cards[i].PhotoURI = nil
	}
	return models.ExportPackage{
		Version:    models.ExportVersion,
		ExportedAt: time.Now(),
		TotalCards: len(cards),
		Cards:      cards,
	}
}

// importPayload is decoded in two steps so a missing cards field can
// be told apart from an empty one.
type importPayload struct {
	Version string          `json:"version"`
	Cards   json.RawMessage `json:"cards"`
}

// ImportVault parses an export package and applies it.
//
// With merge=false the imported list replaces the vault wholesale.
// With merge=true cards whose id already exists are dropped and the
// remainder is appended after the existing entries, preserving both
// orders. A malformed payload returns ErrInvalidFormat and applies
// nothing.
func (s *Service) ImportVault(data []byte, merge bool) (models.ImportResult, error) {
	var payload importPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return models.ImportResult{}, ErrInvalidFormat
	}
	// An absent cards field leaves the RawMessage nil; an explicit
	// "cards": null stores the literal. Both mean there is no sequence
	// to import, and a null must not decode into an empty list and
	// wipe the vault on replace.
	if payload.Cards == nil || bytes.Equal(bytes.TrimSpace(payload.Cards), []byte("null")) {
		return models.ImportResult{}, ErrInvalidFormat
	}
	var cards []models.CollectionEntry
	if err := json.Unmarshal(payload.Cards, &cards); err != nil {
		return models.ImportResult{}, ErrInvalidFormat
	}

	s.mu.Lock()
	var next []models.CollectionEntry
	var imported int
	if merge {
		existing := make(map[string]struct{}, len(s.entries))
		for _, e := range s.entries {
			existing[e.ID] = struct{}{}
		}
		next = make([]models.CollectionEntry, len(s.entries), len(s.entries)+len(cards))
		copy(next, s.entries)
		for _, c := range cards {
			if _, dup := existing[c.ID]; dup {
				continue
			}
			next = append(next, c)
			imported++
		}
	} else {
		next = cards
		imported = len(cards)
	}

	if err := s.persist(next); err != nil {
		s.mu.Unlock()
		return models.ImportResult{}, err
	}
	s.entries = next
	total := len(next)
	s.mu.Unlock()

	s.notify(Event{Op: EventImported, Count: imported})
	return models.ImportResult{Imported: imported, Total: total}, nil
}
