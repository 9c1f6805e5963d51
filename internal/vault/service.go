// Package vault owns the persisted collection of scanned card entries.
// All mutations run through a single service instance and are
// serialized under one lock around the read-modify-persist cycle, so
// back-to-back mutations cannot race each other's saves. The in-memory
// list is only replaced after a successful save; a failed save leaves
// both memory and storage untouched and the error reaches the caller.
package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codyseavey/card-vault/internal/models"
	"github.com/codyseavey/card-vault/internal/stats"
)

// storageKey is the single key the entry list is persisted under.
const storageKey = "vault.entries"

var (
	// ErrNotFound signals an update against an id the vault does not
	// hold. Deletes stay idempotent and never return it.
	ErrNotFound = errors.New("card not found")

	// ErrInvalidFormat signals an import payload whose cards field is
	// absent or not an array. The import is rejected whole; nothing is
	// partially applied.
	ErrInvalidFormat = errors.New("invalid import format")
)

// Store is the persistence contract the service writes through.
type Store interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, data []byte) error
	Delete(key string) error
}

// EventOp tags what a vault event describes.
type EventOp string

const (
	EventAdded    EventOp = "added"
	EventUpdated  EventOp = "updated"
	EventDeleted  EventOp = "deleted"
	EventImported EventOp = "imported"
	EventCleared  EventOp = "cleared"
)

// Event is delivered to subscribers after a mutation has been
// persisted. Entry is nil for bulk operations (import, clear).
type Event struct {
	Op    EventOp
	Entry *models.CollectionEntry
	Count int
}

// Service is the vault store.
type Service struct {
	store Store

	mu      sync.RWMutex
	entries []models.CollectionEntry

	subMu sync.RWMutex
	subs  []func(Event)
}

// NewService loads the persisted entry list. A missing key, a read
// failure, or a garbled payload all start an empty vault; only writes
// are allowed to fail loudly.
func NewService(store Store) *Service {
	s := &Service{store: store}
	s.entries = s.loadEntries()
	log.Printf("Vault loaded with %d entries", len(s.entries))
	return s
}

func (s *Service) loadEntries() []models.CollectionEntry {
	data, ok, err := s.store.Load(storageKey)
	if err != nil {
		log.Printf("Vault load failed, starting empty: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	var entries []models.CollectionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("Vault payload unreadable, starting empty: %v", err)
		return nil
	}
	return entries
}

// persist writes the candidate list. The caller commits it to memory
// only when persist returns nil.
func (s *Service) persist(entries []models.CollectionEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode vault: %w", err)
	}
	return s.store.Save(storageKey, data)
}

// Subscribe registers an observer called after each successful
// mutation. Callbacks run synchronously outside the vault lock, so
// they may read the service freely.
func (s *Service) Subscribe(fn func(Event)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Service) notify(ev Event) {
	s.subMu.RLock()
	subs := make([]func(Event), len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// newEntryID builds a time-based id with a random suffix so ids stay
// unique even within one clock tick.
func newEntryID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()[:8])
}

// AddCard builds an entry from the input, fills defaults, prepends it
// (newest first), and persists. It never fails on valid input except
// for storage write errors.
func (s *Service) AddCard(input models.CardInput) (models.CollectionEntry, error) {
	now := time.Now()

	entry := models.CollectionEntry{
		ID:           input.ID,
		Name:         input.Name,
		Set:          input.Set,
		SetNumber:    input.SetNumber,
		OverallGrade: input.OverallGrade,
		Subgrades:    input.Subgrades,
		MarketValue:  input.MarketValue,
		PhotoURI:     input.PhotoURI,
		ScannedAt:    now,
		Confidence:   input.Confidence,
		Notes:        input.Notes,
		Tags:         input.Tags,
	}
	if entry.ID == "" {
		entry.ID = newEntryID(now)
	}
	if entry.Set == "" {
		entry.Set = models.DefaultSet
	}
	if entry.OverallGrade == "" {
		entry.OverallGrade = models.DefaultGrade
	}
	if entry.MarketValue == "" {
		entry.MarketValue = models.DefaultMarketValue
	}
	if entry.Subgrades == nil {
		entry.Subgrades = []models.Subgrade{}
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}

	s.mu.Lock()
	next := make([]models.CollectionEntry, 0, len(s.entries)+1)
	next = append(next, entry)
	next = append(next, s.entries...)
	if err := s.persist(next); err != nil {
		s.mu.Unlock()
		return models.CollectionEntry{}, err
	}
	s.entries = next
	s.mu.Unlock()

	s.notify(Event{Op: EventAdded, Entry: &entry, Count: 1})
	return entry, nil
}

// UpdateCard merges the patch into the matching entry, stamps
// UpdatedAt, and persists. An unknown id returns ErrNotFound.
func (s *Service) UpdateCard(id string, patch models.CardPatch) (models.CollectionEntry, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.CollectionEntry{}, ErrNotFound
	}

	next := make([]models.CollectionEntry, len(s.entries))
	copy(next, s.entries)

	entry := next[idx]
	applyPatch(&entry, patch)
	now := time.Now()
	entry.UpdatedAt = &now
	next[idx] = entry

	if err := s.persist(next); err != nil {
		s.mu.Unlock()
		return models.CollectionEntry{}, err
	}
	s.entries = next
	s.mu.Unlock()

	s.notify(Event{Op: EventUpdated, Entry: &entry, Count: 1})
	return entry, nil
}

func applyPatch(entry *models.CollectionEntry, patch models.CardPatch) {
	if patch.Name != nil {
		entry.Name = *patch.Name
	}
	if patch.Set != nil {
		entry.Set = *patch.Set
	}
	if patch.SetNumber != nil {
		entry.SetNumber = *patch.SetNumber
	}
	if patch.OverallGrade != nil {
		entry.OverallGrade = *patch.OverallGrade
	}
	if patch.Subgrades != nil {
		entry.Subgrades = *patch.Subgrades
	}
	if patch.MarketValue != nil {
		entry.MarketValue = *patch.MarketValue
	}
	if patch.PhotoURI != nil {
		entry.PhotoURI = patch.PhotoURI
	}
	if patch.Confidence != nil {
		entry.Confidence = *patch.Confidence
	}
	if patch.Notes != nil {
		entry.Notes = *patch.Notes
	}
	if patch.Tags != nil {
		entry.Tags = *patch.Tags
	}
}

// DeleteCard removes the matching entry. Deleting an absent id is a
// no-op, not an error, and does not touch storage.
func (s *Service) DeleteCard(id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	deleted := s.entries[idx]
	next := make([]models.CollectionEntry, 0, len(s.entries)-1)
	next = append(next, s.entries[:idx]...)
	next = append(next, s.entries[idx+1:]...)

	if err := s.persist(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.entries = next
	s.mu.Unlock()

	s.notify(Event{Op: EventDeleted, Entry: &deleted, Count: 1})
	return nil
}

// indexOf must be called with the lock held.
func (s *Service) indexOf(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// GetCardByID looks up a single entry.
func (s *Service) GetCardByID(id string) (models.CollectionEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return models.CollectionEntry{}, false
	}
	return s.entries[idx], true
}

// Entries returns a copy of the entry list, newest first.
func (s *Service) Entries() []models.CollectionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CollectionEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// SearchCards matches the query case-insensitively as a substring of
// name, set, or set number (OR across fields).
func (s *Service) SearchCards(query string) []models.CollectionEntry {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CollectionEntry, 0)
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Set), q) ||
			strings.Contains(strings.ToLower(e.SetNumber), q) {
			out = append(out, e)
		}
	}
	return out
}

// GetFilteredCards applies the filter's predicates with AND semantics.
// Grade bounds compare the parsed overall grade; entries whose grade
// does not parse are excluded when a bound is set. The tag predicate
// passes when the entry has at least one tag from the filter set.
func (s *Service) GetFilteredCards(filter models.CardFilter) []models.CollectionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CollectionEntry, 0)
	for _, e := range s.entries {
		if !matchesFilter(&e, filter) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesFilter(e *models.CollectionEntry, filter models.CardFilter) bool {
	if filter.MinGrade != nil || filter.MaxGrade != nil {
		grade, ok := stats.ParseGrade(e.OverallGrade)
		if !ok {
			return false
		}
		if filter.MinGrade != nil && grade < *filter.MinGrade {
			return false
		}
		if filter.MaxGrade != nil && grade > *filter.MaxGrade {
			return false
		}
	}
	if filter.Set != "" && !strings.Contains(strings.ToLower(e.Set), strings.ToLower(filter.Set)) {
		return false
	}
	if len(filter.Tags) > 0 {
		any := false
		for _, t := range filter.Tags {
			if e.HasTag(t) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	return true
}

// ClearVault empties the list and erases the persisted key.
func (s *Service) ClearVault() error {
	s.mu.Lock()
	if err := s.store.Delete(storageKey); err != nil {
		s.mu.Unlock()
		return err
	}
	s.entries = nil
	s.mu.Unlock()

	s.notify(Event{Op: EventCleared})
	return nil
}

// RefreshCards reloads the entry list from storage, discarding the
// in-memory copy. Used to recover after external mutation of the
// storage file. Unlike the initial load, a read failure is surfaced
// because the caller explicitly asked for storage state.
func (s *Service) RefreshCards() ([]models.CollectionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.store.Load(storageKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.entries = nil
		return []models.CollectionEntry{}, nil
	}
	var entries []models.CollectionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode vault: %w", err)
	}
	s.entries = entries

	out := make([]models.CollectionEntry, len(entries))
	copy(out, entries)
	return out, nil
}
