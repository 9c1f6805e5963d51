package vault

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyseavey/card-vault/internal/models"
)

// memStore is an in-memory Store used to exercise the service without
// sqlite.
type memStore struct {
	data     map[string][]byte
	failSave bool
	saves    int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Load(key string) ([]byte, bool, error) {
	data, ok := m.data[key]
	return data, ok, nil
}

func (m *memStore) Save(key string, data []byte) error {
	if m.failSave {
		return errors.New("disk full")
	}
	m.saves++
	m.data[key] = data
	return nil
}

func (m *memStore) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	return NewService(store), store
}

func TestAddCardFillsDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	entry, err := svc.AddCard(models.CardInput{Name: "Charizard"})
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "Charizard", entry.Name)
	assert.Equal(t, models.DefaultSet, entry.Set)
	assert.Equal(t, models.DefaultGrade, entry.OverallGrade)
	assert.Equal(t, models.DefaultMarketValue, entry.MarketValue)
	assert.Equal(t, 0.0, entry.Confidence)
	assert.NotNil(t, entry.Tags)
	assert.Empty(t, entry.Tags)
	assert.NotNil(t, entry.Subgrades)
	assert.False(t, entry.ScannedAt.IsZero())
	assert.Nil(t, entry.UpdatedAt)
}

func TestAddCardKeepsProvidedFields(t *testing.T) {
	svc, _ := newTestService(t)

	photo := "file:///scan.jpg"
	input := models.CardInput{
		ID:           "custom-id",
		Name:         "Pikachu",
		Set:          "Base Set",
		SetNumber:    "58/102",
		OverallGrade: "9.5",
		Subgrades:    []models.Subgrade{{Label: "surface", Value: 9.5}},
		MarketValue:  "$42.00",
		PhotoURI:     &photo,
		Confidence:   0.92,
		Notes:        "pack fresh",
		Tags:         []string{"vintage"},
	}

	entry, err := svc.AddCard(input)
	require.NoError(t, err)

	got, ok := svc.GetCardByID("custom-id")
	require.True(t, ok)
	assert.Equal(t, entry, got)
	assert.Equal(t, "9.5", got.OverallGrade)
	assert.Equal(t, "$42.00", got.MarketValue)
	assert.Equal(t, &photo, got.PhotoURI)
	assert.Equal(t, 0.92, got.Confidence)
}

func TestAddCardPrepends(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddCard(models.CardInput{Name: "First"})
	require.NoError(t, err)
	second, err := svc.AddCard(models.CardInput{Name: "Second"})
	require.NoError(t, err)

	entries := svc.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
}

func TestAddCardSaveFailureLeavesMemoryUnchanged(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.AddCard(models.CardInput{Name: "Kept"})
	require.NoError(t, err)

	store.failSave = true
	_, err = svc.AddCard(models.CardInput{Name: "Dropped"})
	require.Error(t, err)

	entries := svc.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Kept", entries[0].Name)
}

func TestUpdateCard(t *testing.T) {
	svc, _ := newTestService(t)

	entry, err := svc.AddCard(models.CardInput{Name: "Blastoise", OverallGrade: "8.0"})
	require.NoError(t, err)

	notes := "regraded"
	grade := "9.0"
	updated, err := svc.UpdateCard(entry.ID, models.CardPatch{
		Notes:        &notes,
		OverallGrade: &grade,
	})
	require.NoError(t, err)

	assert.Equal(t, "regraded", updated.Notes)
	assert.Equal(t, "9.0", updated.OverallGrade)
	assert.Equal(t, "Blastoise", updated.Name)
	require.NotNil(t, updated.UpdatedAt)
}

func TestUpdateCardSubgradesDoNotTouchOverallGrade(t *testing.T) {
	svc, _ := newTestService(t)

	entry, err := svc.AddCard(models.CardInput{Name: "Venusaur", OverallGrade: "8.5"})
	require.NoError(t, err)

	subgrades := []models.Subgrade{{Label: "surface", Value: 4.0}}
	updated, err := svc.UpdateCard(entry.ID, models.CardPatch{Subgrades: &subgrades})
	require.NoError(t, err)

	assert.Equal(t, "8.5", updated.OverallGrade, "subgrade edits must not recompute the overall grade")
	assert.Equal(t, subgrades, updated.Subgrades)
}

func TestUpdateCardNullPhotoURIDoesNotClear(t *testing.T) {
	svc, _ := newTestService(t)

	photo := "file:///scan.jpg"
	entry, err := svc.AddCard(models.CardInput{Name: "Lugia", PhotoURI: &photo})
	require.NoError(t, err)

	// A JSON null is indistinguishable from an absent field, so the
	// photo reference survives the patch.
	var patch models.CardPatch
	require.NoError(t, json.Unmarshal([]byte(`{"photo_uri":null,"notes":"kept photo"}`), &patch))

	updated, err := svc.UpdateCard(entry.ID, patch)
	require.NoError(t, err)
	require.NotNil(t, updated.PhotoURI)
	assert.Equal(t, photo, *updated.PhotoURI)
	assert.Equal(t, "kept photo", updated.Notes)
}

func TestUpdateCardMissingIDReturnsNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateCard("nope", models.CardPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCard(t *testing.T) {
	svc, _ := newTestService(t)

	entry, err := svc.AddCard(models.CardInput{Name: "Mewtwo"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCard(entry.ID))
	_, ok := svc.GetCardByID(entry.ID)
	assert.False(t, ok)
}

func TestDeleteCardMissingIDIsNoOp(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.AddCard(models.CardInput{Name: "Snorlax"})
	require.NoError(t, err)
	savesBefore := store.saves

	require.NoError(t, svc.DeleteCard("missing"))

	assert.Len(t, svc.Entries(), 1)
	assert.Equal(t, savesBefore, store.saves, "absent-id delete must not write storage")
}

func TestSearchCards(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddCard(models.CardInput{Name: "Charizard", Set: "Base Set", SetNumber: "4/102"})
	require.NoError(t, err)
	_, err = svc.AddCard(models.CardInput{Name: "Lugia", Set: "Neo Genesis", SetNumber: "9/111"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"case-insensitive name match", "chariz", 1},
		{"set match", "neo", 1},
		{"set number match", "102", 1},
		{"no match", "blastoise", 0},
		{"empty query matches all", "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, svc.SearchCards(tt.query), tt.want)
		})
	}
}

func TestGetFilteredCards(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddCard(models.CardInput{Name: "A", Set: "Base Set", OverallGrade: "9.5", Tags: []string{"vintage", "holo"}})
	require.NoError(t, err)
	_, err = svc.AddCard(models.CardInput{Name: "B", Set: "Jungle", OverallGrade: "7.0", Tags: []string{"modern"}})
	require.NoError(t, err)
	_, err = svc.AddCard(models.CardInput{Name: "C", Set: "Base Set", OverallGrade: "N/A"})
	require.NoError(t, err)

	min8 := 8.0
	max8 := 8.0

	tests := []struct {
		name   string
		filter models.CardFilter
		want   []string
	}{
		{"min grade excludes unparseable", models.CardFilter{MinGrade: &min8}, []string{"A"}},
		{"max grade", models.CardFilter{MaxGrade: &max8}, []string{"B"}},
		{"set substring", models.CardFilter{Set: "base"}, []string{"C", "A"}},
		{"tag overlap", models.CardFilter{Tags: []string{"holo", "modern"}}, []string{"B", "A"}},
		{"AND combination", models.CardFilter{MinGrade: &min8, Tags: []string{"vintage"}}, []string{"A"}},
		{"empty filter matches all", models.CardFilter{}, []string{"C", "B", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.GetFilteredCards(tt.filter)
			var names []string
			for _, e := range got {
				names = append(names, e.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestClearVault(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.AddCard(models.CardInput{Name: "Gone"})
	require.NoError(t, err)

	require.NoError(t, svc.ClearVault())

	assert.Empty(t, svc.Entries())
	_, ok := store.data[storageKey]
	assert.False(t, ok, "clear must erase the persisted key")
}

func TestRefreshCardsReloadsExternalState(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	_, err := svc.AddCard(models.CardInput{Name: "Before"})
	require.NoError(t, err)

	// Simulate an external writer replacing the blob
	store.data[storageKey] = []byte(`[{"id":"ext","name":"External","set":"Unknown Set"}]`)

	entries, err := svc.RefreshCards()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ext", entries[0].ID)
	assert.Equal(t, "External", svc.Entries()[0].Name)
}

func TestNewServiceWithGarbledBlobStartsEmpty(t *testing.T) {
	store := newMemStore()
	store.data[storageKey] = []byte("{not json")

	svc := NewService(store)
	assert.Empty(t, svc.Entries())
}

func TestSubscribeReceivesEvents(t *testing.T) {
	svc, _ := newTestService(t)

	var ops []EventOp
	svc.Subscribe(func(ev Event) {
		ops = append(ops, ev.Op)
	})

	entry, err := svc.AddCard(models.CardInput{Name: "Observed"})
	require.NoError(t, err)
	name := "Renamed"
	_, err = svc.UpdateCard(entry.ID, models.CardPatch{Name: &name})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCard(entry.ID))

	assert.Equal(t, []EventOp{EventAdded, EventUpdated, EventDeleted}, ops)
}
