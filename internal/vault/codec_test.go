package vault

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyseavey/card-vault/internal/models"
)

func TestExportVaultNullsPhotoURI(t *testing.T) {
	svc, _ := newTestService(t)

	photo := "file:///local/scan.jpg"
	_, err := svc.AddCard(models.CardInput{Name: "Charizard", PhotoURI: &photo})
	require.NoError(t, err)

	pkg := svc.ExportVault()

	assert.Equal(t, models.ExportVersion, pkg.Version)
	assert.Equal(t, 1, pkg.TotalCards)
	require.Len(t, pkg.Cards, 1)
	assert.Nil(t, pkg.Cards[0].PhotoURI)

	// The vault itself keeps the photo reference
	entries := svc.Entries()
	require.NotNil(t, entries[0].PhotoURI)
}

func TestImportVaultRejectsMalformedPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "{oops"},
		{"missing cards field", `{"version":"1.0","total_cards":0}`},
		{"explicit null cards field", `{"version":"1.0","cards":null}`},
		{"cards not an array", `{"version":"1.0","cards":{"id":"a"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			_, err := svc.AddCard(models.CardInput{Name: "Untouched"})
			require.NoError(t, err)

			_, err = svc.ImportVault([]byte(tt.payload), false)
			assert.ErrorIs(t, err, ErrInvalidFormat)
			assert.Len(t, svc.Entries(), 1, "rejected import must not change the vault")
		})
	}
}

func TestImportVaultReplace(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddCard(models.CardInput{Name: "Old"})
	require.NoError(t, err)

	payload := `{"version":"1.0","cards":[{"id":"n1","name":"New One"},{"id":"n2","name":"New Two"}]}`
	result, err := svc.ImportVault([]byte(payload), false)
	require.NoError(t, err)

	assert.Equal(t, models.ImportResult{Imported: 2, Total: 2}, result)
	entries := svc.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "n1", entries[0].ID)
	assert.Equal(t, "n2", entries[1].ID)
}

func TestImportVaultMergeDropsDuplicatesAndAppends(t *testing.T) {
	svc, _ := newTestService(t)

	existing, err := svc.AddCard(models.CardInput{Name: "Existing"})
	require.NoError(t, err)

	pkg := models.ExportPackage{
		Version: models.ExportVersion,
		Cards: []models.CollectionEntry{
			{ID: existing.ID, Name: "Duplicate"},
			{ID: "new-1", Name: "Fresh"},
			{ID: "new-2", Name: "Fresher"},
		},
	}
	data, err := json.Marshal(pkg)
	require.NoError(t, err)

	result, err := svc.ImportVault(data, true)
	require.NoError(t, err)

	assert.Equal(t, models.ImportResult{Imported: 2, Total: 3}, result)
	entries := svc.Entries()
	require.Len(t, entries, 3)
	// Existing order preserved, new entries appended in import order
	assert.Equal(t, existing.ID, entries[0].ID)
	assert.Equal(t, "Existing", entries[0].Name, "duplicate import must not overwrite the existing entry")
	assert.Equal(t, "new-1", entries[1].ID)
	assert.Equal(t, "new-2", entries[2].ID)
}

func TestImportVaultMergeAllDuplicatesLeavesCountUnchanged(t *testing.T) {
	svc, _ := newTestService(t)

	existing, err := svc.AddCard(models.CardInput{Name: "Only"})
	require.NoError(t, err)

	pkg := svc.ExportVault()
	data, err := json.Marshal(pkg)
	require.NoError(t, err)

	result, err := svc.ImportVault(data, true)
	require.NoError(t, err)

	assert.Equal(t, models.ImportResult{Imported: 0, Total: 1}, result)
	assert.Equal(t, existing.ID, svc.Entries()[0].ID)
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	photo := "file:///scan.jpg"
	_, err := svc.AddCard(models.CardInput{
		Name:         "Charizard",
		Set:          "Base Set",
		SetNumber:    "4/102",
		OverallGrade: "9.5",
		Subgrades:    []models.Subgrade{{Label: "centering", Value: 9.0}, {Label: "surface", Value: 9.5}},
		MarketValue:  "$420.00",
		PhotoURI:     &photo,
		Confidence:   0.97,
		Notes:        "grail",
		Tags:         []string{"vintage", "holo"},
	})
	require.NoError(t, err)
	_, err = svc.AddCard(models.CardInput{Name: "Pikachu"})
	require.NoError(t, err)

	before := svc.Entries()

	data, err := json.Marshal(svc.ExportVault())
	require.NoError(t, err)

	result, err := svc.ImportVault(data, false)
	require.NoError(t, err)
	require.Equal(t, 2, result.Total)

	after := svc.Entries()
	require.Len(t, after, len(before))
	for i := range before {
		expected := before[i]
		expected.PhotoURI = nil // export nulls local photo references
		assert.Equal(t, expected.ID, after[i].ID)
		assert.Equal(t, expected.Name, after[i].Name)
		assert.Equal(t, expected.Subgrades, after[i].Subgrades)
		assert.Equal(t, expected.MarketValue, after[i].MarketValue)
		assert.Equal(t, expected.Tags, after[i].Tags)
		assert.Nil(t, after[i].PhotoURI)
		assert.True(t, expected.ScannedAt.Equal(after[i].ScannedAt))
	}
}
