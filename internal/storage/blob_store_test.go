package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *BlobStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&VaultBlob{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewBlobStore(db)
}

func TestLoadAbsentKey(t *testing.T) {
	store := newTestStore(t)

	data, ok, err := store.Load("missing")
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for absent key", err)
	}
	if ok {
		t.Error("Load() ok = true for absent key")
	}
	if data != nil {
		t.Errorf("Load() data = %v, want nil", data)
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	payload := []byte(`[{"id":"a"}]`)
	if err := store.Save("vault.entries", payload); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, ok, err := store.Load("vault.entries")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !ok {
		t.Fatal("Load() ok = false after save")
	}
	if string(data) != string(payload) {
		t.Errorf("Load() = %s, want %s", data, payload)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("key", []byte("first")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save("key", []byte("second")); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	data, _, err := store.Load("key")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("Load() = %s, want second", data)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("key", []byte("data")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete("key"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, ok, err := store.Load("key")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok {
		t.Error("key still present after delete")
	}

	// Deleting again is a no-op
	if err := store.Delete("key"); err != nil {
		t.Errorf("Delete() on absent key error = %v, want nil", err)
	}
}

func TestStorageErrorWrapsCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := &StorageError{Op: "save", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("StorageError does not unwrap to its cause")
	}
	if err.Error() != "storage save: disk on fire" {
		t.Errorf("Error() = %q", err.Error())
	}
}
