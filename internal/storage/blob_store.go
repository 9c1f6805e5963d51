// Package storage persists the vault as a single blob under one
// storage key. The blob is a JSON array of collection entries; no
// schema version is stored alongside it (only export packages carry a
// version field).
package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VaultBlob is one storage key and its serialized payload.
type VaultBlob struct {
	Key       string `gorm:"primaryKey"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// StorageError wraps a failed read or write against the blob table.
// Write failures must reach the caller; they are never swallowed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// BlobStore reads and writes single-key blobs through gorm.
type BlobStore struct {
	db *gorm.DB
}

func NewBlobStore(db *gorm.DB) *BlobStore {
	return &BlobStore{db: db}
}

// Load returns the payload under key. An absent key is not an error:
// it returns (nil, false, nil) and reads as an empty vault.
func (s *BlobStore) Load(key string) ([]byte, bool, error) {
	var blob VaultBlob
	err := s.db.First(&blob, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &StorageError{Op: "load", Err: err}
	}
	return blob.Data, true, nil
}

// Save upserts the payload under key.
func (s *BlobStore) Save(key string, data []byte) error {
	blob := VaultBlob{Key: key, Data: data, UpdatedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&blob).Error
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// Delete removes the key. Deleting an absent key is a no-op.
func (s *BlobStore) Delete(key string) error {
	if err := s.db.Delete(&VaultBlob{}, "key = ?", key).Error; err != nil {
		return &StorageError{Op: "delete", Err: err}
	}
	return nil
}
