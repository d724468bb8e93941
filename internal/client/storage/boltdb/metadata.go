package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/crmsync/internal/models"
)

// metadataKey возвращает ключ метки последней загрузки сущности
func metadataKey(entity models.EntityType) []byte {
	return []byte("last_sync/" + entity)
}

// SaveLastSync saves the timestamp of the last successful load of an entity
func (s *Storage) SaveLastSync(ctx context.Context, entity models.EntityType, timestamp int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(timestamp))

		if err := bucket.Put(metadataKey(entity), buf); err != nil {
			return fmt.Errorf("failed to save last sync timestamp: %w", err)
		}

		return nil
	})
}

// GetLastSync retrieves the timestamp of the last successful load.
// Returns 0 if the entity has never been loaded.
func (s *Storage) GetLastSync(ctx context.Context, entity models.EntityType) (int64, error) {
	var timestamp int64

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		data := bucket.Get(metadataKey(entity))
		if data == nil {
			return nil
		}
		if len(data) != 8 {
			return fmt.Errorf("corrupted last sync timestamp for %s", entity)
		}

		timestamp = int64(binary.BigEndian.Uint64(data))
		return nil
	})

	if err != nil {
		return 0, err
	}

	return timestamp, nil
}
