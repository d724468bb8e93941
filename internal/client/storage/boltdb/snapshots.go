package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/crmsync/internal/client/storage"
	"github.com/iudanet/crmsync/internal/models"
)

// SaveSnapshot stores the collection, replacing the previous snapshot
// of the same entity
func (s *Storage) SaveSnapshot(ctx context.Context, snapshot *storage.Snapshot) error {
	if !snapshot.Entity.Valid() {
		return fmt.Errorf("invalid entity type: %s", snapshot.Entity)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil {
			return fmt.Errorf("snapshots bucket not found")
		}

		data, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}

		if err := bucket.Put([]byte(snapshot.Entity), data); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}

		return nil
	})
}

// GetSnapshot retrieves the last saved collection of an entity
func (s *Storage) GetSnapshot(ctx context.Context, entity models.EntityType) (*storage.Snapshot, error) {
	var snapshot *storage.Snapshot

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil {
			return fmt.Errorf("snapshots bucket not found")
		}

		data := bucket.Get([]byte(entity))
		if data == nil {
			return storage.ErrSnapshotNotFound
		}

		snapshot = &storage.Snapshot{}
		if err := json.Unmarshal(data, snapshot); err != nil {
			return fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// DeleteSnapshots removes all stored snapshots (logout)
func (s *Storage) DeleteSnapshots(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketSnapshots); err != nil {
			return fmt.Errorf("failed to delete snapshots bucket: %w", err)
		}
		if _, err := tx.CreateBucket(bucketSnapshots); err != nil {
			return fmt.Errorf("failed to recreate snapshots bucket: %w", err)
		}
		return nil
	})
}
