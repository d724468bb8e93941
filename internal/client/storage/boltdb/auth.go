package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/crmsync/internal/client/storage"
)

// Сессия одна на клиент, поэтому ключ фиксированный
var authKey = []byte("current")

// SaveAuth сохраняет сессию после логина или обновления токенов
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	data, err := json.Marshal(auth)
	if err != nil {
		return fmt.Errorf("failed to marshal auth data: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}
		return bucket.Put(authKey, data)
	})
}

// GetAuth возвращает сохраненную сессию
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	var auth storage.AuthData

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		data := bucket.Get(authKey)
		if data == nil {
			return storage.ErrAuthNotFound
		}
		if err := json.Unmarshal(data, &auth); err != nil {
			return fmt.Errorf("failed to unmarshal auth data: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &auth, nil
}

// DeleteAuth стирает сессию при logout
func (s *Storage) DeleteAuth(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}
		if bucket.Get(authKey) == nil {
			return storage.ErrAuthNotFound
		}
		return bucket.Delete(authKey)
	})
}

// IsAuthenticated проверяет, что есть сессия с неистекшим access token
func (s *Storage) IsAuthenticated(ctx context.Context) (bool, error) {
	auth, err := s.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return !auth.Expired(time.Now()), nil
}
