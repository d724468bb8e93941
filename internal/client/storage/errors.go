package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no session exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrSnapshotNotFound indicates that no snapshot exists for the entity
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
