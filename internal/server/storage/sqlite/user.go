package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/crmsync/internal/models"
	"github.com/iudanet/crmsync/internal/server/storage"
)

const userColumns = "id, username, password_hash, created_at, updated_at"

// CreateUser добавляет пользователя админки
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return scanUser(s.db.QueryRowContext(ctx, query, username))
}

func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(s.db.QueryRowContext(ctx, query, userID))
}

func scanUser(row scanner) (*models.User, error) {
	var user models.User

	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return &user, nil
}

// UpdateUser перезаписывает username и хеш пароля
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET username = ?, password_hash = ?, updated_at = ? WHERE id = ?`
	return s.execExpectingRow(ctx, storage.ErrUserNotFound, query,
		user.Username, user.PasswordHash, user.UpdatedAt, user.ID)
}

// DeleteUser удаляет пользователя; его refresh tokens уходят каскадом по FK
func (s *Storage) DeleteUser(ctx context.Context, userID string) error {
	return s.execExpectingRow(ctx, storage.ErrUserNotFound, `DELETE FROM users WHERE id = ?`, userID)
}

// execExpectingRow выполняет запрос, который обязан затронуть хотя бы
// одну строку, иначе возвращает notFound
func (s *Storage) execExpectingRow(ctx context.Context, notFound error, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}

	return nil
}
