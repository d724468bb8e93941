package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/crmsync/internal/models"
	"github.com/iudanet/crmsync/internal/server/storage"
)

// SaveRefreshToken сохраняет refresh token. В таблице лежит только
// sha256-хеш, повторное сохранение того же хеша перезаписывает строку.
func (s *Storage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT OR REPLACE INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query,
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}

	return nil
}

// GetRefreshToken ищет токен по хешу
func (s *Storage) GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM refresh_tokens
		WHERE token_hash = ?
	`

	var token models.RefreshToken
	err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &token, nil
}

// DeleteRefreshToken отзывает один токен по хешу
func (s *Storage) DeleteRefreshToken(ctx context.Context, tokenHash string) error {
	return s.execExpectingRow(ctx, storage.ErrTokenNotFound,
		`DELETE FROM refresh_tokens WHERE token_hash = ?`, tokenHash)
}

// DeleteUserTokens отзывает все сессии пользователя, возвращает число удаленных
func (s *Storage) DeleteUserTokens(ctx context.Context, userID string) (int, error) {
	return s.execCounting(ctx, `DELETE FROM refresh_tokens WHERE user_id = ?`, userID)
}

// DeleteExpiredTokens удаляет истекшие токены, вызывается фоновой очисткой
func (s *Storage) DeleteExpiredTokens(ctx context.Context) (int, error) {
	return s.execCounting(ctx, `DELETE FROM refresh_tokens WHERE expires_at < datetime('now')`)
}

func (s *Storage) execCounting(ctx context.Context, query string, args ...any) (int, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
