package handlers

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/crmsync/internal/models"
	"github.com/iudanet/crmsync/internal/server/storage"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

func testJWTConfig() JWTConfig {
	return JWTConfig{
		Secret:          []byte("test-secret"),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	}
}

func mustHashPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users       map[string]*models.User // username -> User
	createError error
	getError    error
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Username]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdateUser(ctx context.Context, user *models.User) error {
	return nil
}

func (m *mockUserStorage) DeleteUser(ctx context.Context, id string) error {
	return nil
}

// mockTokenStorage is a mock implementation of TokenStorage for testing
type mockTokenStorage struct {
	tokens        map[string]*models.RefreshToken // token_hash -> RefreshToken
	saveError     error
	getError      error
	deleteError   error
	savedTokens   []*models.RefreshToken
	deletedHashes []string
}

func newMockTokenStorage() *mockTokenStorage {
	return &mockTokenStorage{tokens: make(map[string]*models.RefreshToken)}
}

func (m *mockTokenStorage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.tokens[token.TokenHash] = token
	m.savedTokens = append(m.savedTokens, token)
	return nil
}

func (m *mockTokenStorage) GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	rt, ok := m.tokens[tokenHash]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}
	return rt, nil
}

func (m *mockTokenStorage) DeleteRefreshToken(ctx context.Context, tokenHash string) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	if _, ok := m.tokens[tokenHash]; !ok {
		return storage.ErrTokenNotFound
	}
	delete(m.tokens, tokenHash)
	m.deletedHashes = append(m.deletedHashes, tokenHash)
	return nil
}

func (m *mockTokenStorage) DeleteUserTokens(ctx context.Context, userID string) (int, error) {
	if m.deleteError != nil {
		return 0, m.deleteError
	}
	count := 0
	for hash, rt := range m.tokens {
		if rt.UserID == userID {
			delete(m.tokens, hash)
			m.deletedHashes = append(m.deletedHashes, hash)
			count++
		}
	}
	return count, nil
}

func (m *mockTokenStorage) DeleteExpiredTokens(ctx context.Context) (int, error) {
	return 0, nil
}

// mockRecordStorage is an in-memory implementation of RecordStorage for testing
type mockRecordStorage struct {
	records     map[models.EntityType]map[string]*models.Record
	listError   error
	createError error
	deleteError error
}

func newMockRecordStorage() *mockRecordStorage {
	return &mockRecordStorage{records: make(map[models.EntityType]map[string]*models.Record)}
}

func (m *mockRecordStorage) put(entity models.EntityType, record *models.Record) {
	if m.records[entity] == nil {
		m.records[entity] = make(map[string]*models.Record)
	}
	m.records[entity][record.ID] = record
}

func (m *mockRecordStorage) CreateRecord(ctx context.Context, entity models.EntityType, record *models.Record) error {
	if m.createError != nil {
		return m.createError
	}
	if _, ok := m.records[entity][record.ID]; ok {
		return storage.ErrRecordAlreadyExists
	}
	if record.CreatedTime.IsZero() {
		record.CreatedTime = time.Now()
	}
	m.put(entity, record)
	return nil
}

func (m *mockRecordStorage) GetRecord(ctx context.Context, entity models.EntityType, id string) (*models.Record, error) {
	record, ok := m.records[entity][id]
	if !ok {
		return nil, storage.ErrRecordNotFound
	}
	return record, nil
}

func (m *mockRecordStorage) ListRecords(ctx context.Context, entity models.EntityType, query storage.ListQuery) ([]*models.Record, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var out []*models.Record
	for _, record := range m.records[entity] {
		match := true
		for name, value := range query.Filters {
			if s, ok := record.Fields[name].(string); !ok || s != value {
				match = false
				break
			}
		}
		if match {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRecordStorage) UpdateRecord(ctx context.Context, entity models.EntityType, id string, fields map[string]any) (*models.Record, error) {
	record, ok := m.records[entity][id]
	if !ok {
		return nil, storage.ErrRecordNotFound
	}
	for name, value := range fields {
		record.Fields[name] = value
	}
	return record, nil
}

func (m *mockRecordStorage) ReplaceRecord(ctx context.Context, entity models.EntityType, id string, fields map[string]any) (*models.Record, error) {
	record, ok := m.records[entity][id]
	if !ok {
		return nil, storage.ErrRecordNotFound
	}
	record.Fields = fields
	return record, nil
}

func (m *mockRecordStorage) DeleteRecord(ctx context.Context, entity models.EntityType, id string) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	if _, ok := m.records[entity][id]; !ok {
		return storage.ErrRecordNotFound
	}
	delete(m.records[entity], id)
	return nil
}

// mockListCache is a mock implementation of ListCache keyed by entity
type mockListCache struct {
	data          map[models.EntityType][]*models.Record
	getError      error
	invalidations []models.EntityType
	sets          int
}

func newMockListCache() *mockListCache {
	return &mockListCache{data: make(map[models.EntityType][]*models.Record)}
}

func (m *mockListCache) Get(ctx context.Context, entity models.EntityType, query storage.ListQuery) ([]*models.Record, bool, error) {
	if m.getError != nil {
		return nil, false, m.getError
	}
	records, ok := m.data[entity]
	return records, ok, nil
}

func (m *mockListCache) Set(ctx context.Context, entity models.EntityType, query storage.ListQuery, records []*models.Record) error {
	m.data[entity] = records
	m.sets++
	return nil
}

func (m *mockListCache) Invalidate(ctx context.Context, entity models.EntityType) error {
	delete(m.data, entity)
	m.invalidations = append(m.invalidations, entity)
	return nil
}

// mockPinger implements Pinger for health check tests
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}
