package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/crmsync/internal/models"
	"github.com/iudanet/crmsync/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	assert.NotNil(t, client)
	assert.Equal(t, baseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

// TestClient_Login проверяет успешную аутентификацию
func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.LoginRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		assert.Equal(t, "admin", req.Username)

		w.WriteHeader(http.StatusOK)
		resp := api.TokenResponse{
			UserID:       "user-uuid-123",
			AccessToken:  "access_token_123",
			RefreshToken: "refresh_token_456",
			ExpiresIn:    900,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	resp, err := client.Login(ctx, api.LoginRequest{Username: "admin", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "user-uuid-123", resp.UserID)
	assert.Equal(t, "access_token_123", resp.AccessToken)
	assert.Equal(t, "refresh_token_456", resp.RefreshToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)
}

// TestClient_Login_InvalidCredentials проверяет обработку неверных учетных данных
func TestClient_Login_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Message: "invalid credentials"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Login(context.Background(), api.LoginRequest{Username: "admin", Password: "wrong"})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "server error (401): invalid credentials")

	// Статус сохранен в типизированной ошибке
	var statusErr *api.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.False(t, statusErr.Retryable())
}

// TestClient_ListRecords проверяет bulk-загрузку с фильтрами и сортировкой
func TestClient_ListRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/v1/leads", r.URL.Path)
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("loadAll"))
		assert.Equal(t, "qualified", q.Get("status"))
		assert.Equal(t, "createdTime", q.Get("sortField"))
		assert.Equal(t, "desc", q.Get("sortDirection"))
		assert.Empty(t, q.Get("skipCache"))

		w.WriteHeader(http.StatusOK)
		resp := api.RecordsResponse{
			Records: []api.Record{
				{ID: "rec-1", Fields: map[string]any{"name": "Acme"}},
				{ID: "rec-2", Fields: map[string]any{"name": "Beta"}},
			},
			FromCache: true,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("test_token")

	resp, err := client.ListRecords(context.Background(), models.EntityLeads, ListOptions{
		Filters:       map[string]string{"status": "qualified"},
		SortField:     "createdTime",
		SortDirection: "desc",
	})

	require.NoError(t, err)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "rec-1", resp.Records[0].ID)
	assert.True(t, resp.FromCache)
}

// TestClient_ListRecords_SkipCache проверяет режим принудительно свежих данных:
// cache-busting параметры и заголовок Cache-Control
func TestClient_ListRecords_SkipCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("skipCache"))
		assert.NotEmpty(t, q.Get("_t"))
		assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(api.RecordsResponse{Records: []api.Record{}})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.ListRecords(context.Background(), models.EntityLeads, ListOptions{SkipCache: true})

	require.NoError(t, err)
	assert.False(t, resp.FromCache)
}

// TestClient_ListRecords_DataEnvelope проверяет нормализацию ответа
// с ключом data вместо records
func TestClient_ListRecords_DataEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":[{"id":"rec-9","fields":{"name":"Gamma"}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.ListRecords(context.Background(), models.EntityOrders, ListOptions{})

	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "rec-9", resp.Records[0].ID)
}

// TestClient_CreateRecord проверяет создание записи
func TestClient_CreateRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/leads", r.URL.Path)

		var req api.RecordRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		assert.Equal(t, "Acme", req.Fields["name"])

		w.WriteHeader(http.StatusCreated)
		resp := api.RecordResponse{
			Success: true,
			Record:  api.Record{ID: "rec-new", Fields: req.Fields, CreatedTime: time.Now()},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	rec, err := client.CreateRecord(context.Background(), models.EntityLeads, map[string]any{"name": "Acme"})

	require.NoError(t, err)
	assert.Equal(t, "rec-new", rec.ID)
	assert.Equal(t, "Acme", rec.Fields["name"])
	assert.False(t, rec.CreatedTime.IsZero())
}

// TestClient_CreateRecord_SingularEnvelope проверяет нормализацию
// singular-ключа сущности в ответе мутации
func TestClient_CreateRecord_SingularEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"lead":{"id":"rec-lead-1","fields":{"name":"Acme"}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	rec, err := client.CreateRecord(context.Background(), models.EntityLeads, map[string]any{"name": "Acme"})

	require.NoError(t, err)
	assert.Equal(t, "rec-lead-1", rec.ID)
}

// TestClient_CreateRecord_NoRecord проверяет ответ мутации без записи
func TestClient_CreateRecord_NoRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	rec, err := client.CreateRecord(context.Background(), models.EntityLeads, map[string]any{"name": "Acme"})

	require.Error(t, err)
	assert.Nil(t, rec)
	assert.Contains(t, err.Error(), "no record")
}

// TestClient_UpdateRecord проверяет частичное обновление (PATCH)
func TestClient_UpdateRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PATCH", r.Method)
		assert.Equal(t, "/api/v1/leads/rec-1", r.URL.Path)

		var req api.RecordRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.WriteHeader(http.StatusOK)
		resp := api.RecordResponse{
			Success: true,
			Record:  api.Record{ID: "rec-1", Fields: map[string]any{"name": "Acme", "status": "qualified"}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	rec, err := client.UpdateRecord(context.Background(), models.EntityLeads, "rec-1", map[string]any{"status": "qualified"})

	require.NoError(t, err)
	assert.Equal(t, "qualified", rec.Fields["status"])
}

// TestClient_ReplaceRecord проверяет полную замену (PUT)
func TestClient_ReplaceRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "/api/v1/products/rec-2", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		resp := api.RecordResponse{
			Success: true,
			Record:  api.Record{ID: "rec-2", Fields: map[string]any{"name": "Widget"}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	rec, err := client.ReplaceRecord(context.Background(), models.EntityProducts, "rec-2", map[string]any{"name": "Widget"})

	require.NoError(t, err)
	assert.Equal(t, "Widget", rec.Fields["name"])
}

// TestClient_UpdateRecord_NotFound проверяет обработку 404
func TestClient_UpdateRecord_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Message: "record not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	rec, err := client.UpdateRecord(context.Background(), models.EntityLeads, "missing", map[string]any{})

	require.Error(t, err)
	assert.Nil(t, rec)
	assert.Contains(t, err.Error(), "server error (404): record not found")
}

// TestClient_DeleteRecord проверяет удаление одной записи
func TestClient_DeleteRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DELETE", r.Method)
		assert.Equal(t, "/api/v1/leads/rec-1", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(api.DeleteResponse{Success: true})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.DeleteRecord(context.Background(), models.EntityLeads, "rec-1")

	require.NoError(t, err)
}

// TestClient_DeleteRecords проверяет массовое удаление с частичным отказом
func TestClient_DeleteRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DELETE", r.Method)
		assert.Equal(t, "/api/v1/leads", r.URL.Path)

		var req api.BulkDeleteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a", "b", "c"}, req.IDs)

		w.WriteHeader(http.StatusOK)
		resp := api.BulkDeleteResponse{
			Success:    false,
			Deleted:    2,
			Requested:  3,
			DeletedIDs: []string{"a", "b"},
			Errors:     []string{"c: record not found"},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.DeleteRecords(context.Background(), models.EntityLeads, []string{"a", "b", "c"})

	// Частичный отказ не является ошибкой транспортного уровня
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Deleted)
	assert.Equal(t, 3, resp.Requested)
	assert.Equal(t, []string{"a", "b"}, resp.DeletedIDs)
	assert.Len(t, resp.Errors, 1)
}

// TestClient_RateLimited проверяет что 429 сохраняется как retryable ошибка
func TestClient_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Message: "rate limited"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListRecords(context.Background(), models.EntityLeads, ListOptions{})

	require.Error(t, err)
	var statusErr *api.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.True(t, statusErr.Retryable())
}

// TestClient_ContextCancellation проверяет отмену запроса через контекст
func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Имитируем долгий запрос
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.ListRecords(ctx, models.EntityLeads, ListOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "context deadline exceeded")
}

// TestClient_InvalidJSON проверяет обработку невалидного JSON в ответе
func TestClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("invalid json {{{"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListRecords(context.Background(), models.EntityLeads, ListOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

// TestClient_Refresh проверяет обновление токенов
func TestClient_Refresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/auth/refresh", r.URL.Path)

		var req api.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "old_refresh", req.RefreshToken)

		w.WriteHeader(http.StatusOK)
		resp := api.TokenResponse{
			UserID:       "user-1",
			AccessToken:  "new_access",
			RefreshToken: "new_refresh",
			ExpiresIn:    900,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Refresh(context.Background(), "old_refresh")

	require.NoError(t, err)
	assert.Equal(t, "new_access", resp.AccessToken)
	assert.Equal(t, "new_refresh", resp.RefreshToken)
}

// TestClient_Logout проверяет отзыв refresh token
func TestClient_Logout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/auth/logout", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"Logout successful"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Logout(context.Background(), "refresh_token")

	require.NoError(t, err)
}
