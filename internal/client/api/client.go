package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/iudanet/crmsync/internal/models"
	"github.com/iudanet/crmsync/pkg/api"
)

//go:generate go tool moq -out client_mock.go . ClientAPI

// ClientAPI определяет интерфейс HTTP клиента record store
type ClientAPI interface {
	// SetToken устанавливает bearer token для последующих запросов
	SetToken(token string)

	// Login выполняет аутентификацию пользователя
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)

	// Refresh обновляет access token по refresh token
	Refresh(ctx context.Context, refreshToken string) (*api.TokenResponse, error)

	// Logout отзывает refresh token на сервере
	Logout(ctx context.Context, refreshToken string) error

	// ListRecords загружает все записи сущности по текущим фильтрам
	ListRecords(ctx context.Context, entity models.EntityType, opts ListOptions) (*api.RecordsResponse, error)

	// CreateRecord создает запись и возвращает каноничную версию сервера
	CreateRecord(ctx context.Context, entity models.EntityType, fields map[string]any) (*models.Record, error)

	// UpdateRecord выполняет частичное обновление записи (PATCH)
	UpdateRecord(ctx context.Context, entity models.EntityType, id string, fields map[string]any) (*models.Record, error)

	// ReplaceRecord выполняет полную замену полей записи (PUT)
	ReplaceRecord(ctx context.Context, entity models.EntityType, id string, fields map[string]any) (*models.Record, error)

	// DeleteRecord удаляет одну запись
	DeleteRecord(ctx context.Context, entity models.EntityType, id string) error

	// DeleteRecords выполняет массовое удаление; частичный отказ
	// возвращается в ответе, а не ошибкой
	DeleteRecords(ctx context.Context, entity models.EntityType, ids []string) (*api.BulkDeleteResponse, error)
}

// ListOptions настраивает bulk-загрузку списка записей
type ListOptions struct {
	Filters       map[string]string // фильтры по доменным полям
	SortField     string            // поле сортировки
	SortDirection string            // asc | desc
	SkipCache     bool              // always-fresh: cache-busting параметры + Cache-Control: no-store
}

// Client представляет HTTP клиент для взаимодействия с record store
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

var _ ClientAPI = (*Client)(nil)

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetToken устанавливает bearer token для последующих запросов
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", nil, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Refresh обновляет access token используя refresh token
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	req := api.RefreshRequest{RefreshToken: refreshToken}
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/refresh", nil, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// Logout отзывает refresh token на сервере
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	req := api.RefreshRequest{RefreshToken: refreshToken}
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/logout", nil, req, nil); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// ListRecords загружает все записи сущности, подходящие под фильтры.
// Ответ сервера авторитетен для "что сейчас соответствует этим фильтрам".
func (c *Client) ListRecords(ctx context.Context, entity models.EntityType, opts ListOptions) (*api.RecordsResponse, error) {
	query := url.Values{}
	query.Set("loadAll", "true")

	// Детерминированный порядок фильтров в URL
	keys := make([]string, 0, len(opts.Filters))
	for k := range opts.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		query.Set(k, opts.Filters[k])
	}

	if opts.SortField != "" {
		query.Set("sortField", opts.SortField)
		direction := opts.SortDirection
		if direction == "" {
			direction = "asc"
		}
		query.Set("sortDirection", direction)
	}
	if opts.SkipCache {
		// Cache-busting: обходим и серверный, и промежуточные кеши
		query.Set("skipCache", "true")
		query.Set("_t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	}

	var headers http.Header
	if opts.SkipCache {
		headers = http.Header{"Cache-Control": []string{"no-store"}}
	}

	path := fmt.Sprintf("/api/v1/%s?%s", entity, query.Encode())

	// Форма ответа не единообразна между сущностями, нормализуем
	var envelope recordsEnvelope
	if err := c.doRequest(ctx, http.MethodGet, path, headers, nil, &envelope); err != nil {
		return nil, fmt.Errorf("list %s request failed: %w", entity, err)
	}
	return envelope.normalize(), nil
}

// CreateRecord создает новую запись
func (c *Client) CreateRecord(ctx context.Context, entity models.EntityType, fields map[string]any) (*models.Record, error) {
	path := fmt.Sprintf("/api/v1/%s", entity)
	req := api.RecordRequest{Fields: fields}

	var envelope recordEnvelope
	if err := c.doRequest(ctx, http.MethodPost, path, nil, req, &envelope); err != nil {
		return nil, fmt.Errorf("create %s request failed: %w", entity, err)
	}

	rec := envelope.record()
	if rec == nil {
		return nil, fmt.Errorf("create %s: server response has no record", entity)
	}
	return toModel(rec), nil
}

// UpdateRecord выполняет частичное обновление записи
func (c *Client) UpdateRecord(ctx context.Context, entity models.EntityType, id string, fields map[string]any) (*models.Record, error) {
	return c.update(ctx, http.MethodPatch, entity, id, fields)
}

// ReplaceRecord выполняет полную замену полей записи
func (c *Client) ReplaceRecord(ctx context.Context, entity models.EntityType, id string, fields map[string]any) (*models.Record, error) {
	return c.update(ctx, http.MethodPut, entity, id, fields)
}

// update общий путь PATCH/PUT обновления
func (c *Client) update(ctx context.Context, method string, entity models.EntityType, id string, fields map[string]any) (*models.Record, error) {
	path := fmt.Sprintf("/api/v1/%s/%s", entity, url.PathEscape(id))
	req := api.RecordRequest{Fields: fields}

	var envelope recordEnvelope
	if err := c.doRequest(ctx, method, path, nil, req, &envelope); err != nil {
		return nil, fmt.Errorf("update %s/%s request failed: %w", entity, id, err)
	}

	rec := envelope.record()
	if rec == nil {
		return nil, fmt.Errorf("update %s/%s: server response has no record", entity, id)
	}
	return toModel(rec), nil
}

// DeleteRecord удаляет одну запись
func (c *Client) DeleteRecord(ctx context.Context, entity models.EntityType, id string) error {
	path := fmt.Sprintf("/api/v1/%s/%s", entity, url.PathEscape(id))
	var resp api.DeleteResponse
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil, &resp); err != nil {
		return fmt.Errorf("delete %s/%s request failed: %w", entity, id, err)
	}
	return nil
}

// DeleteRecords выполняет массовое удаление записей
func (c *Client) DeleteRecords(ctx context.Context, entity models.EntityType, ids []string) (*api.BulkDeleteResponse, error) {
	path := fmt.Sprintf("/api/v1/%s", entity)
	req := api.BulkDeleteRequest{IDs: ids}

	var resp api.BulkDeleteResponse
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, req, &resp); err != nil {
		return nil, fmt.Errorf("bulk delete %s request failed: %w", entity, err)
	}
	return &resp, nil
}

// recordsEnvelope нормализует неоднородные формы списочных ответов:
// часть эндпоинтов отдает records, часть data
type recordsEnvelope struct {
	Records   []api.Record `json:"records"`
	Data      []api.Record `json:"data"`
	FromCache bool         `json:"fromCache"`
}

func (e *recordsEnvelope) normalize() *api.RecordsResponse {
	records := e.Records
	if records == nil {
		records = e.Data
	}
	if records == nil {
		records = []api.Record{}
	}
	return &api.RecordsResponse{Records: records, FromCache: e.FromCache}
}

// recordEnvelope нормализует ответы мутаций: record либо
// singular-ключ сущности
type recordEnvelope struct {
	Record   *api.Record `json:"record"`
	Lead     *api.Record `json:"lead"`
	Activity *api.Record `json:"activity"`
	Product  *api.Record `json:"product"`
	Order    *api.Record `json:"order"`
	Variant  *api.Record `json:"variant"`
	Success  bool        `json:"success"`
}

func (e *recordEnvelope) record() *api.Record {
	for _, rec := range []*api.Record{e.Record, e.Lead, e.Activity, e.Product, e.Order, e.Variant} {
		if rec != nil {
			return rec
		}
	}
	return nil
}

// toModel конвертирует wire-запись в доменную модель
func toModel(r *api.Record) *models.Record {
	return &models.Record{
		ID:          r.ID,
		CreatedTime: r.CreatedTime,
		Fields:      r.Fields,
	}
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, headers http.Header, body, result interface{}) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код. Статус сохраняется в типизированной ошибке,
	// чтобы retry-слой отличал транзиентные 5xx/429 от терминальных 4xx
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return &api.StatusError{StatusCode: resp.StatusCode, Message: errResp.Message}
		}
		return &api.StatusError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
