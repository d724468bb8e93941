package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iudanet/crmsync/internal/models"
	"github.com/iudanet/crmsync/internal/server/storage"
)

// CreateRecord inserts a new record
func (s *Storage) CreateRecord(ctx context.Context, entity models.EntityType, record *models.Record) error {
	fieldsJSON, err := json.Marshal(record.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}

	if record.CreatedTime.IsZero() {
		record.CreatedTime = time.Now().UTC()
	}

	query := `
		INSERT INTO records (id, entity, fields_json, created_time, updated_time)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		string(entity),
		string(fieldsJSON),
		record.CreatedTime,
		record.CreatedTime,
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrRecordAlreadyExists
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

// GetRecord retrieves a record by id
func (s *Storage) GetRecord(ctx context.Context, entity models.EntityType, id string) (*models.Record, error) {
	query := `
		SELECT id, fields_json, created_time
		FROM records
		WHERE entity = ? AND id = ?
	`

	record, err := scanRecord(s.db.QueryRowContext(ctx, query, string(entity), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return record, nil
}

// ListRecords retrieves all records of the entity matching the query.
// Фильтры и сортировка по доменным полям работают через json_extract.
func (s *Storage) ListRecords(ctx context.Context, entity models.EntityType, query storage.ListQuery) ([]*models.Record, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, fields_json, created_time FROM records WHERE entity = ?`)
	args := []any{string(entity)}

	// Ключи фильтров сортируются, чтобы SQL был детерминированным
	names := make([]string, 0, len(query.Filters))
	for name := range query.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(` AND json_extract(fields_json, ?) = ?`)
		args = append(args, "$."+name, query.Filters[name])
	}

	sb.WriteString(` ORDER BY `)
	if query.SortField == "" {
		sb.WriteString(`created_time`)
	} else {
		sb.WriteString(`json_extract(fields_json, ?)`)
		args = append(args, "$."+query.SortField)
	}
	if strings.EqualFold(query.SortDirection, "desc") {
		sb.WriteString(` DESC`)
	} else {
		sb.WriteString(` ASC`)
	}
	// Стабильный порядок для записей с одинаковым значением сортировки
	sb.WriteString(`, id ASC`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []*models.Record

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// UpdateRecord merges fields into an existing record and returns the result
func (s *Storage) UpdateRecord(ctx context.Context, entity models.EntityType, id string, fields map[string]any) (*models.Record, error) {
	return s.writeFields(ctx, entity, id, fields, true)
}

// ReplaceRecord replaces the whole attribute bag of an existing record
func (s *Storage) ReplaceRecord(ctx context.Context, entity models.EntityType, id string, fields map[string]any) (*models.Record, error) {
	return s.writeFields(ctx, entity, id, fields, false)
}

// writeFields обновляет attribute bag записи в одной транзакции.
// merge=true накладывает поля поверх существующих, merge=false заменяет целиком.
func (s *Storage) writeFields(ctx context.Context, entity models.EntityType, id string, fields map[string]any, merge bool) (*models.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	current, err := scanRecord(tx.QueryRowContext(ctx,
		`SELECT id, fields_json, created_time FROM records WHERE entity = ? AND id = ?`,
		string(entity), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	next := fields
	if merge {
		next = current.Fields
		if next == nil {
			next = make(map[string]any, len(fields))
		}
		for name, value := range fields {
			next[name] = value
		}
	}

	fieldsJSON, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fields: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE records SET fields_json = ?, updated_time = ? WHERE entity = ? AND id = ?`,
		string(fieldsJSON), time.Now().UTC(), string(entity), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	current.Fields = next
	return current, nil
}

// DeleteRecord deletes a record by id
func (s *Storage) DeleteRecord(ctx context.Context, entity models.EntityType, id string) error {
	return s.execExpectingRow(ctx, storage.ErrRecordNotFound,
		`DELETE FROM records WHERE entity = ? AND id = ?`, string(entity), id)
}

// scanner покрывает sql.Row и sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.Record, error) {
	var (
		record     models.Record
		fieldsJSON string
	)

	if err := row.Scan(&record.ID, &fieldsJSON, &record.CreatedTime); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(fieldsJSON), &record.Fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fields: %w", err)
	}

	return &record, nil
}
