package models

import (
	"time"
)

// EntityType представляет тип CRM-сущности (коллекцию записей)
type EntityType string

// Типы сущностей, которые обслуживает record store
const (
	EntityLeads           EntityType = "leads"
	EntityActivities      EntityType = "activities"
	EntityProducts        EntityType = "products"
	EntityOrders          EntityType = "orders"
	EntityProductVariants EntityType = "product-variants"
)

// AllEntities перечисляет все поддерживаемые типы сущностей
var AllEntities = []EntityType{
	EntityLeads,
	EntityActivities,
	EntityProducts,
	EntityOrders,
	EntityProductVariants,
}

// Valid проверяет, что тип сущности поддерживается
func (e EntityType) Valid() bool {
	for _, known := range AllEntities {
		if e == known {
			return true
		}
	}
	return false
}

// Record представляет одну запись CRM (лид, активность, товар, заказ).
// Помимо ID и CreatedTime все поля доменные и хранятся как нетипизированный
// attribute bag: ядро синхронизации их не интерпретирует.
type Record struct {
	CreatedTime time.Time      `json:"createdTime"` // CreatedTime время создания записи на сервере
	Fields      map[string]any `json:"fields"`      // Fields доменные поля записи
	ID          string         `json:"id"`          // ID уникальный идентификатор записи
}

// Clone создает глубокую копию записи.
// Rollback оптимистичной мутации обязан восстанавливать состояние
// бит-в-бит, поэтому копия не разделяет память с оригиналом.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	return &Record{
		ID:          r.ID,
		CreatedTime: r.CreatedTime,
		Fields:      cloneFields(r.Fields),
	}
}

// Merge накладывает поля fresh поверх текущей записи.
// Используется при получении подтвержденных сервером данных
// через cache invalidation bus без полного refetch.
func (r *Record) Merge(fresh *Record) {
	if fresh == nil {
		return
	}
	if r.Fields == nil {
		r.Fields = make(map[string]any, len(fresh.Fields))
	}
	for k, v := range fresh.Fields {
		r.Fields[k] = cloneValue(v)
	}
	if !fresh.CreatedTime.IsZero() {
		r.CreatedTime = fresh.CreatedTime
	}
}

// cloneFields делает глубокую копию attribute bag
func cloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue копирует вложенные map/slice значения, остальные типы
// (строки, числа, bool, time.Time) копируются по значению
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneFields(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
