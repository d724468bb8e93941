package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iudanet/crmsync/internal/models"
	"github.com/iudanet/crmsync/internal/validation"
)

// parseEntity разбирает имя сущности из аргумента команды
func parseEntity(args []string) (models.EntityType, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("missing entity. Use: leads, activities, products, orders, product-variants")
	}
	entity := models.EntityType(args[0])
	if err := validation.ValidateEntity(entity); err != nil {
		return "", err
	}
	return entity, nil
}

// parseFields разбирает аргументы вида field=value в поля записи
func parseFields(args []string) (map[string]any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing fields. Use: field=value [field=value ...]")
	}
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid field argument %q, expected field=value", arg)
		}
		fields[name] = value
	}
	if err := validation.ValidateFields(fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// parseFilters разбирает аргументы вида field=value в фильтры списка
func parseFilters(args []string) (map[string]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	filters := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid filter argument %q, expected field=value", arg)
		}
		filters[name] = value
	}
	return filters, nil
}

// newRecordView готовит запись к выводу, поля сортируются по имени
func newRecordView(record *models.Record) recordView {
	view := recordView{ID: record.ID}
	names := make([]string, 0, len(record.Fields))
	for name := range record.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		view.Fields = append(view.Fields, fieldView{
			Name:  name,
			Value: fmt.Sprintf("%v", record.Fields[name]),
		})
	}
	return view
}

func formatFilters(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(filters))
	for name, value := range filters {
		pairs = append(pairs, name+"="+value)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}
