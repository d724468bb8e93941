package listsync

import (
	"sort"
	"strings"
)

// normalizeFilters возвращает копию фильтров без пустых значений
// и с обрезанными пробелами
func normalizeFilters(filters map[string]string) map[string]string {
	if len(filters) == 0 {
		return nil
	}
	out := make(map[string]string, len(filters))
	for k, v := range filters {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// filterKey возвращает каноничный ключ идентичности набора фильтров.
// Наборы с одинаковыми парами ключ-значение считаются одним запросом
// независимо от порядка.
func filterKey(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(filters[k])
	}
	return b.String()
}
