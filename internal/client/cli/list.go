package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runList(ctx context.Context, args []string) error {
	entity, err := parseEntity(args)
	if err != nil {
		return fmt.Errorf("%w. Usage: crmsync list <entity> [field=value ...]", err)
	}
	filters, err := parseFilters(args[1:])
	if err != nil {
		return err
	}

	loadErr := c.dataService.Load(ctx, entity, filters)

	records, fromSnapshot, err := c.dataService.Records(ctx, entity)
	if err != nil {
		if loadErr != nil {
			return fmt.Errorf("failed to load %s: %w", entity, loadErr)
		}
		return err
	}

	view := recordListView{
		Entity:  string(entity),
		Filters: formatFilters(filters),
		Offline: fromSnapshot,
	}
	if fromSnapshot {
		// Сервер недоступен, показываем офлайн-копию со временем снапшота
		if lastSync, err := c.dataService.LastSync(ctx, entity); err == nil && !lastSync.IsZero() {
			view.SavedAt = lastSync.Format(time.RFC3339)
		} else {
			view.SavedAt = "unknown time"
		}
	}
	for _, record := range records {
		view.Records = append(view.Records, newRecordView(record))
	}

	out, err := renderTemplate("record-list", recordListTemplate, view)
	if err != nil {
		return err
	}
	c.io.Println(out)
	return nil
}
