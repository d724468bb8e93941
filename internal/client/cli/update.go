package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runUpdate(ctx context.Context, args []string) error {
	entity, err := parseEntity(args)
	if err != nil {
		return fmt.Errorf("%w. Usage: crmsync update <entity> <id> <field=value ...>", err)
	}
	if len(args) < 2 {
		return fmt.Errorf("missing record id. Usage: crmsync update <entity> <id> <field=value ...>")
	}
	id := args[1]
	fields, err := parseFields(args[2:])
	if err != nil {
		return err
	}

	// Обновление идет через загруженную коллекцию
	if err := c.dataService.Load(ctx, entity, nil); err != nil {
		return fmt.Errorf("failed to load %s: %w", entity, err)
	}

	record, err := c.dataService.Update(ctx, entity, id, fields)
	if err != nil {
		return fmt.Errorf("failed to update %s record: %w", entity, err)
	}

	c.io.Println("✓ Record updated!")
	out, err := renderTemplate("record", recordTemplate, newRecordView(record))
	if err != nil {
		return err
	}
	c.io.Println(out)
	return nil
}
