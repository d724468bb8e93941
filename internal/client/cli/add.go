package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runAdd(ctx context.Context, args []string) error {
	entity, err := parseEntity(args)
	if err != nil {
		return fmt.Errorf("%w. Usage: crmsync add <entity> <field=value ...>", err)
	}
	fields, err := parseFields(args[1:])
	if err != nil {
		return err
	}

	record, err := c.dataService.Create(ctx, entity, fields)
	if err != nil {
		return fmt.Errorf("failed to create %s record: %w", entity, err)
	}

	c.io.Println("✓ Record created!")
	out, err := renderTemplate("record", recordTemplate, newRecordView(record))
	if err != nil {
		return err
	}
	c.io.Println(out)
	return nil
}
