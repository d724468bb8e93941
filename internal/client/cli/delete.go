package cli

import (
	"context"
	"fmt"
	"strings"
)

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	entity, err := parseEntity(args)
	if err != nil {
		return fmt.Errorf("%w. Usage: crmsync delete <entity> <id> [id ...]", err)
	}
	ids := args[1:]
	if len(ids) == 0 {
		return fmt.Errorf("missing record id. Usage: crmsync delete <entity> <id> [id ...]")
	}

	c.io.Printf("About to delete %d %s record(s): %s\n", len(ids), entity, strings.Join(ids, ", "))
	confirm, err := c.io.ReadInput("Are you sure? (yes/no): ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if confirm != "yes" && confirm != "y" {
		c.io.Println("Deletion cancelled.")
		return nil
	}

	// Удаление идет через загруженную коллекцию
	if err := c.dataService.Load(ctx, entity, nil); err != nil {
		return fmt.Errorf("failed to load %s: %w", entity, err)
	}

	if len(ids) == 1 {
		if err := c.dataService.Delete(ctx, entity, ids[0]); err != nil {
			return fmt.Errorf("failed to delete %s record: %w", entity, err)
		}
		c.io.Println("✓ Record deleted!")
		return nil
	}

	res, err := c.dataService.DeleteMultiple(ctx, entity, ids)
	if err != nil {
		return fmt.Errorf("failed to delete %s records: %w", entity, err)
	}

	c.io.Printf("✓ Deleted %d of %d record(s).\n", res.Deleted, res.Requested)
	if len(res.FailedIDs) > 0 {
		c.io.Printf("Failed to delete: %s\n", strings.Join(res.FailedIDs, ", "))
		for _, msg := range res.Errors {
			c.io.Printf("  %s\n", msg)
		}
	}
	return nil
}
