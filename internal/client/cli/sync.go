package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/crmsync/internal/models"
)

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")
	c.io.Println()
	c.io.Println("Loading all collections from server...")

	// Сначала догружаем коллекции, которые еще не загружались,
	// затем принудительно перечитываем все разом
	for _, entity := range models.AllEntities {
		if err := c.dataService.Load(ctx, entity, nil); err != nil {
			return fmt.Errorf("failed to load %s: %w", entity, err)
		}
	}
	if err := c.dataService.SyncAll(ctx); err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Synchronization completed!")
	c.io.Println()
	for _, entity := range models.AllEntities {
		records, _, err := c.dataService.Records(ctx, entity)
		if err != nil {
			c.io.Printf("  %-17s error: %v\n", entity, err)
			continue
		}
		c.io.Printf("  %-17s %d record(s)\n", entity, len(records))
	}

	if lastSync, err := c.dataService.LastSync(ctx, models.EntityLeads); err == nil && !lastSync.IsZero() {
		c.io.Println()
		c.io.Printf("Synchronized at %s\n", lastSync.Format(time.RFC3339))
	}
	return nil
}
