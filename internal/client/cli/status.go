package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/crmsync/internal/models"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()

	isAuth, err := c.authService.IsAuthenticated(ctx)
	if err != nil {
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	if !isAuth {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'crmsync login' to authenticate.")
		return nil
	}

	session, err := c.authService.Session(ctx)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	expiresAt := time.Unix(session.ExpiresAt, 0)
	remaining := time.Until(expiresAt)

	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s\n", session.Username)
	c.io.Printf("Token expires: %s\n", expiresAt.Format(time.RFC3339))
	if remaining > 0 {
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("Token has expired, it will be refreshed on the next request.")
	}

	c.io.Println()
	c.io.Println("Last synchronization:")
	for _, entity := range models.AllEntities {
		lastSync, err := c.dataService.LastSync(ctx, entity)
		if err != nil {
			c.io.Printf("  %-17s error: %v\n", entity, err)
			continue
		}
		if lastSync.IsZero() {
			c.io.Printf("  %-17s never\n", entity)
			continue
		}
		c.io.Printf("  %-17s %s\n", entity, lastSync.Format(time.RFC3339))
	}

	return nil
}
