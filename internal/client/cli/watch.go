package cli

import (
	"context"
	"fmt"
	"time"
)

const defaultWatchInterval = 5 * time.Minute

// runWatch держит коллекции свежими, пока процесс не остановят
func (c *Cli) runWatch(ctx context.Context, args []string) error {
	interval := defaultWatchInterval
	if len(args) > 0 {
		parsed, err := time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("invalid interval %q: %w", args[0], err)
		}
		if parsed <= 0 {
			return fmt.Errorf("interval must be positive, got %s", parsed)
		}
		interval = parsed
	}

	if err := c.dataService.StartResync(interval); err != nil {
		return fmt.Errorf("failed to start background resync: %w", err)
	}

	c.io.Printf("Watching collections, resync every %s. Press Ctrl+C to stop.\n", interval)
	<-ctx.Done()
	c.io.Println()
	c.io.Println("Stopped.")
	return nil
}
