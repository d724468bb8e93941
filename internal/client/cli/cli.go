package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/crmsync/internal/client/auth"
	"github.com/iudanet/crmsync/internal/client/data"
	"github.com/iudanet/crmsync/internal/client/iocli"
)

type Cli struct {
	io          iocli.IO
	authService auth.Service
	dataService data.Service
}

func New(io iocli.IO, authService auth.Service, dataService data.Service) *Cli {
	if io == nil {
		io = iocli.NewStdio()
	}
	return &Cli{
		io:          io,
		authService: authService,
		dataService: dataService,
	}
}

// Run выполняет одну команду. Ошибку печатает вызывающий.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "list":
		return c.runList(ctx, args)
	case "add":
		return c.runAdd(ctx, args)
	case "update":
		return c.runUpdate(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	case "sync":
		return c.runSync(ctx)
	case "watch":
		return c.runWatch(ctx, args)
	default:
		c.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (c *Cli) PrintUsage() {
	c.io.Println(usageText)
}
