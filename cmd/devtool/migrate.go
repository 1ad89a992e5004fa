package main

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/killwatch/internal/database"
)

type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

func (c *MigrateCommand) Description() string {
	return "Apply or inspect the embedded schema migrations (up, status)"
}

func (c *MigrateCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("subcommand required: up, status")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, dbURL(), 2, time.Minute, time.Minute)
	if err != nil {
		return err
	}
	defer pool.Close()

	switch args[0] {
	case "up":
		PrintHeader("Applying migrations")
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		PrintSuccess("Schema is up to date")
		return nil

	case "status":
		PrintHeader("Migration status")
		states, err := database.MigrationStatus(ctx, pool)
		if err != nil {
			return err
		}
		for _, s := range states {
			if s.Applied {
				PrintSuccess("%05d %s (applied %s)", s.Version, s.Path, s.AppliedAt.Format(time.RFC3339))
			} else {
				PrintWarning("%05d %s (pending)", s.Version, s.Path)
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown subcommand %q: want up or status", args[0])
	}
}
