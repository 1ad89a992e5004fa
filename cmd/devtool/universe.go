package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"

	"github.com/osse101/killwatch/internal/universe"
)

// UniverseSyncCommand rebuilds the reference data files from ESI. Point
// UNIVERSE_DATA_DIR at the output to replace the bundled sample.
type UniverseSyncCommand struct{}

func (c *UniverseSyncCommand) Name() string {
	return "universe-sync"
}

func (c *UniverseSyncCommand) Description() string {
	return "Build systems.json and ship_types.json from ESI ([dir], default UNIVERSE_DATA_DIR or ./universe-data)"
}

func (c *UniverseSyncCommand) Run(args []string) error {
	dir := universeDir(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	concurrency, _ := strconv.Atoi(getEnv("UNIVERSE_SYNC_CONCURRENCY", "8"))
	rps, _ := strconv.ParseFloat(getEnv("UNIVERSE_SYNC_RPS", "20"), 64)
	syncer := universe.NewSyncer(universe.SyncConfig{
		ESIURL:            getEnv("ESI_URL", "https://esi.evetech.net/latest"),
		UserAgent:         getEnv("USER_AGENT", "killwatch-devtool"),
		Concurrency:       concurrency,
		RequestsPerSecond: rps,
	})

	PrintHeader("Syncing universe data")
	PrintInfo("Fetching solar systems (this takes a few minutes)")
	systems, err := syncer.Systems(ctx)
	if err != nil {
		return err
	}
	PrintSuccess("%d systems", len(systems))

	PrintInfo("Fetching ship types")
	ships, err := syncer.ShipTypes(ctx)
	if err != nil {
		return err
	}
	PrintSuccess("%d ship types", len(ships))

	if err := universe.WriteDataset(dir, systems, ships); err != nil {
		return err
	}
	PrintSuccess("Wrote %s and %s to %s", universe.SystemsFile, universe.ShipTypesFile, dir)
	return nil
}

func universeDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return getEnv("UNIVERSE_DATA_DIR", "./universe-data")
}
