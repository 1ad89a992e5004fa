package main

import (
	"context"
	"time"

	"github.com/osse101/killwatch/internal/alert"
	"github.com/osse101/killwatch/internal/database"
	"github.com/osse101/killwatch/internal/universe"
)

type BattlesCommand struct{}

func (c *BattlesCommand) Name() string {
	return "battles"
}

func (c *BattlesCommand) Description() string {
	return "List active battles, busiest first"
}

func (c *BattlesCommand) Run(args []string) error {
	ctx := context.Background()

	catalog, err := universe.Load(ctx, getEnv("UNIVERSE_DATA_DIR", ""))
	if err != nil {
		return err
	}

	pool, err := database.NewPool(ctx, dbURL(), 2, time.Minute, time.Minute)
	if err != nil {
		return err
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, `
		SELECT battle_id, system_id, total_kills, total_value, started_at, last_kill_at
		FROM battles
		WHERE status = 'active'
		ORDER BY total_kills DESC, battle_id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	PrintHeader("Active battles")
	n := 0
	for rows.Next() {
		var (
			id, systemID     int64
			kills            int
			value            float64
			started, lastHit time.Time
		)
		if err := rows.Scan(&id, &systemID, &kills, &value, &started, &lastHit); err != nil {
			return err
		}
		n++
		PrintInfo("#%d %s: %d kills, %s ISK, running %s, last kill %s ago",
			id, catalog.SystemName(systemID), kills, alert.FormatISK(value),
			lastHit.Sub(started).Round(time.Minute), time.Since(lastHit).Round(time.Second))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if n == 0 {
		PrintInfo("No active battles")
	}
	return nil
}
