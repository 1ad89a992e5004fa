package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/osse101/killwatch/internal/database"
	"github.com/osse101/killwatch/internal/state"
)

const (
	waitMaxRetries    = 30
	waitRetryInterval = 2 * time.Second
)

type WaitForDepsCommand struct{}

func (c *WaitForDepsCommand) Name() string {
	return "wait-for-deps"
}

func (c *WaitForDepsCommand) Description() string {
	return "Wait for Postgres and Redis to accept connections (with retries)"
}

func (c *WaitForDepsCommand) Run(args []string) error {
	PrintHeader("Waiting for dependencies...")
	ctx := context.Background()

	if err := retry("Postgres", func() error {
		pool, err := database.NewPool(ctx, dbURL(), 2, time.Minute, time.Minute)
		if err != nil {
			return err
		}
		pool.Close()
		return nil
	}); err != nil {
		return err
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	return retry("Redis", func() error {
		rdb, err := state.Connect(ctx, getEnv("REDIS_ADDR", "localhost:6379"), getEnv("REDIS_PASSWORD", ""), redisDB)
		if err != nil {
			return err
		}
		return rdb.Close()
	})
}

func retry(name string, check func() error) error {
	var err error
	for i := 0; i < waitMaxRetries; i++ {
		if err = check(); err == nil {
			PrintSuccess("%s is ready", name)
			return nil
		}
		fmt.Printf("%s not ready (%d/%d): %v\n", name, i+1, waitMaxRetries, err)
		time.Sleep(waitRetryInterval)
	}
	return fmt.Errorf("%s failed to become ready after %d attempts: %w", name, waitMaxRetries, err)
}
