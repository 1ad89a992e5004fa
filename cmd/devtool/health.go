package main

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/osse101/killwatch/internal/handler"
)

const healthTimeout = 5 * time.Second

type HealthCheckCommand struct{}

func (c *HealthCheckCommand) Name() string {
	return "health-check"
}

func (c *HealthCheckCommand) Description() string {
	return "Check /readyz of a running instance (default http://localhost:$PORT)"
}

func (c *HealthCheckCommand) Run(args []string) error {
	base := "http://localhost:" + getEnv("PORT", "8080")
	if len(args) > 0 {
		base = args[0]
	}

	PrintHeader(fmt.Sprintf("Health Check (%s)", base))

	start := time.Now()
	resp, err := checkReady(context.Background(), base)
	duration := time.Since(start)
	if resp != nil {
		names := make([]string, 0, len(resp.Checks))
		for name := range resp.Checks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if resp.Checks[name] == handler.StatusOK {
				PrintSuccess("%s: %s", name, resp.Checks[name])
			} else {
				PrintError("%s: %s", name, resp.Checks[name])
			}
		}
	}
	if err != nil {
		return err
	}

	if duration > time.Second {
		PrintWarning("Health check passed but slow (%v)", duration)
	} else {
		PrintSuccess("Health check passed (response time: %v)", duration)
	}
	return nil
}

// checkReady returns the decoded readiness body alongside an error for any
// non-200 answer
func checkReady(ctx context.Context, base string) (*handler.HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/readyz", nil)
	if err != nil {
		return nil, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("readiness request failed: %w", err)
	}
	defer res.Body.Close()

	var body handler.HealthResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid readiness response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return &body, fmt.Errorf("not ready: status %d: %s", res.StatusCode, body.Message)
	}
	return &body, nil
}
