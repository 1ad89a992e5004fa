package universe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/osse101/killwatch/internal/logger"
)

// SyncConfig configures a reference data build from ESI
type SyncConfig struct {
	ESIURL      string
	UserAgent   string
	Concurrency int
	// RequestsPerSecond caps the overall request rate; zero means unlimited
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Syncer builds systems.json and ship_types.json from the ESI universe
// endpoints
type Syncer struct {
	cfg     SyncConfig
	http    *http.Client
	limiter *rate.Limiter
	retry   time.Duration
}

// NewSyncer creates a syncer
func NewSyncer(cfg SyncConfig) *Syncer {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = syncRequestTimeout
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Syncer{
		cfg:     cfg,
		http:    &http.Client{},
		limiter: rate.NewLimiter(limit, cfg.Concurrency),
		retry:   syncRetryDelay,
	}
}

type esiRegion struct {
	ID             int64   `json:"region_id"`
	Name           string  `json:"name"`
	Constellations []int64 `json:"constellations"`
}

type esiConstellation struct {
	ID       int64   `json:"constellation_id"`
	RegionID int64   `json:"region_id"`
	Systems  []int64 `json:"systems"`
}

type esiSystem struct {
	ID              int64   `json:"system_id"`
	Name            string  `json:"name"`
	ConstellationID int64   `json:"constellation_id"`
	SecurityStatus  float64 `json:"security_status"`
}

type esiCategory struct {
	Groups []int64 `json:"groups"`
}

type esiGroup struct {
	ID    int64   `json:"group_id"`
	Types []int64 `json:"types"`
}

type esiType struct {
	ID      int64  `json:"type_id"`
	Name    string `json:"name"`
	GroupID int64  `json:"group_id"`
}

// Systems walks regions, constellations and systems. Every region is
// included, wormhole space too.
func (s *Syncer) Systems(ctx context.Context) ([]System, error) {
	var regionIDs []int64
	if err := s.get(ctx, pathRegions, &regionIDs); err != nil {
		return nil, err
	}
	regions, err := fetchAll[esiRegion](ctx, s, regionIDs, pathRegion)
	if err != nil {
		return nil, err
	}

	regionNames := make(map[int64]string, len(regions))
	var constellationIDs []int64
	for _, r := range regions {
		regionNames[r.ID] = r.Name
		constellationIDs = append(constellationIDs, r.Constellations...)
	}
	constellations, err := fetchAll[esiConstellation](ctx, s, constellationIDs, pathConstellation)
	if err != nil {
		return nil, err
	}

	regionOf := make(map[int64]int64, len(constellations))
	var systemIDs []int64
	for _, c := range constellations {
		regionOf[c.ID] = c.RegionID
		systemIDs = append(systemIDs, c.Systems...)
	}
	logger.FromContext(ctx).Info(LogMsgSyncSystems, "regions", len(regions), "systems", len(systemIDs))

	raw, err := fetchAll[esiSystem](ctx, s, systemIDs, pathSystem)
	if err != nil {
		return nil, err
	}

	systems := make([]System, 0, len(raw))
	for _, r := range raw {
		region := regionOf[r.ConstellationID]
		systems = append(systems, System{
			ID:         r.ID,
			Name:       r.Name,
			RegionID:   region,
			RegionName: regionNames[region],
			Security:   roundSecurity(r.SecurityStatus),
		})
	}
	sort.Slice(systems, func(i, j int) bool { return systems[i].ID < systems[j].ID })
	return systems, nil
}

// ShipTypes lists every type in the ship category with its group
func (s *Syncer) ShipTypes(ctx context.Context) ([]ShipType, error) {
	var category esiCategory
	if err := s.get(ctx, fmt.Sprintf(pathCategory, shipCategoryID), &category); err != nil {
		return nil, err
	}
	groups, err := fetchAll[esiGroup](ctx, s, category.Groups, pathGroup)
	if err != nil {
		return nil, err
	}

	var typeIDs []int64
	for _, g := range groups {
		typeIDs = append(typeIDs, g.Types...)
	}
	logger.FromContext(ctx).Info(LogMsgSyncShips, "groups", len(groups), "types", len(typeIDs))

	raw, err := fetchAll[esiType](ctx, s, typeIDs, pathType)
	if err != nil {
		return nil, err
	}

	ships := make([]ShipType, 0, len(raw))
	for _, t := range raw {
		ships = append(ships, ShipType{ID: t.ID, Name: t.Name, GroupID: t.GroupID})
	}
	sort.Slice(ships, func(i, j int) bool { return ships[i].ID < ships[j].ID })
	return ships, nil
}

// WriteDataset writes both files into dir in the layout Load reads
func WriteDataset(dir string, systems []System, ships []ShipType) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf(ErrMsgWriteFileFailed, dir, err)
	}
	if err := writeJSON(filepath.Join(dir, SystemsFile), systems); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, ShipTypesFile), ships)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf(ErrMsgWriteFileFailed, path, err)
	}
	// write-then-rename so a running service never reads half a file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf(ErrMsgWriteFileFailed, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf(ErrMsgWriteFileFailed, path, err)
	}
	return nil
}

func fetchAll[T any](ctx context.Context, s *Syncer, ids []int64, pathFmt string) ([]T, error) {
	out := make([]T, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			return s.get(gctx, fmt.Sprintf(pathFmt, id), &out[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// get retries 5xx and ESI's rate-limit answers a few times before giving up
func (s *Syncer) get(ctx context.Context, path string, dst any) error {
	var err error
	for attempt := 0; attempt < syncMaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * s.retry):
			}
		}
		var retry bool
		if retry, err = s.getOnce(ctx, path, dst); err == nil || !retry {
			return err
		}
		logger.FromContext(ctx).Debug(LogMsgSyncRetry, "path", path, "attempt", attempt+1, "error", err)
	}
	return err
}

func (s *Syncer) getOnce(ctx context.Context, path string, dst any) (bool, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(s.cfg.ESIURL, "/")+path, nil)
	if err != nil {
		return false, fmt.Errorf(ErrMsgSyncRequest, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return ctx.Err() == nil, fmt.Errorf(ErrMsgSyncRequest, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		retry := resp.StatusCode >= http.StatusInternalServerError ||
			resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode == statusESIErrorLimited
		return retry, fmt.Errorf(ErrMsgSyncStatus, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return false, fmt.Errorf(ErrMsgSyncDecode, path, err)
	}
	return false, nil
}

// roundSecurity keeps the three decimals the dataset files carry
func roundSecurity(sec float64) float64 {
	if sec < 0 {
		return -float64(int64(-sec*1000+0.5)) / 1000
	}
	return float64(int64(sec*1000+0.5)) / 1000
}
