package universe

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-json"

	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/logger"
)

//go:embed data/*.json
var embedded embed.FS

// System is a solar system with its region and security status
type System struct {
	ID         int64   `json:"system_id"`
	Name       string  `json:"name"`
	RegionID   int64   `json:"region_id"`
	RegionName string  `json:"region_name"`
	Security   float64 `json:"security"`
}

// ShipType is an inventory type with its group
type ShipType struct {
	ID      int64  `json:"type_id"`
	Name    string `json:"name"`
	GroupID int64  `json:"group_id"`
}

// Catalog is the read-only static reference data. All lookups are safe for
// concurrent use and degrade to unknown values instead of failing.
type Catalog interface {
	System(systemID int64) (System, bool)
	SystemName(systemID int64) string
	ShipName(typeID int64) string
	Classify(typeID int64) Class
	IsHeavy(typeID int64) bool
	IsInterdictor(typeID int64) bool
}

type catalog struct {
	systems map[int64]System
	ships   map[int64]ShipType
}

// Load builds the catalog from dir when set, otherwise from the embedded dataset
func Load(ctx context.Context, dir string) (Catalog, error) {
	var fsys fs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(embedded, "data")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}

	var systems []System
	if err := readJSON(fsys, SystemsFile, &systems); err != nil {
		return nil, err
	}
	var ships []ShipType
	if err := readJSON(fsys, ShipTypesFile, &ships); err != nil {
		return nil, err
	}

	c := New(systems, ships)
	logger.FromContext(ctx).Info(LogMsgCatalogLoaded,
		"systems", len(systems), "ship_types", len(ships), "override_dir", dir)
	if len(systems) < minCompleteSystems {
		logger.FromContext(ctx).Warn(LogMsgSampleDataset, "systems", len(systems), "expected_at_least", minCompleteSystems)
	}
	return c, nil
}

// New builds a catalog from in-memory reference data
func New(systems []System, ships []ShipType) Catalog {
	c := &catalog{
		systems: make(map[int64]System, len(systems)),
		ships:   make(map[int64]ShipType, len(ships)),
	}
	for _, s := range systems {
		c.systems[s.ID] = s
	}
	for _, s := range ships {
		c.ships[s.ID] = s
	}
	return c
}

func readJSON(fsys fs.FS, name string, dst any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf(ErrMsgReadFileFailed, name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf(ErrMsgParseFileFailed, name, err)
	}
	switch v := dst.(type) {
	case *[]System:
		if len(*v) == 0 {
			return fmt.Errorf(ErrMsgEmptyDataset, name)
		}
	case *[]ShipType:
		if len(*v) == 0 {
			return fmt.Errorf(ErrMsgEmptyDataset, name)
		}
	}
	return nil
}

func (c *catalog) System(systemID int64) (System, bool) {
	s, ok := c.systems[systemID]
	return s, ok
}

func (c *catalog) SystemName(systemID int64) string {
	if s, ok := c.systems[systemID]; ok {
		return s.Name
	}
	return domain.UnknownName
}

func (c *catalog) ShipName(typeID int64) string {
	if s, ok := c.ships[typeID]; ok {
		return s.Name
	}
	return domain.UnknownName
}

// Classify maps a ship type to its (category, role); unknown types map to UnknownClass
func (c *catalog) Classify(typeID int64) Class {
	s, ok := c.ships[typeID]
	if !ok {
		return UnknownClass
	}
	return ClassForGroup(s.GroupID)
}

func (c *catalog) IsHeavy(typeID int64) bool {
	s, ok := c.ships[typeID]
	if !ok {
		return false
	}
	_, heavy := heavyGroups[s.GroupID]
	return heavy
}

func (c *catalog) IsInterdictor(typeID int64) bool {
	s, ok := c.ships[typeID]
	if !ok {
		return false
	}
	return s.GroupID == GroupInterdictor || s.GroupID == GroupHeavyInterdictor
}
