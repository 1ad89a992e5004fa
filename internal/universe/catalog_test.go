package universe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	c, err := Load(context.Background(), "")
	require.NoError(t, err)

	jita, ok := c.System(30000142)
	require.True(t, ok)
	assert.Equal(t, "Jita", jita.Name)
	assert.Equal(t, int64(10000002), jita.RegionID)
	assert.InDelta(t, 0.946, jita.Security, 0.001)

	assert.Equal(t, "Rifter", c.ShipName(587))
}

func TestLoad_DirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SystemsFile),
		[]byte(`[{"system_id": 31000005, "name": "Thera", "region_id": 11000031, "security": -0.99}]`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ShipTypesFile),
		[]byte(`[{"type_id": 587, "name": "Rifter", "group_id": 25}]`), 0o600))

	c, err := Load(context.Background(), dir)
	require.NoError(t, err)

	_, ok := c.System(31000005)
	assert.True(t, ok)
	_, ok = c.System(30000142)
	assert.False(t, ok, "override replaces the embedded dataset")
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(context.Background(), t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), SystemsFile)
	})

	t.Run("empty dataset", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, SystemsFile), []byte(`[]`), 0o600))
		_, err := Load(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contains no entries")
	})

	t.Run("malformed json", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, SystemsFile), []byte(`{`), 0o600))
		_, err := Load(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})
}

func TestCatalog_Classify(t *testing.T) {
	c := New(nil, []ShipType{
		{ID: 11987, Name: "Guardian", GroupID: 832},
		{ID: 22456, Name: "Sabre", GroupID: 541},
		{ID: 99999, Name: "Mystery", GroupID: 123456},
	})

	tests := []struct {
		name   string
		typeID int64
		want   Class
	}{
		{"logistics cruiser", 11987, Class{"cruiser", "logistics"}},
		{"interdictor", 22456, Class{"destroyer", "interdiction"}},
		{"unknown group", 99999, UnknownClass},
		{"unknown type", 1, UnknownClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.typeID))
		})
	}
}

func TestCatalog_Predicates(t *testing.T) {
	c, err := Load(context.Background(), "")
	require.NoError(t, err)

	assert.True(t, c.IsHeavy(23757), "carrier")
	assert.True(t, c.IsHeavy(19724), "dreadnought")
	assert.True(t, c.IsHeavy(671), "titan")
	assert.False(t, c.IsHeavy(28352), "capital industrial is not a combat capital")
	assert.False(t, c.IsHeavy(587))
	assert.False(t, c.IsHeavy(-1))

	assert.True(t, c.IsInterdictor(22456))
	assert.True(t, c.IsInterdictor(12013))
	assert.False(t, c.IsInterdictor(621))
}

func TestCatalog_UnknownNames(t *testing.T) {
	c := New(nil, nil)
	assert.Equal(t, "Unknown", c.SystemName(1))
	assert.Equal(t, "Unknown", c.ShipName(1))
}
