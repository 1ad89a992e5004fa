package universe

import "time"

// Reference data file names, both embedded and in UNIVERSE_DATA_DIR
const (
	SystemsFile   = "systems.json"
	ShipTypesFile = "ship_types.json"
)

// Error messages
const (
	ErrMsgReadFileFailed  = "failed to read %s: %w"
	ErrMsgParseFileFailed = "failed to parse %s: %w"
	ErrMsgEmptyDataset    = "%s contains no entries"
	ErrMsgWriteFileFailed = "failed to write %s: %w"
	ErrMsgSyncRequest     = "ESI request %s failed: %w"
	ErrMsgSyncStatus      = "ESI request %s returned status %d"
	ErrMsgSyncDecode      = "failed to decode ESI response %s: %w"
)

// Log messages
const (
	LogMsgCatalogLoaded = "Universe catalog loaded"
	LogMsgSampleDataset = "Universe data looks like the bundled sample, kills outside it will be dropped; run devtool universe-sync"
	LogMsgSyncSystems   = "Fetching solar systems"
	LogMsgSyncShips     = "Fetching ship types"
	LogMsgSyncRetry     = "ESI request failed, retrying"
)

// A full New Eden map has well over this many systems; fewer means the
// embedded sample or a partial sync is in use
const minCompleteSystems = 5000

// ESI universe endpoints used by Syncer
const (
	pathRegions       = "/universe/regions/"
	pathRegion        = "/universe/regions/%d/"
	pathConstellation = "/universe/constellations/%d/"
	pathSystem        = "/universe/systems/%d/"
	pathCategory      = "/universe/categories/%d/"
	pathGroup         = "/universe/groups/%d/"
	pathType          = "/universe/types/%d/"

	shipCategoryID = 6

	// ESI answers 420 once the error budget is spent
	statusESIErrorLimited = 420

	syncMaxAttempts    = 4
	syncRetryDelay     = 2 * time.Second
	syncRequestTimeout = 30 * time.Second
)

// EVE inventory group IDs referenced outside the classification table
const (
	GroupInterdictor      = 541
	GroupHeavyInterdictor = 894
	GroupCarrier          = 547
	GroupDreadnought      = 485
	GroupForceAuxiliary   = 1538
	GroupSupercarrier     = 659
	GroupTitan            = 30
)
