package universe

import "github.com/osse101/killwatch/internal/domain"

// Class is the (category, role) taxonomy for a ship type
type Class struct {
	Category string `json:"category"`
	Role     string `json:"role"`
}

// UnknownClass is returned for any type the catalog cannot place
var UnknownClass = Class{Category: domain.CategoryOther, Role: domain.RoleUnknown}

// groupClasses maps EVE inventory group IDs to the taxonomy
var groupClasses = map[int64]Class{
	25:  {"frigate", "combat"},
	324: {"frigate", "assault"},
	831: {"frigate", "tackle"},
	893: {"frigate", "ewar"},
	830: {"frigate", "scout"},
	834: {"frigate", "bomber"},

	420: {"destroyer", "combat"},
	541: {"destroyer", "interdiction"},

	26:  {"cruiser", "combat"},
	832: {"cruiser", "logistics"},
	358: {"cruiser", "assault"},
	894: {"cruiser", "interdiction"},
	833: {"cruiser", "ewar"},
	906: {"cruiser", "ewar"},
	963: {"cruiser", "strategic"},

	419: {"battlecruiser", "combat"},
	540: {"battlecruiser", "command"},

	27:  {"battleship", "combat"},
	900: {"battleship", "marauder"},
	898: {"battleship", "covert"},

	547:  {"capital", "carrier"},
	485:  {"capital", "dreadnought"},
	1538: {"capital", "logistics"},
	883:  {"capital", "industrial"},
	659:  {"supercapital", "carrier"},
	30:   {"supercapital", "titan"},

	28:  {"industrial", "hauler"},
	380: {"industrial", "hauler"},
	513: {"industrial", "freighter"},
	902: {"industrial", "freighter"},
	941: {"industrial", "command"},

	463: {"mining", "barge"},
	543: {"mining", "exhumer"},

	29: {"capsule", "pod"},

	1657: {"structure", "citadel"},
	1404: {"structure", "engineering"},
}

// heavyGroups are the capital hulls counted as heavy kills
var heavyGroups = map[int64]struct{}{
	GroupCarrier:        {},
	GroupDreadnought:    {},
	GroupForceAuxiliary: {},
	GroupSupercarrier:   {},
	GroupTitan:          {},
}

// ClassForGroup looks a group up in the static taxonomy
func ClassForGroup(groupID int64) Class {
	if c, ok := groupClasses[groupID]; ok {
		return c
	}
	return UnknownClass
}
