package domain

import "time"

// Killmail is a parsed, validated kill event. It is immutable once admitted.
type Killmail struct {
	ID       int64     `json:"killmail_id" validate:"required,gt=0"`
	Hash     string    `json:"hash"`
	Time     time.Time `json:"killmail_time" validate:"required"`
	SystemID int64     `json:"solar_system_id" validate:"required,gt=0"`
	RegionID int64     `json:"region_id" validate:"required,gt=0"`
	Security float64   `json:"security"`

	Victim    Victim     `json:"victim"`
	Attackers []Attacker `json:"attackers" validate:"dive"`
	Items     []Item     `json:"items" validate:"dive"`

	AttackerCount int     `json:"attacker_count" validate:"min=0"`
	Value         float64 `json:"value" validate:"min=0"`
	Solo          bool    `json:"solo"`
	NPC           bool    `json:"npc"`

	// Victim ship classification
	ShipCategory string `json:"ship_category"`
	ShipRole     string `json:"ship_role"`
	IsHeavy      bool   `json:"is_heavy"`
}

// Victim is the losing side of a killmail. Zero IDs mean unknown.
type Victim struct {
	CharacterID   int64 `json:"character_id"`
	CorporationID int64 `json:"corporation_id"`
	AllianceID    int64 `json:"alliance_id"`
	ShipTypeID    int64 `json:"ship_type_id" validate:"required,gt=0"`
	DamageTaken   int64 `json:"damage_taken"`
}

// Attacker is one participant on the killing side
type Attacker struct {
	CharacterID   int64 `json:"character_id"`
	CorporationID int64 `json:"corporation_id"`
	AllianceID    int64 `json:"alliance_id"`
	ShipTypeID    int64 `json:"ship_type_id"`
	WeaponTypeID  int64 `json:"weapon_type_id"`
	DamageDone    int64 `json:"damage_done" validate:"min=0"`
	FinalBlow     bool  `json:"final_blow"`
}

// Item is a fitted or cargo line-item, either destroyed or dropped
type Item struct {
	TypeID   int64 `json:"type_id" validate:"gt=0"`
	Flag     int   `json:"flag"`
	Quantity int64 `json:"quantity" validate:"gt=0"`
	Dropped  bool  `json:"dropped"`
}

// AttackerAlliances returns the distinct known alliance IDs on the attacking side
func (k *Killmail) AttackerAlliances() []int64 {
	seen := make(map[int64]struct{}, len(k.Attackers))
	var out []int64
	for _, a := range k.Attackers {
		if a.AllianceID == 0 {
			continue
		}
		if _, ok := seen[a.AllianceID]; ok {
			continue
		}
		seen[a.AllianceID] = struct{}{}
		out = append(out, a.AllianceID)
	}
	return out
}

// Summary reduces the killmail to the fields kept in the recent-killmail cache
func (k *Killmail) Summary() KillmailSummary {
	ships := make([]int64, 0, len(k.Attackers))
	for _, a := range k.Attackers {
		if a.ShipTypeID != 0 {
			ships = append(ships, a.ShipTypeID)
		}
	}
	return KillmailSummary{
		ID:                k.ID,
		Time:              k.Time,
		SystemID:          k.SystemID,
		ShipTypeID:        k.Victim.ShipTypeID,
		VictimAllianceID:  k.Victim.AllianceID,
		AttackerCount:     k.AttackerCount,
		AttackerShipTypes: ships,
		Value:             k.Value,
	}
}

// KillmailSummary is the compact form cached per system for pattern detection
type KillmailSummary struct {
	ID                int64     `json:"id"`
	Time              time.Time `json:"time"`
	SystemID          int64     `json:"system_id"`
	ShipTypeID        int64     `json:"ship_type_id"`
	VictimAllianceID  int64     `json:"victim_alliance_id,omitempty"`
	AttackerCount     int       `json:"attacker_count"`
	AttackerShipTypes []int64   `json:"attacker_ship_types,omitempty"`
	Value             float64   `json:"value"`
}
