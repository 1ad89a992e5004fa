package redisq

import "time"

// envelope is the top-level RedisQ response; Package is null when the queue is empty
type envelope struct {
	Package *Package `json:"package"`
}

// Package is one queue delivery. Killmail is nil when the queue omitted the
// body and it has to be fetched from ESI.
type Package struct {
	KillID   int64        `json:"killID"`
	Killmail *ESIKillmail `json:"killmail,omitempty"`
	ZKB      ZKB          `json:"zkb"`
}

// NeedsDetail reports whether the killmail body must be fetched separately
func (p *Package) NeedsDetail() bool {
	return p.Killmail == nil
}

// ZKB holds the hash and economic info from zKillboard
type ZKB struct {
	LocationID     int64   `json:"locationID"`
	Hash           string  `json:"hash"`
	FittedValue    float64 `json:"fittedValue"`
	DroppedValue   float64 `json:"droppedValue"`
	DestroyedValue float64 `json:"destroyedValue"`
	TotalValue     float64 `json:"totalValue"`
	Points         int     `json:"points"`
	NPC            bool    `json:"npc"`
	Solo           bool    `json:"solo"`
	Awox           bool    `json:"awox"`
	Href           string  `json:"href,omitempty"`
}

// ESIKillmail is the ESI killmail body
type ESIKillmail struct {
	KillmailID    int64         `json:"killmail_id"`
	KillmailTime  time.Time     `json:"killmail_time"`
	SolarSystemID int64         `json:"solar_system_id"`
	WarID         int64         `json:"war_id,omitempty"`
	Victim        ESIVictim     `json:"victim"`
	Attackers     []ESIAttacker `json:"attackers"`
}

// ESIVictim is the victim block of an ESI killmail
type ESIVictim struct {
	AllianceID    int64     `json:"alliance_id"`
	CorporationID int64     `json:"corporation_id"`
	CharacterID   int64     `json:"character_id"`
	FactionID     int64     `json:"faction_id"`
	DamageTaken   int64     `json:"damage_taken"`
	ShipTypeID    int64     `json:"ship_type_id"`
	Items         []ESIItem `json:"items"`
}

// ESIItem is a fitted or cargo item. Containers nest their contents in Items.
type ESIItem struct {
	ItemTypeID        int64     `json:"item_type_id"`
	Flag              int       `json:"flag"`
	QuantityDestroyed int64     `json:"quantity_destroyed"`
	QuantityDropped   int64     `json:"quantity_dropped"`
	Singleton         int       `json:"singleton"`
	Items             []ESIItem `json:"items,omitempty"`
}

// ESIAttacker is one attacker of an ESI killmail
type ESIAttacker struct {
	AllianceID     int64   `json:"alliance_id"`
	CorporationID  int64   `json:"corporation_id"`
	CharacterID    int64   `json:"character_id"`
	FactionID      int64   `json:"faction_id"`
	DamageDone     int64   `json:"damage_done"`
	FinalBlow      bool    `json:"final_blow"`
	SecurityStatus float64 `json:"security_status"`
	ShipTypeID     int64   `json:"ship_type_id"`
	WeaponTypeID   int64   `json:"weapon_type_id"`
}
