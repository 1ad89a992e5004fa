package killmail

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/redisq"
	"github.com/osse101/killwatch/internal/universe"
)

// RejectError explains why a package was dropped. It matches domain.ErrRejected.
type RejectError struct {
	Reason string
	Detail string
}

func (e *RejectError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", domain.ErrMsgRejected, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", domain.ErrMsgRejected, e.Reason, e.Detail)
}

func (e *RejectError) Unwrap() error {
	return domain.ErrRejected
}

func reject(reason, detail string) error {
	return &RejectError{Reason: reason, Detail: detail}
}

// RejectReason extracts the reason label from a parse error
func RejectReason(err error) string {
	var re *RejectError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ReasonMalformed
}

// Parser turns queue packages into validated killmails
type Parser struct {
	catalog  universe.Catalog
	validate *validator.Validate
}

// NewParser creates a new parser backed by the static universe catalog
func NewParser(catalog universe.Catalog) *Parser {
	return &Parser{
		catalog:  catalog,
		validate: validator.New(),
	}
}

// Parse builds a killmail from a resolved package. Packages without an id,
// time, system or victim ship, or in a system outside the catalog, are
// rejected with a *RejectError.
func (p *Parser) Parse(pkg *redisq.Package) (*domain.Killmail, error) {
	if pkg == nil || pkg.Killmail == nil {
		return nil, reject(ReasonMissingBody, "")
	}
	esi := pkg.Killmail

	id := esi.KillmailID
	if id == 0 {
		id = pkg.KillID
	}
	if id == 0 {
		return nil, reject(ReasonMissingID, "")
	}
	if esi.KillmailTime.IsZero() {
		return nil, reject(ReasonMissingTime, fmt.Sprintf("killmail %d", id))
	}
	if esi.SolarSystemID == 0 {
		return nil, reject(ReasonMissingSystem, fmt.Sprintf("killmail %d", id))
	}
	if esi.Victim.ShipTypeID == 0 {
		return nil, reject(ReasonMissingShipType, fmt.Sprintf("killmail %d", id))
	}

	system, ok := p.catalog.System(esi.SolarSystemID)
	if !ok {
		return nil, reject(ReasonUnknownRegion, fmt.Sprintf("system %d", esi.SolarSystemID))
	}

	class := p.catalog.Classify(esi.Victim.ShipTypeID)
	km := &domain.Killmail{
		ID:       id,
		Hash:     pkg.ZKB.Hash,
		Time:     esi.KillmailTime.UTC(),
		SystemID: esi.SolarSystemID,
		RegionID: system.RegionID,
		Security: system.Security,
		Victim: domain.Victim{
			CharacterID:   esi.Victim.CharacterID,
			CorporationID: esi.Victim.CorporationID,
			AllianceID:    esi.Victim.AllianceID,
			ShipTypeID:    esi.Victim.ShipTypeID,
			DamageTaken:   esi.Victim.DamageTaken,
		},
		Attackers:     make([]domain.Attacker, 0, len(esi.Attackers)),
		Items:         flattenItems(nil, esi.Victim.Items),
		AttackerCount: len(esi.Attackers),
		Value:         pkg.ZKB.TotalValue,
		Solo:          pkg.ZKB.Solo,
		NPC:           pkg.ZKB.NPC,
		ShipCategory:  class.Category,
		ShipRole:      class.Role,
		IsHeavy:       p.catalog.IsHeavy(esi.Victim.ShipTypeID),
	}

	for _, a := range esi.Attackers {
		km.Attackers = append(km.Attackers, domain.Attacker{
			CharacterID:   a.CharacterID,
			CorporationID: a.CorporationID,
			AllianceID:    a.AllianceID,
			ShipTypeID:    a.ShipTypeID,
			WeaponTypeID:  a.WeaponTypeID,
			DamageDone:    a.DamageDone,
			FinalBlow:     a.FinalBlow,
		})
	}

	if err := p.validate.Struct(km); err != nil {
		return nil, reject(ReasonInvalid, err.Error())
	}
	return km, nil
}

// flattenItems splits destroyed and dropped quantities into separate lines
// and lifts container contents to the top level
func flattenItems(dst []domain.Item, items []redisq.ESIItem) []domain.Item {
	for _, it := range items {
		if it.ItemTypeID == 0 {
			continue
		}
		if it.QuantityDestroyed > 0 {
			dst = append(dst, domain.Item{TypeID: it.ItemTypeID, Flag: it.Flag, Quantity: it.QuantityDestroyed})
		}
		if it.QuantityDropped > 0 {
			dst = append(dst, domain.Item{TypeID: it.ItemTypeID, Flag: it.Flag, Quantity: it.QuantityDropped, Dropped: true})
		}
		dst = flattenItems(dst, it.Items)
	}
	return dst
}
