package alert

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/killwatch/internal/danger"
	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/universe"
)

// Formatter renders alert embeds. Names come from the static catalog.
type Formatter struct {
	catalog universe.Catalog
	now     func() time.Time
}

// NewFormatter creates a formatter
func NewFormatter(catalog universe.Catalog) *Formatter {
	return &Formatter{catalog: catalog, now: time.Now}
}

// FormatISK abbreviates an ISK amount: 1.2B ISK, 350.5M ISK, 12,400 ISK
func FormatISK(value float64) string {
	p := message.NewPrinter(language.English)
	switch {
	case value >= 1e12:
		return p.Sprintf("%.2fT ISK", value/1e12)
	case value >= 1e9:
		return p.Sprintf("%.2fB ISK", value/1e9)
	case value >= 1e6:
		return p.Sprintf("%.1fM ISK", value/1e6)
	default:
		return p.Sprintf("%d ISK", int64(value))
	}
}

func formatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

func (f *Formatter) regionName(systemID int64) string {
	sys, ok := f.catalog.System(systemID)
	if !ok || sys.RegionName == "" {
		return domain.UnknownName
	}
	return sys.RegionName
}

func (f *Formatter) battleFields(b *domain.Battle, assessment danger.Assessment, pattern *danger.Pattern) []*discordgo.MessageEmbedField {
	fields := []*discordgo.MessageEmbedField{
		{Name: fieldKills, Value: formatCount(b.TotalKills), Inline: true},
		{Name: fieldValue, Value: FormatISK(b.TotalValue), Inline: true},
		{Name: fieldDanger, Value: fmt.Sprintf(dangerFormat, cases.Title(language.English).String(assessment.Label), assessment.Score), Inline: true},
		{Name: fieldRegion, Value: f.regionName(b.SystemID), Inline: true},
	}
	if b.HeavyKills > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: fieldHeavy, Value: formatCount(b.HeavyKills), Inline: true})
	}
	if pattern != nil && pattern.Detected {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fieldPattern,
			Value: fmt.Sprintf(patternFormat, pattern.Confidence, strings.Join(pattern.Evidence, ", ")),
		})
	}
	return fields
}

func (f *Formatter) embed(title string, color int, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:     title,
		Color:     color,
		Fields:    fields,
		Timestamp: f.now().UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: footerText},
	}
}

// NewBattle is the first announcement of a battle
func (f *Formatter) NewBattle(b *domain.Battle, assessment danger.Assessment, pattern *danger.Pattern) *discordgo.MessageEmbed {
	return f.embed(fmt.Sprintf(titleNewBattle, f.catalog.SystemName(b.SystemID)), colorNewBattle, f.battleFields(b, assessment, pattern))
}

// Milestone reports a battle passing a kill-count milestone
func (f *Formatter) Milestone(b *domain.Battle, milestone int, assessment danger.Assessment, pattern *danger.Pattern) *discordgo.MessageEmbed {
	return f.embed(fmt.Sprintf(titleMilestone, f.catalog.SystemName(b.SystemID), milestone), colorMilestone, f.battleFields(b, assessment, pattern))
}

// BattleEnded summarises a finished battle with its busiest alliances
func (f *Formatter) BattleEnded(b *domain.Battle, participants []domain.BattleParticipant) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: fieldKills, Value: formatCount(b.TotalKills), Inline: true},
		{Name: fieldValue, Value: FormatISK(b.TotalValue), Inline: true},
		{Name: fieldDuration, Value: formatDuration(b.Duration()), Inline: true},
	}
	if top := topAlliances(participants); top != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: fieldParticipants, Value: top})
	}
	return f.embed(fmt.Sprintf(titleEnded, f.catalog.SystemName(b.SystemID)), colorEnded, fields)
}

// Catastrophic reports a single very expensive loss
func (f *Formatter) Catastrophic(km *domain.Killmail) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: fieldValue, Value: FormatISK(km.Value), Inline: true},
		{Name: fieldAttackers, Value: formatCount(km.AttackerCount), Inline: true},
		{Name: fieldRegion, Value: f.regionName(km.SystemID), Inline: true},
	}
	if km.Victim.AllianceID != 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: fieldVictimAlliance, Value: fmt.Sprintf("%d", km.Victim.AllianceID), Inline: true})
	}
	title := fmt.Sprintf(titleCatastrophic, f.catalog.ShipName(km.Victim.ShipTypeID), f.catalog.SystemName(km.SystemID))
	e := f.embed(title, colorCatastrophic, fields)
	e.URL = fmt.Sprintf(killURLFormat, km.ID)
	return e
}

// ConflictMilestone reports an alliance pair passing a total-kill milestone
func (f *Formatter) ConflictMilestone(c *domain.Conflict, milestone int) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: fieldSplit, Value: fmt.Sprintf("%s / %s", formatCount(c.KillsA), formatCount(c.KillsB)), Inline: true},
		{Name: fieldValue, Value: FormatISK(c.ISKDestroyedA + c.ISKDestroyedB), Inline: true},
	}
	return f.embed(fmt.Sprintf(titleConflict, c.AllianceA, c.AllianceB, milestone), colorConflict, fields)
}

// topAlliances folds corporation rows into alliances and lists the busiest
func topAlliances(participants []domain.BattleParticipant) string {
	type tally struct {
		id            int64
		kills, losses int
	}
	byAlliance := make(map[int64]*tally)
	for _, p := range participants {
		if p.AllianceID == 0 {
			continue
		}
		t, ok := byAlliance[p.AllianceID]
		if !ok {
			t = &tally{id: p.AllianceID}
			byAlliance[p.AllianceID] = t
		}
		t.kills += p.Kills
		t.losses += p.Losses
	}

	tallies := make([]*tally, 0, len(byAlliance))
	for _, t := range byAlliance {
		tallies = append(tallies, t)
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].kills+tallies[i].losses != tallies[j].kills+tallies[j].losses {
			return tallies[i].kills+tallies[i].losses > tallies[j].kills+tallies[j].losses
		}
		return tallies[i].id < tallies[j].id
	})
	if len(tallies) > maxParticipantsShown {
		tallies = tallies[:maxParticipantsShown]
	}

	var sb strings.Builder
	for _, t := range tallies {
		fmt.Fprintf(&sb, participantFormat, t.id, t.kills, t.losses)
	}
	return sb.String()
}
