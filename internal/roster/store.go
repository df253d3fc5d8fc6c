package roster

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Provider is the read-only data source for characters and events.
// The squad core never writes through it.
type Provider interface {
	Roster(ctx context.Context) (Roster, error)
	Event(ctx context.Context, id string) (Event, error)
}

// Store reads roster and event data from Postgres.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

type characterRow struct {
	ID                  string `gorm:"primaryKey"`
	Name                string
	Class               string
	PartyLeaderEligible bool
	DamageLow           float64
	DamageHigh          float64
	CritRate            float64
	CritDamage          float64
	AttackLevel         float64
	Spirit              float64
	LevelBonus          float64
	Penetration         float64
	MagicPenetration    float64
	AttackRate          float64
	CastingSkill        float64
}

func (characterRow) TableName() string { return "characters" }

type eventRow struct {
	ID          string `gorm:"primaryKey"`
	ScheduledAt time.Time
}

func (eventRow) TableName() string { return "events" }

type participationRow struct {
	EventID     string `gorm:"primaryKey"`
	CharacterID string `gorm:"primaryKey"`
	Status      string
}

func (participationRow) TableName() string { return "event_participants" }

func (s *Store) Roster(ctx context.Context) (Roster, error) {
	var rows []characterRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	r := make(Roster, len(rows))
	for _, row := range rows {
		r[row.ID] = Character{
			ID:                  row.ID,
			Name:                row.Name,
			Class:               row.Class,
			PartyLeaderEligible: row.PartyLeaderEligible,
			Stats: CombatStats{
				DamageLow:        row.DamageLow,
				DamageHigh:       row.DamageHigh,
				CritRate:         row.CritRate,
				CritDamage:       row.CritDamage,
				AttackLevel:      row.AttackLevel,
				Spirit:           row.Spirit,
				LevelBonus:       row.LevelBonus,
				Penetration:      row.Penetration,
				MagicPenetration: row.MagicPenetration,
				AttackRate:       row.AttackRate,
				CastingSkill:     row.CastingSkill,
			},
		}
	}
	return r, nil
}

func (s *Store) Event(ctx context.Context, id string) (Event, error) {
	var row eventRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return Event{}, fmt.Errorf("load event %s: %w", id, err)
	}

	var parts []participationRow
	if err := s.db.WithContext(ctx).Find(&parts, "event_id = ?", id).Error; err != nil {
		return Event{}, fmt.Errorf("load participants for event %s: %w", id, err)
	}

	ev := Event{ID: row.ID, ScheduledAt: row.ScheduledAt}
	for _, p := range parts {
		ev.Participants = append(ev.Participants, Participant{
			CharacterID: p.CharacterID,
			Status:      Status(p.Status),
		})
	}
	return ev, nil
}
