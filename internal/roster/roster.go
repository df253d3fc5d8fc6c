package roster

import "time"

// Status is a participant's declared intent for an event.
type Status string

const (
	StatusGoing     Status = "going"
	StatusNotGoing  Status = "not_going"
	StatusUndecided Status = "undecided"
	StatusUnset     Status = ""
)

// CombatStats is the fixed stat block the power rating is derived
// from. Missing stats are zero values; the rating stays total.
type CombatStats struct {
	DamageLow        float64
	DamageHigh       float64
	CritRate         float64 // 0..1
	CritDamage       float64 // multiplier applied on crit
	AttackLevel      float64
	Spirit           float64
	LevelBonus       float64
	Penetration      float64
	MagicPenetration float64
	AttackRate       float64
	CastingSkill     float64
}

type Character struct {
	ID                  string
	Name                string
	Class               string
	PartyLeaderEligible bool
	Stats               CombatStats
}

// Roster maps character id to its record. Lookups of unknown ids
// return the zero Character; callers treat that as "unresolved".
type Roster map[string]Character

type Participant struct {
	CharacterID string
	Status      Status
}

type Event struct {
	ID           string
	ScheduledAt  time.Time
	Participants []Participant
}
