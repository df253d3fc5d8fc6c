package power

import (
	"math"

	"github.com/clanops/squad-roster-backend/internal/roster"
)

// ClassFactors optionally scales the final rating per class tag.
// Classes without an entry keep a factor of 1.
type ClassFactors map[string]float64

// Rating computes a single scalar combat-strength score for one
// character. It is pure and total: missing stats are zero values and
// every call is computed independently from its inputs alone.
func Rating(c roster.Character, factors ClassFactors) int {
	s := c.Stats

	base := (s.DamageLow + s.DamageHigh) / 2
	crit := 1 - s.CritRate + s.CritRate*s.CritDamage
	combat := crit *
		(1 + s.AttackLevel/100) *
		(1 + s.Spirit/4000) *
		(1 + s.LevelBonus/10000)

	physical := base * combat * penetrationFactor(s.Penetration) * s.AttackRate

	cast := math.Min(s.CastingSkill, 99)
	magical := base * combat * penetrationFactor(s.MagicPenetration) * (2 / (2 - cast/100))

	v := math.Max(physical, magical)
	if f, ok := factors[c.Class]; ok {
		v *= f
	}
	return int(math.Round(v))
}

func penetrationFactor(pen float64) float64 {
	return 1 + 3*pen/(pen+300)
}
