package balance

import (
	"github.com/clanops/squad-roster-backend/internal/engine"
	"github.com/clanops/squad-roster-backend/internal/power"
	"github.com/clanops/squad-roster-backend/internal/roster"
)

const (
	strongThreshold = 1.2
	weakThreshold   = 0.8
)

type Config struct {
	SupportClasses map[string]bool
	ClassFactors   power.ClassFactors
}

// SquadReport carries the derived hints for one squad. Strong, Weak
// and NoSupport are presentation hints, never errors.
type SquadReport struct {
	SquadID    string `json:"squad_id"`
	Name       string `json:"name"`
	Members    int    `json:"members"`
	TotalPower int    `json:"total_power"`
	HasSupport bool   `json:"has_support"`
	Strong     bool   `json:"strong,omitempty"`
	Weak       bool   `json:"weak,omitempty"`
	NoSupport  bool   `json:"no_support,omitempty"`
}

type Report struct {
	AvgPower float64       `json:"avg_power"`
	Squads   []SquadReport `json:"squads"`
}

// Analyze derives per-squad aggregate power and support coverage.
// Member ids with no roster record contribute zero power but still
// count toward the squad's member count. The average is taken over
// squads with at least one member.
func Analyze(squads engine.SquadList, r roster.Roster, cfg Config) Report {
	reports := make([]SquadReport, 0, len(squads))
	var sum, counted int
	for _, sq := range squads {
		rep := SquadReport{SquadID: sq.ID, Name: sq.Name, Members: len(sq.Members)}
		for _, id := range sq.Members {
			c, ok := r[id]
			if !ok {
				continue
			}
			rep.TotalPower += power.Rating(c, cfg.ClassFactors)
			if cfg.SupportClasses[c.Class] {
				rep.HasSupport = true
			}
		}
		if rep.Members > 0 {
			sum += rep.TotalPower
			counted++
		}
		reports = append(reports, rep)
	}

	var avg float64
	if counted > 0 {
		avg = float64(sum) / float64(counted)
	}
	if avg > 0 {
		for i := range reports {
			rep := &reports[i]
			if float64(rep.TotalPower) > avg*strongThreshold {
				rep.Strong = true
			}
			if rep.Members > 0 && float64(rep.TotalPower) < avg*weakThreshold {
				rep.Weak = true
			}
			if rep.Members > 0 && !rep.HasSupport {
				rep.NoSupport = true
			}
		}
	}
	return Report{AvgPower: avg, Squads: reports}
}
