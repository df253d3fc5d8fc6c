package availability

import (
	"sort"
	"strings"

	"github.com/clanops/squad-roster-backend/internal/engine"
	"github.com/clanops/squad-roster-backend/internal/roster"
)

// Candidates lists the character ids not yet assigned to any squad,
// ordered by declared intent (going, undecided, not going, no status)
// with ties broken by case-insensitive name. The universe is the
// event's recorded participants, or the whole roster when
// includeFullRoster is set. The result is recomputed from scratch on
// every call.
func Candidates(participants []roster.Participant, squads engine.SquadList, r roster.Roster, includeFullRoster bool) []string {
	assigned := engine.AssignedIDs(squads)

	status := make(map[string]roster.Status, len(participants))
	for _, p := range participants {
		status[p.CharacterID] = p.Status
	}

	var ids []string
	if includeFullRoster {
		for id := range r {
			if !assigned[id] {
				ids = append(ids, id)
			}
		}
	} else {
		for _, p := range participants {
			if !assigned[p.CharacterID] {
				ids = append(ids, p.CharacterID)
			}
		}
	}

	sort.SliceStable(ids, func(i, j int) bool {
		ri, rj := statusRank(status[ids[i]]), statusRank(status[ids[j]])
		if ri != rj {
			return ri < rj
		}
		ni, nj := sortName(r, ids[i]), sortName(r, ids[j])
		if ni != nj {
			return ni < nj
		}
		return ids[i] < ids[j]
	})
	return ids
}

func statusRank(s roster.Status) int {
	switch s {
	case roster.StatusGoing:
		return 0
	case roster.StatusUndecided:
		return 1
	case roster.StatusNotGoing:
		return 2
	default:
		return 3
	}
}

// sortName falls back to the raw id for ids with no roster record.
func sortName(r roster.Roster, id string) string {
	if c, ok := r[id]; ok {
		return strings.ToLower(c.Name)
	}
	return strings.ToLower(id)
}
