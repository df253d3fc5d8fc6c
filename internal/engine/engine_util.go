package engine

import (
	"fmt"
	"slices"
)

// Clone deep-copies the list so callers can mutate the copy freely.
func Clone(squads SquadList) SquadList {
	out := make(SquadList, len(squads))
	for i, sq := range squads {
		sq.Members = slices.Clone(sq.Members)
		out[i] = sq
	}
	return out
}

// AssignedIDs returns the set of character ids present in any squad.
func AssignedIDs(squads SquadList) map[string]bool {
	ids := make(map[string]bool)
	for _, sq := range squads {
		for _, id := range sq.Members {
			ids[id] = true
		}
	}
	return ids
}

// FindSquad returns the squad with the given id, if present.
func FindSquad(squads SquadList, squadID string) (Squad, bool) {
	i := indexOf(squads, squadID)
	if i < 0 {
		return Squad{}, false
	}
	return squads[i], true
}

// nextSquadID picks the lowest unused sequential id. Ids stay stable
// once assigned; only new squads probe for a free slot.
func nextSquadID(squads SquadList) string {
	for n := len(squads) + 1; ; n++ {
		id := fmt.Sprintf("s%d", n)
		if indexOf(squads, id) < 0 {
			return id
		}
	}
}
