package engine

import (
	"fmt"
	"slices"

	"github.com/clanops/squad-roster-backend/internal/roster"
)

// Squad is a named sub-group of an event's participants. If LeaderID
// is non-empty it equals Members[0].
type Squad struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	LeaderID string   `json:"leader_id"`
	Members  []string `json:"members"`
}

// SquadList is the ordered squad collection for one event and the
// unit of replication. A character id appears in at most one squad's
// Members across the whole list.
//
// Every operation below is pure: it returns a new list and never
// mutates its input. Operations naming an unknown squad or an absent
// member return the input unchanged.
type SquadList []Squad

// AddMember places a character into the target squad, detaching it
// from whichever squad currently holds it. If the target squad has no
// leader and the character is party-leader eligible, it becomes the
// leader and is prepended; otherwise it is appended. Adding a
// character to a squad it already belongs to is a no-op.
func AddMember(squads SquadList, squadID, characterID string, r roster.Roster) SquadList {
	target := indexOf(squads, squadID)
	if target < 0 {
		return squads
	}
	if slices.Contains(squads[target].Members, characterID) {
		return squads
	}

	next := detach(squads, characterID)
	sq := &next[target]
	if sq.LeaderID == "" && r[characterID].PartyLeaderEligible {
		sq.LeaderID = characterID
		sq.Members = slices.Insert(sq.Members, 0, characterID)
	} else {
		sq.Members = append(sq.Members, characterID)
	}
	return next
}

// RemoveMember drops the character from the squad, clearing LeaderID
// if it was the leader. The member becomes unassigned.
func RemoveMember(squads SquadList, squadID, characterID string) SquadList {
	i := indexOf(squads, squadID)
	if i < 0 {
		return squads
	}
	j := slices.Index(squads[i].Members, characterID)
	if j < 0 {
		return squads
	}

	next := Clone(squads)
	next[i].Members = slices.Delete(next[i].Members, j, j+1)
	if next[i].LeaderID == characterID {
		next[i].LeaderID = ""
	}
	return next
}

// CreateSquadWithMember detaches the character from any current squad
// and appends a new squad holding only that character. The squad name
// is "Squad N" with N = existing squad count + 1.
func CreateSquadWithMember(squads SquadList, characterID string, r roster.Roster) SquadList {
	next := detach(squads, characterID)
	sq := Squad{
		ID:      nextSquadID(next),
		Name:    fmt.Sprintf("Squad %d", len(next)+1),
		Members: []string{characterID},
	}
	if r[characterID].PartyLeaderEligible {
		sq.LeaderID = characterID
	}
	return append(next, sq)
}

// PromoteToLeader makes an existing member of the squad its leader
// and moves it to the front, preserving the order of the rest.
func PromoteToLeader(squads SquadList, squadID, characterID string) SquadList {
	i := indexOf(squads, squadID)
	if i < 0 {
		return squads
	}
	j := slices.Index(squads[i].Members, characterID)
	if j < 0 {
		return squads
	}

	next := Clone(squads)
	next[i].Members = slices.Delete(next[i].Members, j, j+1)
	next[i].Members = slices.Insert(next[i].Members, 0, characterID)
	next[i].LeaderID = characterID
	return next
}

// MoveUp swaps the character with its immediate predecessor. No-op at
// index 0, and no-op when the swap would displace a leader from the
// front of the squad.
func MoveUp(squads SquadList, squadID, characterID string) SquadList {
	i := indexOf(squads, squadID)
	if i < 0 {
		return squads
	}
	j := slices.Index(squads[i].Members, characterID)
	if j <= 0 {
		return squads
	}
	if j == 1 && squads[i].LeaderID != "" {
		return squads
	}

	next := Clone(squads)
	m := next[i].Members
	m[j-1], m[j] = m[j], m[j-1]
	return next
}

// RenameSquad replaces the squad's display name.
func RenameSquad(squads SquadList, squadID, name string) SquadList {
	i := indexOf(squads, squadID)
	if i < 0 {
		return squads
	}
	next := Clone(squads)
	next[i].Name = name
	return next
}

// DeleteSquad removes the squad entirely; its members become
// unassigned.
func DeleteSquad(squads SquadList, squadID string) SquadList {
	i := indexOf(squads, squadID)
	if i < 0 {
		return squads
	}
	next := Clone(squads)
	return slices.Delete(next, i, i+1)
}

// detach removes the character from whichever squad contains it,
// clearing that squad's leader slot if it held the character.
func detach(squads SquadList, characterID string) SquadList {
	next := Clone(squads)
	for i := range next {
		j := slices.Index(next[i].Members, characterID)
		if j < 0 {
			continue
		}
		next[i].Members = slices.Delete(next[i].Members, j, j+1)
		if next[i].LeaderID == characterID {
			next[i].LeaderID = ""
		}
	}
	return next
}

func indexOf(squads SquadList, squadID string) int {
	return slices.IndexFunc(squads, func(sq Squad) bool { return sq.ID == squadID })
}
