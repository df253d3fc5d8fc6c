package engine

import (
	"testing"

	"github.com/clanops/squad-roster-backend/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster() roster.Roster {
	return roster.Roster{
		"c1": {ID: "c1", Name: "Aria", PartyLeaderEligible: true},
		"c2": {ID: "c2", Name: "Bren"},
		"c3": {ID: "c3", Name: "Cale"},
		"c4": {ID: "c4", Name: "Dova", PartyLeaderEligible: true},
	}
}

// membershipUnique checks the cross-squad invariant: a character id
// appears in at most one squad.
func membershipUnique(t *testing.T, squads SquadList) {
	t.Helper()
	seen := map[string]string{}
	for _, sq := range squads {
		for _, id := range sq.Members {
			if prev, ok := seen[id]; ok {
				t.Fatalf("character %s in both %s and %s", id, prev, sq.ID)
			}
			seen[id] = sq.ID
		}
	}
}

// leaderAtFront checks that a non-empty LeaderID equals Members[0].
func leaderAtFront(t *testing.T, squads SquadList) {
	t.Helper()
	for _, sq := range squads {
		if sq.LeaderID == "" {
			continue
		}
		require.NotEmpty(t, sq.Members, "squad %s has leader but no members", sq.ID)
		assert.Equal(t, sq.LeaderID, sq.Members[0], "squad %s leader not at front", sq.ID)
	}
}

func TestAddMember_EligibleBecomesLeader(t *testing.T) {
	squads := SquadList{{ID: "s1", Name: "A"}}

	next := AddMember(squads, "s1", "c1", testRoster())

	require.Len(t, next, 1)
	assert.Equal(t, Squad{ID: "s1", Name: "A", LeaderID: "c1", Members: []string{"c1"}}, next[0])
}

func TestAddMember_IneligibleAppends(t *testing.T) {
	squads := SquadList{{ID: "s1", Name: "A", LeaderID: "c1", Members: []string{"c1"}}}

	next := AddMember(squads, "s1", "c2", testRoster())

	assert.Equal(t, []string{"c1", "c2"}, next[0].Members)
	assert.Equal(t, "c1", next[0].LeaderID)
}

func TestAddMember_EligibleJoinsLedSquadAtBack(t *testing.T) {
	squads := SquadList{{ID: "s1", Name: "A", LeaderID: "c1", Members: []string{"c1"}}}

	next := AddMember(squads, "s1", "c4", testRoster())

	// Leader slot taken, so even an eligible character is appended.
	assert.Equal(t, []string{"c1", "c4"}, next[0].Members)
	assert.Equal(t, "c1", next[0].LeaderID)
}

func TestAddMember_MovesLeaderBetweenSquads(t *testing.T) {
	squads := SquadList{
		{ID: "s1", Name: "A", LeaderID: "c1", Members: []string{"c1", "c2"}},
		{ID: "s2", Name: "B", LeaderID: "", Members: []string{"c3"}},
	}

	next := AddMember(squads, "s2", "c1", testRoster())

	assert.Equal(t, "", next[0].LeaderID)
	assert.NotContains(t, next[0].Members, "c1")
	assert.Contains(t, next[1].Members, "c1")
	membershipUnique(t, next)
	leaderAtFront(t, next)
}

func TestAddMember_Idempotent(t *testing.T) {
	squads := SquadList{{ID: "s1", Name: "A"}}
	r := testRoster()

	once := AddMember(squads, "s1", "c2", r)
	twice := AddMember(once, "s1", "c2", r)

	assert.Equal(t, once, twice)
}

func TestAddMember_UnknownSquadIsNoop(t *testing.T) {
	squads := SquadList{{ID: "s1", Name: "A", Members: []string{"c2"}}}

	next := AddMember(squads, "nope", "c1", testRoster())

	assert.Equal(t, squads, next)
}

func TestAddMember_DoesNotMutateInput(t *testing.T) {
	squads := SquadList{
		{ID: "s1", Name: "A", LeaderID: "c1", Members: []string{"c1"}},
		{ID: "s2", Name: "B"},
	}

	_ = AddMember(squads, "s2", "c1", testRoster())

	assert.Equal(t, []string{"c1"}, squads[0].Members)
	assert.Equal(t, "c1", squads[0].LeaderID)
}

func TestRemoveMember(t *testing.T) {
	cases := []struct {
		name        string
		squads      SquadList
		squadID     string
		characterID string
		want        SquadList
	}{
		{
			name:        "removes a regular member",
			squads:      SquadList{{ID: "s1", Name: "A", LeaderID: "c1", Members: []string{"c1", "c2"}}},
			squadID:     "s1",
			characterID: "c2",
			want:        SquadList{{ID: "s1", Name: "A", LeaderID: "c1", Members: []string{"c1"}}},
		},
		{
			name:        "removing the leader clears the slot",
			squads:      SquadList{{ID: "s1", Name: "A", LeaderID: "c1", Members: []string{"c1", "c2"}}},
			squadID:     "s1",
			characterID: "c1",
			want:        SquadList{{ID: "s1", Name: "A", LeaderID: "", Members: []string{"c2"}}},
		},
		{
			name:        "absent member is a no-op",
			squads:      SquadList{{ID: "s1", Name: "A", Members: []string{"c2"}}},
			squadID:     "s1",
			characterID: "c3",
			want:        SquadList{{ID: "s1", Name: "A", Members: []string{"c2"}}},
		},
		{
			name:        "unknown squad is a no-op",
			squads:      SquadList{{ID: "s1", Name: "A", Members: []string{"c2"}}},
			squadID:     "s9",
			characterID: "c2",
			want:        SquadList{{ID: "s1", Name: "A", Members: []string{"c2"}}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RemoveMember(tc.squads, tc.squadID, tc.characterID)
			assert.Equal(t, tc.want, got)
			leaderAtFront(t, got)
		})
	}
}

func TestAddThenRemove_RoundTrip(t *testing.T) {
	squads := SquadList{
		{ID: "s1", Name: "A", LeaderID: "c1", Members: []string{"c1", "c2"}},
		{ID: "s2", Name: "B"},
	}
	r := testRoster()

	got := RemoveMember(AddMember(squads, "s2", "c3", r), "s2", "c3")

	assert.Equal(t, squads[0], got[0])
	assert.Empty(t, got[1].Members)
	assert.Equal(t, squads[1].Name, got[1].Name)
}

func TestCreateSquadWithMember(t *testing.T) {
	squads := SquadList{{ID: "s1", Name: "Squad 1", LeaderID: "c1", Members: []string{"c1", "c2"}}}
	r := testRoster()

	next := CreateSquadWithMember(squads, "c2", r)

	require.Len(t, next, 2)
	created := next[1]
	assert.Equal(t, "Squad 2", created.Name)
	assert.Equal(t, []string{"c2"}, created.Members)
	assert.Equal(t, "", created.LeaderID) // c2 is not leader eligible
	assert.NotContains(t, next[0].Members, "c2")
	membershipUnique(t, next)
}

func TestCreateSquadWithMember_EligibleLeadsNewSquad(t *testing.T) {
	next := CreateSquadWithMember(nil, "c1", testRoster())

	require.Len(t, next, 1)
	assert.Equal(t, "Squad 1", next[0].Name)
	assert.Equal(t, "c1", next[0].LeaderID)
	assert.Equal(t, []string{"c1"}, next[0].Members)
}

func TestPromoteToLeader(t *testing.T) {
	squads := SquadList{{ID: "s1", Name: "A", LeaderID: "c1", Members: []string{"c1", "c2", "c3"}}}

	next := PromoteToLeader(squads, "s1", "c3")

	assert.Equal(t, "c3", next[0].LeaderID)
	assert.Equal(t, []string{"c3", "c1", "c2"}, next[0].Members)
	leaderAtFront(t, next)
}

func TestPromoteToLeader_NonMemberIsNoop(t *testing.T) {
	squads := SquadList{{ID: "s1", Name: "A", LeaderID: "c1", Members: []string{"c1"}}}

	next := PromoteToLeader(squads, "s1", "c3")

	assert.Equal(t, squads, next)
}

func TestMoveUp(t *testing.T) {
	cases := []struct {
		name        string
		squads      SquadList
		characterID string
		want        []string
	}{
		{
			name:        "swaps with predecessor",
			squads:      SquadList{{ID: "s1", Members: []string{"c2", "c3", "c4"}}},
			characterID: "c4",
			want:        []string{"c2", "c4", "c3"},
		},
		{
			name:        "front of squad is a no-op",
			squads:      SquadList{{ID: "s1", Members: []string{"c2", "c3"}}},
			characterID: "c2",
			want:        []string{"c2", "c3"},
		},
		{
			name:        "cannot displace the leader",
			squads:      SquadList{{ID: "s1", LeaderID: "c1", Members: []string{"c1", "c2"}}},
			characterID: "c2",
			want:        []string{"c1", "c2"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MoveUp(tc.squads, "s1", tc.characterID)
			assert.Equal(t, tc.want, got[0].Members)
			leaderAtFront(t, got)
		})
	}
}

func TestRenameSquad(t *testing.T) {
	squads := SquadList{{ID: "s1", Name: "A", Members: []string{"c2"}}}

	next := RenameSquad(squads, "s1", "Vanguard")

	assert.Equal(t, "Vanguard", next[0].Name)
	assert.Equal(t, squads[0].Members, next[0].Members)
	assert.Equal(t, "A", squads[0].Name)
}

func TestDeleteSquad_MembersBecomeUnassigned(t *testing.T) {
	squads := SquadList{
		{ID: "s1", Name: "A", Members: []string{"c1"}},
		{ID: "s2", Name: "B", Members: []string{"c2", "c3"}},
	}

	next := DeleteSquad(squads, "s2")

	require.Len(t, next, 1)
	assert.Equal(t, "s1", next[0].ID)
	assert.False(t, AssignedIDs(next)["c2"])
}

// A long, adversarial op sequence: the uniqueness and leader
// invariants must hold after every step.
func TestOperationSequence_InvariantsHold(t *testing.T) {
	r := testRoster()
	squads := SquadList{}

	ops := []func(SquadList) SquadList{
		func(s SquadList) SquadList { return CreateSquadWithMember(s, "c1", r) },
		func(s SquadList) SquadList { return CreateSquadWithMember(s, "c2", r) },
		func(s SquadList) SquadList { return AddMember(s, "s1", "c3", r) },
		func(s SquadList) SquadList { return AddMember(s, "s2", "c3", r) },
		func(s SquadList) SquadList { return AddMember(s, "s2", "c1", r) },
		func(s SquadList) SquadList { return PromoteToLeader(s, "s2", "c3") },
		func(s SquadList) SquadList { return MoveUp(s, "s2", "c1") },
		func(s SquadList) SquadList { return CreateSquadWithMember(s, "c1", r) },
		func(s SquadList) SquadList { return RemoveMember(s, "s2", "c3") },
		func(s SquadList) SquadList { return AddMember(s, "s1", "c4", r) },
		func(s SquadList) SquadList { return DeleteSquad(s, "s2") },
		func(s SquadList) SquadList { return AddMember(s, "s1", "c2", r) },
	}

	for _, op := range ops {
		squads = op(squads)
		membershipUnique(t, squads)
		leaderAtFront(t, squads)
	}
}
