package store

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clanops/squad-roster-backend/internal/availability"
	"github.com/clanops/squad-roster-backend/internal/balance"
	"github.com/clanops/squad-roster-backend/internal/engine"
	"github.com/clanops/squad-roster-backend/internal/room"
	"github.com/clanops/squad-roster-backend/internal/roster"
)

// SyncStatus tracks the subscription lifecycle: connecting until the
// first snapshot arrives, synced until the store is closed. There is
// no stale state; connectivity loss is silent.
type SyncStatus string

const (
	StatusConnecting SyncStatus = "connecting"
	StatusSynced     SyncStatus = "synced"
	StatusClosed     SyncStatus = "closed"
)

// Channel is the transport the store publishes through and receives
// snapshots from. *room.Room satisfies it for in-process use.
type Channel interface {
	Join(clientID string, out chan room.Snapshot)
	Leave(clientID string)
	Publish(squads engine.SquadList, actorID string)
}

// Operation is one assignment-engine step over the current list.
type Operation func(engine.SquadList) engine.SquadList

type Config struct {
	ActorID      string
	ScheduledAt  time.Time
	CanEdit      func() bool // externally supplied capability check
	Roster       roster.Roster
	Participants []roster.Participant
	Now          func() time.Time
	Logger       *zap.Logger
}

// Store holds one client's local copy of the event squad list.
// Mutations apply locally right away; they are published only when
// the actor may edit and the event has not started. Received
// snapshots replace the local state outright.
type Store struct {
	mu           sync.Mutex
	actorID      string
	scheduledAt  time.Time
	canEdit      func() bool
	now          func() time.Time
	ch           Channel
	subID        string
	squads       engine.SquadList
	status       SyncStatus
	roster       roster.Roster
	participants []roster.Participant
	log          *zap.Logger
}

func New(cfg Config) *Store {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.CanEdit == nil {
		cfg.CanEdit = func() bool { return false }
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Store{
		actorID:      cfg.ActorID,
		scheduledAt:  cfg.ScheduledAt,
		canEdit:      cfg.CanEdit,
		now:          cfg.Now,
		status:       StatusConnecting,
		roster:       cfg.Roster,
		participants: cfg.Participants,
		log:          cfg.Logger,
	}
}

// Attach joins the channel and starts consuming snapshots until the
// channel closes the outbox (leave, slow-drop or room shutdown). The
// subscription gets its own id so several sessions of one actor can
// subscribe side by side; the actor id only attributes publishes.
func (s *Store) Attach(ch Channel) {
	out := make(chan room.Snapshot, 8)
	subID := fmt.Sprintf("%s-%06x", s.actorID, rand.Int31n(1<<24))

	s.mu.Lock()
	s.ch = ch
	s.subID = subID
	s.mu.Unlock()

	ch.Join(subID, out)
	go func() {
		for snap := range out {
			s.ApplySnapshot(snap.Squads)
		}
	}()
}

// Close leaves the channel. Terminal: the store stops accepting
// snapshots and mutations stay local-only.
func (s *Store) Close() {
	s.mu.Lock()
	ch := s.ch
	subID := s.subID
	s.ch = nil
	s.status = StatusClosed
	s.mu.Unlock()

	if ch != nil {
		ch.Leave(subID)
	}
}

// Mutate applies the operation optimistically, then publishes the
// result when the actor holds the edit capability and the event's
// scheduled time has not passed. A non-editor's local change survives
// only until the next snapshot arrives.
func (s *Store) Mutate(op Operation) {
	s.mu.Lock()
	next := op(s.squads)
	s.squads = next
	ch := s.ch
	publish := ch != nil && s.canEdit() && s.now().Before(s.scheduledAt)
	s.mu.Unlock()

	if publish {
		ch.Publish(next, s.actorID)
	}
}

// ApplySnapshot replaces the local list with the received one,
// regardless of pending local edits. Replace wins; there is no merge.
func (s *Store) ApplySnapshot(squads engine.SquadList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusClosed {
		return
	}
	s.squads = engine.Clone(squads)
	if s.status == StatusConnecting {
		s.status = StatusSynced
	}
}

// CanMutate reports whether a mutation would be published.
func (s *Store) CanMutate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canEdit() && s.now().Before(s.scheduledAt)
}

func (s *Store) Squads() engine.SquadList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return engine.Clone(s.squads)
}

func (s *Store) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Candidates lists unassigned characters for the event, ordered by
// intent then name.
func (s *Store) Candidates(includeFullRoster bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return availability.Candidates(s.participants, s.squads, s.roster, includeFullRoster)
}

// Balance derives the per-squad power and support hints.
func (s *Store) Balance(cfg balance.Config) balance.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return balance.Analyze(s.squads, s.roster, cfg)
}
