package room

import (
	"context"

	"go.uber.org/zap"

	"github.com/clanops/squad-roster-backend/internal/engine"
)

type Msg interface{ isRoomMsg() }

// Join registers a subscriber; the current snapshot is sent to its
// outbox immediately. ClientID keys the subscription, so callers use
// one id per connection, not per actor. Joining again under an
// existing id closes the prior outbox and replaces it.
type Join struct {
	ClientID string
	Outbox   chan Snapshot
}

func (Join) isRoomMsg() {}

type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

// Publish replaces the room's squad list outright and broadcasts the
// result to every subscriber, the publisher included. The room does
// not merge or validate; the latest published list wins.
type Publish struct {
	Squads  engine.SquadList
	ActorID string
}

func (Publish) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

// Snapshot is the full squad list broadcast to subscribers, never a
// diff.
type Snapshot struct {
	Version int
	Squads  engine.SquadList
}

// View reflects internal state without data races; used by the HTTP
// read endpoints and tests.
type View struct {
	Version    int
	NumClients int
	Squads     engine.SquadList
}

// Room is the broadcast group for one event's squad list: a single
// goroutine owning the latest snapshot and fanning it out.
type Room struct {
	eventID string
	inbox   chan Msg
	squads  engine.SquadList
	version int
	clients map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
	log     *zap.Logger
}

func NewRoom(parent context.Context, eventID string, initial engine.SquadList, log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		eventID: eventID,
		inbox:   make(chan Msg, 64),
		squads:  engine.Clone(initial),
		version: 0,
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
		log:     log.With(zap.String("event_id", eventID)),
	}

	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Join, Leave and Publish wrap the inbox for in-process subscribers.
func (r *Room) Join(clientID string, out chan Snapshot) {
	r.inbox <- Join{ClientID: clientID, Outbox: out}
}

func (r *Room) Leave(clientID string) { r.inbox <- Leave{ClientID: clientID} }

func (r *Room) Publish(squads engine.SquadList, actorID string) {
	r.inbox <- Publish{Squads: squads, ActorID: actorID}
}

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				// A re-join under the same id replaces the old
				// subscription; close it so its consumer terminates
				// instead of silently starving.
				if prev, ok := r.clients[msg.ClientID]; ok {
					close(prev)
				}
				r.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: r.version, Squads: r.squads}

			case Leave:
				if ch, ok := r.clients[msg.ClientID]; ok {
					close(ch)
					delete(r.clients, msg.ClientID)
				}

			case Publish:
				r.squads = engine.Clone(msg.Squads)
				r.version++
				r.log.Debug("snapshot published",
					zap.String("actor_id", msg.ActorID),
					zap.Int("version", r.version))
				r.broadcast(Snapshot{Version: r.version, Squads: r.squads})

			case GetState:
				msg.Reply <- View{
					Version:    r.version,
					NumClients: len(r.clients),
					Squads:     engine.Clone(r.squads),
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch) // tell client no more snapshots
		delete(r.clients, id)
	}
	r.cancel()
}

func (r *Room) broadcast(snap Snapshot) {
	for id, ch := range r.clients {
		select {
		case ch <- snap:
			// ok
		default:
			// Client is slow/full - drop them.
			r.log.Warn("dropping slow subscriber", zap.String("client_id", id))
			close(ch)
			delete(r.clients, id)
		}
	}
}
