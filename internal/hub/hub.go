package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/clanops/squad-roster-backend/internal/engine"
	"github.com/clanops/squad-roster-backend/internal/room"
)

type HubMsg interface{ isHubMsg() }

// EnsureRoom replies with the room for the event id, creating it with
// the given squad list if it does not exist yet.
type EnsureRoom struct {
	EventID string
	Squads  engine.SquadList // only used if creation happens
	Reply   chan *room.Room
}

type GetRoom struct {
	EventID string
	Reply   chan *room.Room
}

type RemoveRoom struct {
	EventID string
}

type ShutdownHub struct{}

func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

// Hub owns the rooms, one per event id.
type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				if rm := h.rooms[msg.EventID]; rm != nil {
					msg.Reply <- rm
					break
				}
				rm := room.NewRoom(h.ctx, msg.EventID, msg.Squads, h.log)
				h.rooms[msg.EventID] = rm
				h.log.Info("room created", zap.String("event_id", msg.EventID))
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- h.rooms[msg.EventID] // may be nil

			case RemoveRoom:
				if rm := h.rooms[msg.EventID]; rm != nil {
					rm.Inbox() <- room.Shutdown{}
					delete(h.rooms, msg.EventID)
				}

			case ShutdownHub:
				for _, rm := range h.rooms {
					rm.Inbox() <- room.Shutdown{}
				}
				clear(h.rooms)
				h.cancel()
			}
		}
	}
}
