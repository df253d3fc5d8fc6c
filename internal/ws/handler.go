package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/clanops/squad-roster-backend/internal/engine"
	"github.com/clanops/squad-roster-backend/internal/hub"
	"github.com/clanops/squad-roster-backend/internal/room"
	"github.com/clanops/squad-roster-backend/internal/types"
)

// Handler upgrades the connection and bridges it to the event's room:
// snapshots flow out to the socket, publishes flow in from it. The
// subscription lives exactly as long as the connection.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.URL.Query().Get("event_id")
		if eventID == "" {
			http.Error(w, "missing event_id", http.StatusBadRequest)
			return
		}
		actorID := r.URL.Query().Get("actor_id")
		if actorID == "" {
			actorID = randID(6)
		}
		// The subscription is keyed per connection, never by actor:
		// one actor may hold several sessions and each must keep
		// receiving snapshots.
		subID := randID(6)

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{EventID: eventID, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "room unavailable", http.StatusInternalServerError)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Warn("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan room.Snapshot, 8)
		rm.Join(subID, out)
		defer rm.Leave(subID)

		// Writer goroutine: exits when the room closes the outbox.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{Type: "Snapshot", Version: snap.Version, Squads: snap.Squads}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
					log.Debug("snapshot write failed", zap.Error(err))
				}
				cancel()
			}
		}()

		// Reader loop. No idle timeout: viewers may sit on a snapshot
		// for the whole planning window.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise just exit (room.Leave in defer).
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			switch cm.Type {
			case "Publish":
				rm.Publish(engine.SquadList(cm.Squads), actorID)
			default:
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"unknown type"}`))
			}
		}
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
