package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clanops/squad-roster-backend/internal/availability"
	"github.com/clanops/squad-roster-backend/internal/balance"
	"github.com/clanops/squad-roster-backend/internal/engine"
	"github.com/clanops/squad-roster-backend/internal/hub"
	"github.com/clanops/squad-roster-backend/internal/room"
	"github.com/clanops/squad-roster-backend/internal/roster"
)

func getRoom(h *hub.Hub, eventID string) *room.Room {
	reply := make(chan *room.Room, 1)
	h.Inbox() <- hub.GetRoom{EventID: eventID, Reply: reply}
	return <-reply
}

func roomView(rm *room.Room) room.View {
	reply := make(chan room.View, 1)
	rm.Inbox() <- room.GetState{Reply: reply}
	return <-reply
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// GetSquads returns the event's current squad list snapshot.
func GetSquads(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := getRoom(h, chi.URLParam(r, "eventID"))
		if rm == nil {
			http.Error(w, "event has no active room", http.StatusNotFound)
			return
		}
		view := roomView(rm)
		writeJSON(w, struct {
			Version int              `json:"version"`
			Squads  engine.SquadList `json:"squads"`
		}{Version: view.Version, Squads: view.Squads})
	}
}

// GetBalance returns the derived power and support hints for the
// event's current squads.
func GetBalance(h *hub.Hub, provider roster.Provider, cfg balance.Config, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := getRoom(h, chi.URLParam(r, "eventID"))
		if rm == nil {
			http.Error(w, "event has no active room", http.StatusNotFound)
			return
		}
		ros, err := provider.Roster(r.Context())
		if err != nil {
			log.Error("roster load failed", zap.Error(err))
			http.Error(w, "roster unavailable", http.StatusBadGateway)
			return
		}
		view := roomView(rm)
		writeJSON(w, balance.Analyze(view.Squads, ros, cfg))
	}
}

// GetCandidates returns the unassigned characters for the event,
// ordered by intent. ?full=1 widens the universe to the whole roster.
func GetCandidates(h *hub.Hub, provider roster.Provider, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := chi.URLParam(r, "eventID")
		rm := getRoom(h, eventID)
		if rm == nil {
			http.Error(w, "event has no active room", http.StatusNotFound)
			return
		}
		ev, err := provider.Event(r.Context(), eventID)
		if err != nil {
			log.Error("event load failed", zap.String("event_id", eventID), zap.Error(err))
			http.Error(w, "event unavailable", http.StatusBadGateway)
			return
		}
		ros, err := provider.Roster(r.Context())
		if err != nil {
			log.Error("roster load failed", zap.Error(err))
			http.Error(w, "roster unavailable", http.StatusBadGateway)
			return
		}

		full := r.URL.Query().Get("full") == "1"
		view := roomView(rm)
		writeJSON(w, struct {
			Candidates []string `json:"candidates"`
		}{Candidates: availability.Candidates(ev.Participants, view.Squads, ros, full)})
	}
}

// DeleteRoom tears the event's broadcast room down, closing every
// subscriber. Squad state is ephemeral, so this is the whole cleanup
// for the external event-deletion flow.
func DeleteRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.Inbox() <- hub.RemoveRoom{EventID: chi.URLParam(r, "eventID")}
		w.WriteHeader(http.StatusNoContent)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
