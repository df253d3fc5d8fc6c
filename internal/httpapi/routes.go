package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clanops/squad-roster-backend/internal/balance"
	"github.com/clanops/squad-roster-backend/internal/hub"
	"github.com/clanops/squad-roster-backend/internal/roster"
	"github.com/clanops/squad-roster-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, provider roster.Provider, cfg balance.Config, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	r.Get("/events/{eventID}/squads", GetSquads(h))
	r.Get("/events/{eventID}/balance", GetBalance(h, provider, cfg, log))
	r.Get("/events/{eventID}/candidates", GetCandidates(h, provider, log))
	r.Delete("/events/{eventID}/room", DeleteRoom(h))
	return r
}
