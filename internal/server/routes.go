package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/kwezi/villagequest/internal/handler/health"
	"github.com/kwezi/villagequest/internal/village"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	g := deps.Profiles.Graph()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("VillageQuest API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())
	r.Method("GET", "/metrics", deps.Metrics.Handler())

	r.Get("/api/map", handleMap(g, village.Badges()))
	r.Get("/api/map/paths/{from}/{to}/position", handlePathPosition(g))

	// Profile routes, {profile} resolved by profileMiddleware.
	r.Route("/api/profiles/{profile}", func(r chi.Router) {
		r.Use(profileMiddleware(deps.Profiles))
		r.Get("/state", handleState())
		r.Get("/stats", handleStats())
		r.Get("/destinations", handleDestinations())
		r.Post("/travel", handleTravel(deps.Metrics))
		r.Post("/quiz", handleQuiz(g, deps.Metrics))
		r.Post("/reset", handleReset(deps.ResetPINHash, deps.Metrics))
		r.Get("/events", handleEvents(deps.Profiles.Broker()))
		r.Get("/ws", handleStream(logger, deps.Profiles.Broker()))
	})
}
