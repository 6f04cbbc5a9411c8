package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/kwezi/villagequest/internal/game"
)

// ProfileParams documents the {profile} path segment.
type ProfileParams struct {
	Profile string `path:"profile" pattern:"^[a-z0-9-]{1,32}$" description:"Child profile slug."`
}

type travelInput struct {
	ProfileParams
	TravelRequest
}

type quizInput struct {
	ProfileParams
	QuizRequest
}

type resetInput struct {
	ProfileParams
	ResetRequest
}

type positionInput struct {
	From string  `path:"from"`
	To   string  `path:"to"`
	T    float64 `query:"t" required:"true" description:"Fraction of the path, clamped to [0,1]."`
}

// healthDoc mirrors the body written by the health handler.
type healthDoc struct {
	Status string                       `json:"status"`
	Checks map[string]map[string]string `json:"checks"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "VillageQuest API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Village discovery progression for the Mayotte language game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of the configured storage backend.")
	getHealthz.AddRespStructure(healthDoc{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(healthDoc{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/map
	getMap, _ := r.NewOperationContext(http.MethodGet, "/api/map")
	getMap.SetSummary("Village map")
	getMap.SetDescription("Static villages, paths and badge catalog.")
	getMap.AddRespStructure(MapResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getMap)

	// GET /api/map/paths/{from}/{to}/position
	getPosition, _ := r.NewOperationContext(http.MethodGet, "/api/map/paths/{from}/{to}/position")
	getPosition.SetSummary("Position along a path")
	getPosition.SetDescription("Interpolates a coordinate at fraction t of the path from one village to another, for travel animation.")
	getPosition.AddReqStructure(positionInput{})
	getPosition.AddRespStructure(PositionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getPosition.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	getPosition.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getPosition)

	// GET /api/profiles/{profile}/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/profiles/{profile}/state")
	getState.SetSummary("Profile state")
	getState.SetDescription("Villages annotated with the profile's progress, the paths, and the raw progress.")
	getState.AddReqStructure(ProfileParams{})
	getState.AddRespStructure(game.State{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getState)

	// GET /api/profiles/{profile}/stats
	getStats, _ := r.NewOperationContext(http.MethodGet, "/api/profiles/{profile}/stats")
	getStats.SetSummary("Profile stats")
	getStats.AddReqStructure(ProfileParams{})
	getStats.AddRespStructure(game.Stats{}, openapi.WithHTTPStatus(http.StatusOK))
	getStats.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getStats)

	// GET /api/profiles/{profile}/destinations
	getDest, _ := r.NewOperationContext(http.MethodGet, "/api/profiles/{profile}/destinations")
	getDest.SetSummary("Destinations")
	getDest.SetDescription("Villages joined to the current village by a path.")
	getDest.AddReqStructure(ProfileParams{})
	getDest.AddRespStructure([]game.Destination{}, openapi.WithHTTPStatus(http.StatusOK))
	getDest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getDest)

	// POST /api/profiles/{profile}/travel
	postTravel, _ := r.NewOperationContext(http.MethodPost, "/api/profiles/{profile}/travel")
	postTravel.SetSummary("Travel")
	postTravel.SetDescription("Moves the player to an unlocked neighbouring village.")
	postTravel.AddReqStructure(travelInput{})
	postTravel.AddRespStructure(TravelResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postTravel.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postTravel.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postTravel.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postTravel)

	// POST /api/profiles/{profile}/quiz
	postQuiz, _ := r.NewOperationContext(http.MethodPost, "/api/profiles/{profile}/quiz")
	postQuiz.SetSummary("Answer quiz")
	postQuiz.SetDescription("Scores an answer to a village quiz. Only the first answer per village earns points.")
	postQuiz.AddReqStructure(quizInput{})
	postQuiz.AddRespStructure(QuizResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postQuiz.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postQuiz.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postQuiz)

	// POST /api/profiles/{profile}/reset
	postReset, _ := r.NewOperationContext(http.MethodPost, "/api/profiles/{profile}/reset")
	postReset.SetSummary("Reset progress")
	postReset.SetDescription("Clears the profile's progress. Requires the parent PIN when one is configured.")
	postReset.AddReqStructure(resetInput{})
	postReset.AddRespStructure(game.State{}, openapi.WithHTTPStatus(http.StatusOK))
	postReset.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(postReset)

	// GET /api/profiles/{profile}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/profiles/{profile}/events")
	getEvents.SetSummary("SSE state stream")
	getEvents.SetDescription("Server-Sent Events stream of state snapshots, current state first.")
	getEvents.AddReqStructure(ProfileParams{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/profiles/{profile}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/profiles/{profile}/ws")
	getWS.SetSummary("WebSocket state stream")
	getWS.SetDescription("Upgrades to a WebSocket that pushes state snapshots as JSON text messages.")
	getWS.AddReqStructure(ProfileParams{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("application/json"))
	_ = r.AddOperation(getWS)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
