package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kwezi/villagequest/internal/geo"
	"github.com/kwezi/villagequest/internal/village"
)

// MapResponse is the static content every profile plays on.
type MapResponse struct {
	Start    string           `json:"start"`
	Center   geo.Coordinate   `json:"center"`
	Villages []village.Village `json:"villages"`
	Paths    []village.Path    `json:"paths"`
	Badges   []village.Badge   `json:"badges"`
}

// PositionResponse is a point along a path.
type PositionResponse struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	T        float64        `json:"t"`
	Position geo.Coordinate `json:"position"`
}

func handleMap(g *village.Graph, badges []village.Badge) http.HandlerFunc {
	resp := MapResponse{
		Start:    g.Start(),
		Center:   g.Center(),
		Villages: g.Villages(),
		Paths:    g.Paths(),
		Badges:   badges,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}

func handlePathPosition(g *village.Graph) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to := chi.URLParam(r, "from"), chi.URLParam(r, "to")

		raw := r.URL.Query().Get("t")
		if raw == "" {
			writeError(w, http.StatusBadRequest, "t query parameter required")
			return
		}
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "t must be a number")
			return
		}

		if _, ok := g.Village(from); !ok {
			writeError(w, http.StatusNotFound, "unknown village "+from)
			return
		}
		if _, ok := g.Village(to); !ok {
			writeError(w, http.StatusNotFound, "unknown village "+to)
			return
		}
		path, ok := g.PathBetween(from, to)
		if !ok {
			writeError(w, http.StatusNotFound, "no path between villages")
			return
		}

		writeJSON(w, http.StatusOK, PositionResponse{
			From:     from,
			To:       to,
			T:        t,
			Position: geo.InterpolateOr(path.Oriented(from), t, g.Center()),
		})
	}
}
