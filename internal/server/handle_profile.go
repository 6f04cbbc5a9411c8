package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/kwezi/villagequest/internal/game"
	"github.com/kwezi/villagequest/internal/village"
)

// TravelRequest is the request body for POST /api/profiles/{profile}/travel.
type TravelRequest struct {
	VillageID string `json:"villageId"`
}

// TravelResponse is a successful travel with the progress it produced.
type TravelResponse struct {
	game.TravelResult
}

// QuizRequest is the request body for POST /api/profiles/{profile}/quiz.
type QuizRequest struct {
	VillageID   string `json:"villageId"`
	AnswerIndex *int   `json:"answerIndex"`
}

// QuizResponse tells the player how they did and what it earned.
type QuizResponse struct {
	game.QuizResult
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correctIndex"`
	Explanation  string `json:"explanation,omitempty"`
	Score        int    `json:"score"`
}

// ResetRequest is the request body for POST /api/profiles/{profile}/reset.
type ResetRequest struct {
	PIN string `json:"pin"`
}

func handleState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, profileEngine(r).State())
	}
}

func handleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, profileEngine(r).Stats())
	}
}

func handleDestinations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, profileEngine(r).Destinations())
	}
}

func handleTravel(metrics *Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TravelRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.VillageID == "" {
			writeError(w, http.StatusBadRequest, "villageId is required")
			return
		}

		// The write is finished even if the child closes the tab mid-request.
		res := profileEngine(r).TravelTo(context.WithoutCancel(r.Context()), req.VillageID)
		metrics.travel(res.Success)

		if !res.Success {
			status := http.StatusConflict
			if res.Reason == game.ReasonUnknownVillage {
				status = http.StatusNotFound
			}
			writeError(w, status, res.Reason)
			return
		}

		writeJSON(w, http.StatusOK, TravelResponse{TravelResult: res})
	}
}

func handleQuiz(g *village.Graph, metrics *Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuizRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.VillageID == "" || req.AnswerIndex == nil {
			writeError(w, http.StatusBadRequest, "villageId and answerIndex are required")
			return
		}

		v, ok := g.Village(req.VillageID)
		if !ok {
			writeError(w, http.StatusNotFound, game.ReasonUnknownVillage)
			return
		}
		if !v.HasQuiz() {
			writeError(w, http.StatusNotFound, game.ReasonNoQuiz)
			return
		}
		quiz := v.Meta.Quiz
		if *req.AnswerIndex < 0 || *req.AnswerIndex >= len(quiz.Options) {
			writeError(w, http.StatusBadRequest, "answerIndex out of range")
			return
		}

		correct := *req.AnswerIndex == quiz.CorrectIndex
		res := profileEngine(r).CompleteQuiz(context.WithoutCancel(r.Context()), v.ID, correct)
		if res.Reason != "" {
			writeError(w, http.StatusConflict, res.Reason)
			return
		}
		metrics.quiz(correct, len(res.Badges))

		writeJSON(w, http.StatusOK, QuizResponse{
			QuizResult:   res,
			Correct:      correct,
			CorrectIndex: quiz.CorrectIndex,
			Explanation:  quiz.Explanation,
			Score:        res.Progress.Score,
		})
	}
}

func handleReset(pinHash string, metrics *Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetRequest
		if err := readJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if pinHash != "" {
			if err := bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(req.PIN)); err != nil {
				writeError(w, http.StatusForbidden, "invalid pin")
				return
			}
		}

		state := profileEngine(r).Reset(context.WithoutCancel(r.Context()))
		metrics.reset()

		writeJSON(w, http.StatusOK, state)
	}
}
