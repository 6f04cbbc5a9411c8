package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const pingInterval = 30 * time.Second

// handleEvents streams the profile's state as Server-Sent Events: the
// current snapshot first, then one event per change.
func handleEvents(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		slug := profileSlug(r)
		ch := broker.Subscribe(slug)
		defer broker.Unsubscribe(slug, ch)

		initial, err := json.Marshal(profileEngine(r).State())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "encoding state")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		fmt.Fprintf(w, "event: state\ndata: %s\n\n", initial)
		flusher.Flush()

		ping := time.NewTicker(pingInterval)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
