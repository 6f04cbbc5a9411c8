package server

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/kwezi/villagequest/internal/game"
)

// Broker is an in-process pub/sub of encoded state snapshots, keyed by
// profile slug. It feeds both the SSE and the websocket streams.
type Broker struct {
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		logger: logger,
		subs:   make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded snapshots for the
// given profile.
func (b *Broker) Subscribe(profile string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[profile] == nil {
		b.subs[profile] = make(map[chan []byte]struct{})
	}
	b.subs[profile][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the profile's subscribers.
func (b *Broker) Unsubscribe(profile string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[profile], ch)
	if len(b.subs[profile]) == 0 {
		delete(b.subs, profile)
	}
	b.mu.Unlock()
}

// Subscribers returns how many streams are attached to profile.
func (b *Broker) Subscribers(profile string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[profile])
}

// Publish sends state to every subscriber of profile. Slow subscribers miss
// the update; the next snapshot is complete anyway.
func (b *Broker) Publish(profile string, state game.State) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.subs[profile]) == 0 {
		return
	}

	data, err := json.Marshal(state)
	if err != nil {
		b.logger.Error("encoding snapshot failed", "profile", profile, "error", err)
		return
	}
	for ch := range b.subs[profile] {
		select {
		case ch <- data:
		default:
		}
	}
}
