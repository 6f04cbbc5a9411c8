package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwezi/villagequest/internal/game"
	"github.com/kwezi/villagequest/internal/village"
)

func TestBroker(t *testing.T) {
	b := NewBroker(quietLogger())
	ch := b.Subscribe("amina")
	other := b.Subscribe("said")
	assert.Equal(t, 1, b.Subscribers("amina"))

	b.Publish("amina", game.State{IsLoaded: true, Progress: game.Progress{Score: 42}})

	select {
	case data := <-ch:
		var s game.State
		require.NoError(t, json.Unmarshal(data, &s))
		assert.Equal(t, 42, s.Progress.Score)
	default:
		t.Fatal("no snapshot delivered")
	}
	assert.Empty(t, other, "other profiles receive nothing")

	b.Unsubscribe("amina", ch)
	assert.Zero(t, b.Subscribers("amina"))
	b.Publish("amina", game.State{})
	assert.Empty(t, ch)
}

func TestBrokerDropsForSlowSubscribers(t *testing.T) {
	b := NewBroker(quietLogger())
	ch := b.Subscribe("amina")

	for i := 0; i < cap(ch)+5; i++ {
		b.Publish("amina", game.State{Progress: game.Progress{Score: i}})
	}
	assert.Len(t, ch, cap(ch))
}

func TestBrokerLogsEncodingFailures(t *testing.T) {
	var logs bytes.Buffer
	b := NewBroker(slog.New(slog.NewTextHandler(&logs, nil)))
	ch := b.Subscribe("amina")

	b.Publish("amina", game.State{Paths: []village.Path{{Distance: math.NaN()}}})

	assert.Empty(t, ch)
	assert.Contains(t, logs.String(), "encoding snapshot failed")
	assert.Contains(t, logs.String(), "profile=amina")
}
