package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwezi/villagequest/internal/village"
)

func TestDefaultProgress(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := DefaultProgress(village.Mayotte(), now)

	assert.Equal(t, "mamoudzou", p.CurrentVillage)
	assert.Equal(t, []string{"mamoudzou"}, p.VisitedVillages)
	assert.Equal(t, []string{"mamoudzou"}, p.UnlockedVillages)
	assert.Empty(t, p.CompletedQuiz)
	assert.Empty(t, p.Badges)
	assert.Zero(t, p.Score)
	assert.Equal(t, now, p.LastPlayTime)
	assert.Equal(t, cMamoudzou, p.CurrentPosition)
}

func TestCloneIsDeep(t *testing.T) {
	p := DefaultProgress(village.Mayotte(), time.Now())
	c := p.Clone()
	c.VisitedVillages[0] = "x"
	c.UnlockedVillages = append(c.UnlockedVillages, "y")
	assert.Equal(t, "mamoudzou", p.VisitedVillages[0])
	assert.Len(t, p.UnlockedVillages, 1)
}

func TestMarshalWireFormat(t *testing.T) {
	p := DefaultProgress(village.Mayotte(), time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "mamoudzou", raw["currentVillage"])
	assert.Equal(t, "2026-05-01T12:00:00Z", raw["lastPlayTime"])
	assert.Equal(t, []any{}, raw["completedQuiz"], "empty sets are arrays, not null")
	assert.Contains(t, raw, "currentPosition")
	assert.Contains(t, raw, "unlockedVillages")
}

func TestDecodeRepairs(t *testing.T) {
	g := testGraph(t)

	tests := []struct {
		name  string
		blob  string
		check func(t *testing.T, p Progress)
	}{
		{
			name: "empty object",
			blob: `{}`,
			check: func(t *testing.T, p Progress) {
				assert.Equal(t, "mamoudzou", p.CurrentVillage)
				assert.Equal(t, []string{"mamoudzou"}, p.VisitedVillages)
				assert.Equal(t, []string{"mamoudzou"}, p.UnlockedVillages)
				assert.Equal(t, cMamoudzou, p.CurrentPosition)
			},
		},
		{
			name: "unknown current village",
			blob: `{"currentVillage":"atlantis","currentPosition":{"latitude":1,"longitude":2}}`,
			check: func(t *testing.T, p Progress) {
				assert.Equal(t, "mamoudzou", p.CurrentVillage)
				assert.Equal(t, cMamoudzou, p.CurrentPosition, "position follows the replacement village")
			},
		},
		{
			name: "unknown and duplicate ids dropped",
			blob: `{"currentVillage":"mamoudzou","visitedVillages":["mamoudzou","ghost","mamoudzou"],` +
				`"completedQuiz":["koungou","koungou","nowhere"],"badges":["a","a",""]}`,
			check: func(t *testing.T, p Progress) {
				assert.Equal(t, []string{"mamoudzou"}, p.VisitedVillages)
				assert.Equal(t, []string{"koungou"}, p.CompletedQuiz)
				assert.Equal(t, []string{"a"}, p.Badges)
			},
		},
		{
			name: "visited implies unlocked and current implies visited",
			blob: `{"currentVillage":"koungou","visitedVillages":[],"unlockedVillages":[]}`,
			check: func(t *testing.T, p Progress) {
				assert.Equal(t, []string{"mamoudzou", "koungou"}, p.VisitedVillages)
				assert.Equal(t, []string{"mamoudzou", "koungou"}, p.UnlockedVillages)
				assert.Equal(t, cKoungou, p.CurrentPosition)
			},
		},
		{
			name: "negative score clamped",
			blob: `{"score":-40}`,
			check: func(t *testing.T, p Progress) {
				assert.Zero(t, p.Score)
			},
		},
		{
			name: "invalid position replaced",
			blob: `{"currentVillage":"koungou","currentPosition":{"latitude":123,"longitude":0}}`,
			check: func(t *testing.T, p Progress) {
				assert.Equal(t, cKoungou, p.CurrentPosition)
			},
		},
		{
			name: "bad timestamp ignored",
			blob: `{"lastPlayTime":"yesterday","score":5}`,
			check: func(t *testing.T, p Progress) {
				assert.True(t, p.LastPlayTime.IsZero())
				assert.Equal(t, 5, p.Score)
			},
		},
		{
			name: "mid-path position kept",
			blob: `{"currentVillage":"koungou","currentPosition":{"latitude":-12.75,"longitude":45.21}}`,
			check: func(t *testing.T, p Progress) {
				assert.Equal(t, -12.75, p.CurrentPosition.Latitude)
				assert.Equal(t, 45.21, p.CurrentPosition.Longitude)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(tt.blob, g)
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	for _, blob := range []string{"", "{", "null,", `{"score":"lots"}`} {
		_, err := Decode(blob, testGraph(t))
		assert.Error(t, err, "blob %q", blob)
	}
}

func TestUnmarshalJSONDoesNotRepair(t *testing.T) {
	var p Progress
	require.NoError(t, json.Unmarshal([]byte(`{"currentVillage":"atlantis","score":-3}`), &p))
	assert.Equal(t, "atlantis", p.CurrentVillage)
	assert.Equal(t, -3, p.Score)

	assert.Error(t, json.Unmarshal([]byte(`{"lastPlayTime":"soon"}`), &p))
}
