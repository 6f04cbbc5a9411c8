package game

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/kwezi/villagequest/internal/geo"
	"github.com/kwezi/villagequest/internal/village"
)

// Progress is the complete persisted player state.
//
// Invariants: VisitedVillages contains CurrentVillage and the start
// prefecture; every visited village is unlocked; ids appear at most once
// in each set; VisitedVillages keeps first-visit order.
//
// The tags only document the wire names; MarshalJSON writes the blob.
type Progress struct {
	CurrentVillage   string         `json:"currentVillage"`
	VisitedVillages  []string       `json:"visitedVillages"`
	UnlockedVillages []string       `json:"unlockedVillages"`
	CompletedQuiz    []string       `json:"completedQuiz"`
	Score            int            `json:"score"`
	Badges           []string       `json:"badges"`
	LastPlayTime     time.Time      `json:"lastPlayTime"`
	CurrentPosition  geo.Coordinate `json:"currentPosition"`
}

// DefaultProgress is the state of a first run on g: only the prefecture,
// score zero.
func DefaultProgress(g *village.Graph, now time.Time) Progress {
	start := g.Start()
	v, _ := g.Village(start)
	return Progress{
		CurrentVillage:   start,
		VisitedVillages:  []string{start},
		UnlockedVillages: []string{start},
		CompletedQuiz:    []string{},
		Score:            0,
		Badges:           []string{},
		LastPlayTime:     now,
		CurrentPosition:  v.Coordinates,
	}
}

// Clone returns a deep copy.
func (p Progress) Clone() Progress {
	p.VisitedVillages = slices.Clone(p.VisitedVillages)
	p.UnlockedVillages = slices.Clone(p.UnlockedVillages)
	p.CompletedQuiz = slices.Clone(p.CompletedQuiz)
	p.Badges = slices.Clone(p.Badges)
	return p
}

func (p Progress) HasVisited(id string) bool   { return slices.Contains(p.VisitedVillages, id) }
func (p Progress) IsUnlocked(id string) bool   { return slices.Contains(p.UnlockedVillages, id) }
func (p Progress) HasCompleted(id string) bool { return slices.Contains(p.CompletedQuiz, id) }
func (p Progress) HasBadge(id string) bool     { return slices.Contains(p.Badges, id) }

func appendMissing(set []string, id string) []string {
	if slices.Contains(set, id) {
		return set
	}
	return append(set, id)
}

// progressJSON is the stored blob. CurrentPosition is a pointer so a blob
// written without it can be told apart from one sitting at 0,0.
type progressJSON struct {
	CurrentVillage   string          `json:"currentVillage"`
	VisitedVillages  []string        `json:"visitedVillages"`
	UnlockedVillages []string        `json:"unlockedVillages"`
	CompletedQuiz    []string        `json:"completedQuiz"`
	Score            int             `json:"score"`
	Badges           []string        `json:"badges"`
	LastPlayTime     string          `json:"lastPlayTime"`
	CurrentPosition  *geo.Coordinate `json:"currentPosition,omitempty"`
}

// MarshalJSON encodes the stored blob format.
func (p Progress) MarshalJSON() ([]byte, error) {
	pos := p.CurrentPosition
	return json.Marshal(progressJSON{
		CurrentVillage:   p.CurrentVillage,
		VisitedVillages:  nonNil(p.VisitedVillages),
		UnlockedVillages: nonNil(p.UnlockedVillages),
		CompletedQuiz:    nonNil(p.CompletedQuiz),
		Score:            p.Score,
		Badges:           nonNil(p.Badges),
		LastPlayTime:     p.LastPlayTime.UTC().Format(time.RFC3339Nano),
		CurrentPosition:  &pos,
	})
}

// UnmarshalJSON reads the stored blob format without graph repair; use
// Decode for blobs coming out of storage.
func (p *Progress) UnmarshalJSON(data []byte) error {
	var raw progressJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Progress{
		CurrentVillage:   raw.CurrentVillage,
		VisitedVillages:  raw.VisitedVillages,
		UnlockedVillages: raw.UnlockedVillages,
		CompletedQuiz:    raw.CompletedQuiz,
		Score:            raw.Score,
		Badges:           raw.Badges,
	}
	if raw.LastPlayTime != "" {
		t, err := time.Parse(time.RFC3339Nano, raw.LastPlayTime)
		if err != nil {
			return fmt.Errorf("lastPlayTime: %w", err)
		}
		p.LastPlayTime = t.UTC()
	}
	if raw.CurrentPosition != nil {
		p.CurrentPosition = *raw.CurrentPosition
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Encode serializes p to the stored blob.
func Encode(p Progress) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding progress: %w", err)
	}
	return string(data), nil
}

// Decode parses a stored blob and repairs it against g. Only a blob that
// is not valid JSON is rejected; missing or inconsistent fields are
// rebuilt from what the graph knows.
func Decode(data string, g *village.Graph) (Progress, error) {
	var raw progressJSON
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return Progress{}, fmt.Errorf("decoding progress: %w", err)
	}

	p := Progress{
		CurrentVillage:   raw.CurrentVillage,
		VisitedVillages:  known(raw.VisitedVillages, g),
		UnlockedVillages: known(raw.UnlockedVillages, g),
		CompletedQuiz:    known(raw.CompletedQuiz, g),
		Score:            max(raw.Score, 0),
		Badges:           dedupe(raw.Badges),
	}
	if raw.LastPlayTime != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw.LastPlayTime); err == nil {
			p.LastPlayTime = t.UTC()
		}
	}

	current, ok := g.Village(p.CurrentVillage)
	if !ok {
		current, _ = g.Village(g.Start())
		p.CurrentVillage = current.ID
		raw.CurrentPosition = nil
	}

	if !p.HasVisited(g.Start()) {
		p.VisitedVillages = append([]string{g.Start()}, p.VisitedVillages...)
	}
	p.VisitedVillages = appendMissing(p.VisitedVillages, p.CurrentVillage)
	for _, id := range p.VisitedVillages {
		p.UnlockedVillages = appendMissing(p.UnlockedVillages, id)
	}

	if raw.CurrentPosition != nil && raw.CurrentPosition.Valid() {
		p.CurrentPosition = *raw.CurrentPosition
	} else {
		p.CurrentPosition = current.Coordinates
	}
	return p, nil
}

// known drops duplicates and ids the graph does not contain, keeping order.
func known(ids []string, g *village.Graph) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := g.Village(id); ok {
			out = appendMissing(out, id)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = appendMissing(out, id)
		}
	}
	return out
}
