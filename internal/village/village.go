// Package village defines the static content of the map-exploration game:
// villages, the paths between them, their unlock requirements, and the
// badge catalog. Content is authored once and read-only at runtime.
package village

import (
	"errors"
	"fmt"

	"github.com/kwezi/villagequest/internal/geo"
)

// Kind distinguishes the single prefecture from ordinary communes.
type Kind string

const (
	KindPrefecture Kind = "prefecture"
	KindCommune    Kind = "commune"
)

// Transport is a cosmetic tag describing how a path is travelled.
type Transport string

const (
	TransportRoute Transport = "route"
	TransportBarge Transport = "barge"
	TransportTrail Transport = "trail"
)

// RequirementType tags the unlock requirement variant.
type RequirementType string

const (
	RequireVisit            RequirementType = "visit"
	RequireVisitCount       RequirementType = "visitCount"
	RequireQuizSuccessCount RequirementType = "quizSuccessCount"
	RequireVisitAll         RequirementType = "visitAll"
)

// Quiz is the optional question embedded in a village.
type Quiz struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// Meta holds display and narrative fields.
type Meta struct {
	Name        string `json:"name"`
	Shimaore    string `json:"shimaore,omitempty"`
	Kibouchi    string `json:"kibouchi,omitempty"`
	Description string `json:"description"`
	FunFact     string `json:"funFact,omitempty"`
	Quiz        *Quiz  `json:"quiz,omitempty"`
}

// Village is a map node. Whether a player has unlocked it lives in the
// player's progress, never on the Village itself.
type Village struct {
	ID          string         `json:"id"`
	Coordinates geo.Coordinate `json:"coordinates"`
	Kind        Kind           `json:"type"`
	Meta        Meta           `json:"meta"`
}

// HasQuiz reports whether the village embeds a quiz.
func (v Village) HasQuiz() bool { return v.Meta.Quiz != nil }

// Clone returns a copy of v that shares no memory with it.
func (v Village) Clone() Village {
	if v.Meta.Quiz != nil {
		q := *v.Meta.Quiz
		q.Options = append([]string(nil), q.Options...)
		v.Meta.Quiz = &q
	}
	return v
}

// Requirement gates a path. Village is set for RequireVisit, Count for
// the counting variants.
type Requirement struct {
	Type    RequirementType `json:"type"`
	Village string          `json:"village,omitempty"`
	Count   int             `json:"count,omitempty"`
}

// Path connects two villages. Paths are usable in both directions even
// though they are authored from From to To.
type Path struct {
	From        string           `json:"from"`
	To          string           `json:"to"`
	Coordinates []geo.Coordinate `json:"coordinates"`
	Distance    float64          `json:"distance"`
	Transport   Transport        `json:"transport"`
	Requirement Requirement      `json:"unlockRequirement"`
}

// Clone returns a copy of p with its own polyline.
func (p Path) Clone() Path {
	p.Coordinates = append([]geo.Coordinate(nil), p.Coordinates...)
	return p
}

// Connects reports whether the path joins a and b in either direction.
func (p Path) Connects(a, b string) bool {
	return (p.From == a && p.To == b) || (p.From == b && p.To == a)
}

// Other returns the endpoint opposite id.
func (p Path) Other(id string) string {
	if p.From == id {
		return p.To
	}
	return p.From
}

// Oriented returns the polyline running from the given endpoint to the other.
func (p Path) Oriented(from string) []geo.Coordinate {
	out := make([]geo.Coordinate, len(p.Coordinates))
	copy(out, p.Coordinates)
	if from == p.To && p.From != p.To {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Badge is an achievement granted once when its requirement holds.
type Badge struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Requirement Requirement `json:"requirement"`
	Icon        string      `json:"icon"`
}

var (
	ErrDuplicateVillage   = errors.New("village: duplicate village id")
	ErrPrefecture         = errors.New("village: graph needs exactly one prefecture")
	ErrUnknownVillage     = errors.New("village: unknown village")
	ErrEmptyPath          = errors.New("village: path has no coordinates")
	ErrInvalidRequirement = errors.New("village: invalid unlock requirement")
)

// Graph is the validated, read-only village network.
type Graph struct {
	villages []Village
	paths    []Path
	index    map[string]int
	adjacent map[string][]int
	start    string
	center   geo.Coordinate
}

// NewGraph validates the content and indexes it. Reachability of every
// village is an authoring contract and is not checked here.
func NewGraph(villages []Village, paths []Path) (*Graph, error) {
	g := &Graph{
		villages: cloneVillages(villages),
		paths:    clonePaths(paths),
		index:    make(map[string]int, len(villages)),
		adjacent: make(map[string][]int, len(villages)),
	}

	var lat, lon float64
	for i, v := range g.villages {
		if _, dup := g.index[v.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVillage, v.ID)
		}
		g.index[v.ID] = i
		if v.Kind == KindPrefecture {
			if g.start != "" {
				return nil, fmt.Errorf("%w: found %s and %s", ErrPrefecture, g.start, v.ID)
			}
			g.start = v.ID
		}
		lat += v.Coordinates.Latitude
		lon += v.Coordinates.Longitude
	}
	if g.start == "" {
		return nil, ErrPrefecture
	}
	n := float64(len(g.villages))
	g.center = geo.Coordinate{Latitude: lat / n, Longitude: lon / n}

	for i, p := range g.paths {
		for _, end := range []string{p.From, p.To} {
			if _, ok := g.index[end]; !ok {
				return nil, fmt.Errorf("%w: path %s-%s references %q", ErrUnknownVillage, p.From, p.To, end)
			}
		}
		if len(p.Coordinates) == 0 {
			return nil, fmt.Errorf("%w: %s-%s", ErrEmptyPath, p.From, p.To)
		}
		if err := g.checkRequirement(p.Requirement); err != nil {
			return nil, fmt.Errorf("path %s-%s: %w", p.From, p.To, err)
		}
		g.adjacent[p.From] = append(g.adjacent[p.From], i)
		if p.To != p.From {
			g.adjacent[p.To] = append(g.adjacent[p.To], i)
		}
	}

	return g, nil
}

func (g *Graph) checkRequirement(r Requirement) error {
	switch r.Type {
	case RequireVisit:
		if _, ok := g.index[r.Village]; !ok {
			return fmt.Errorf("%w: visit %q", ErrInvalidRequirement, r.Village)
		}
	case RequireVisitCount, RequireQuizSuccessCount:
		if r.Count < 0 {
			return fmt.Errorf("%w: negative count %d", ErrInvalidRequirement, r.Count)
		}
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidRequirement, r.Type)
	}
	return nil
}

func cloneVillages(vs []Village) []Village {
	out := make([]Village, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}

func clonePaths(ps []Path) []Path {
	out := make([]Path, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}

// MustGraph is NewGraph for bundled content that is known to be valid.
func MustGraph(villages []Village, paths []Path) *Graph {
	g, err := NewGraph(villages, paths)
	if err != nil {
		panic(err)
	}
	return g
}

// Start returns the prefecture id, the default unlocked node.
func (g *Graph) Start() string { return g.start }

// Center returns the mean of all village coordinates.
func (g *Graph) Center() geo.Coordinate { return g.center }

// Village returns the village with the given id.
func (g *Graph) Village(id string) (Village, bool) {
	i, ok := g.index[id]
	if !ok {
		return Village{}, false
	}
	return g.villages[i].Clone(), true
}

// Villages returns a deep copy of all villages in authored order.
func (g *Graph) Villages() []Village { return cloneVillages(g.villages) }

// Paths returns a deep copy of all paths in authored order.
func (g *Graph) Paths() []Path { return clonePaths(g.paths) }

// PathBetween returns the first path joining a and b in either direction.
func (g *Graph) PathBetween(a, b string) (Path, bool) {
	for _, i := range g.adjacent[a] {
		if g.paths[i].Connects(a, b) {
			return g.paths[i].Clone(), true
		}
	}
	return Path{}, false
}

// PathsFrom returns every path touching id.
func (g *Graph) PathsFrom(id string) []Path {
	idx := g.adjacent[id]
	out := make([]Path, 0, len(idx))
	for _, i := range idx {
		out = append(out, g.paths[i].Clone())
	}
	return out
}

// QuizCount returns how many villages embed a quiz.
func (g *Graph) QuizCount() int {
	var n int
	for _, v := range g.villages {
		if v.HasQuiz() {
			n++
		}
	}
	return n
}

// Len returns the number of villages.
func (g *Graph) Len() int { return len(g.villages) }
