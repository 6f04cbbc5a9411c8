// Package game implements the village-discovery progression engine: it
// tracks which villages a player has unlocked and visited, evaluates unlock
// rules, awards score and badges, and persists the result as a JSON blob.
package game

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/kwezi/villagequest/internal/geo"
	"github.com/kwezi/villagequest/internal/storage"
	"github.com/kwezi/villagequest/internal/village"
)

// StorageKey is the key the progress blob is stored under.
const StorageKey = "mayotte_village_game_progress"

// Storage is the persistence capability the engine needs.
// Get returns storage.ErrNotFound for a missing key.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Travel failure reasons.
const (
	ReasonNotLoaded      = "not loaded"
	ReasonUnknownVillage = "unknown village"
	ReasonLocked         = "village locked"
	ReasonNoPath         = "no path from current village"
	ReasonNoQuiz         = "village has no quiz"
)

// TravelResult reports the outcome of TravelTo. Path is oriented from the
// previous village to the target. Progress is the state the travel left
// behind and is only set on success.
type TravelResult struct {
	Success  bool             `json:"success"`
	Path     []geo.Coordinate `json:"path,omitempty"`
	Distance float64          `json:"distance"`
	Reason   string           `json:"reason,omitempty"`
	Unlocked []string         `json:"unlocked,omitempty"`
	Progress Progress         `json:"progress"`
}

// QuizResult reports the outcome of CompleteQuiz. Recorded is false when
// the quiz had already been completed and nothing was re-awarded.
type QuizResult struct {
	Recorded bool     `json:"recorded"`
	Awarded  int      `json:"awarded"`
	Unlocked []string `json:"unlocked,omitempty"`
	Badges   []string `json:"badges,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	Progress Progress `json:"progress"`
}

// VillageView joins a village with the player's state.
type VillageView struct {
	village.Village
	Unlocked      bool `json:"unlocked"`
	Visited       bool `json:"visited"`
	QuizCompleted bool `json:"quizCompleted"`
}

// State is an immutable snapshot handed to the UI.
type State struct {
	Villages []VillageView `json:"villages"`
	Paths    []village.Path `json:"paths"`
	Progress Progress      `json:"progress"`
	IsLoaded bool          `json:"isLoaded"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Progress = s.Progress.Clone()
	out.Villages = make([]VillageView, len(s.Villages))
	for i, v := range s.Villages {
		v.Village = v.Village.Clone()
		out.Villages[i] = v
	}
	out.Paths = make([]village.Path, len(s.Paths))
	for i, p := range s.Paths {
		out.Paths[i] = p.Clone()
	}
	return out
}

// Stats is a derived read-only summary.
type Stats struct {
	VillagesVisited int     `json:"villagesVisited"`
	TotalVillages   int     `json:"totalVillages"`
	QuizCompleted   int     `json:"quizCompleted"`
	TotalQuiz       int     `json:"totalQuiz"`
	Badges          int     `json:"badges"`
	TotalBadges     int     `json:"totalBadges"`
	Score           int     `json:"score"`
	TotalDistance   float64 `json:"totalDistance"`
}

// Destination is a village joined to the current one by a path.
type Destination struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Unlocked  bool              `json:"unlocked"`
	Visited   bool              `json:"visited"`
	Distance  float64           `json:"distance"`
	Transport village.Transport `json:"transport"`
}

// Listener receives a snapshot after every mutation.
type Listener func(State)

// Engine owns one player's progress over one village graph.
//
// Operations are serialized; listeners run after the operation has
// released the engine, so they may call back into it. Listeners see
// snapshots in the order the operations happened. When operations overlap,
// intermediate snapshots may be skipped but the last one delivered is
// always the newest.
type Engine struct {
	graph  *village.Graph
	badges []village.Badge
	store  Storage
	key    string
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	progress Progress
	loaded   bool
	version  uint64

	subMu   sync.Mutex
	subs    map[int]Listener
	nextSub int

	// Delivery mailbox, guarded by outMu. Whoever finds it idle drains it.
	outMu      sync.Mutex
	pending    *State
	pendingVer uint64
	delivering bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithKey overrides StorageKey.
func WithKey(key string) Option { return func(e *Engine) { e.key = key } }

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithClock sets the time source for lastPlayTime.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithBadges replaces the badge catalog.
func WithBadges(b []village.Badge) Option { return func(e *Engine) { e.badges = b } }

// New returns an engine holding default progress. Call Initialize to load
// the persisted state.
func New(g *village.Graph, store Storage, opts ...Option) *Engine {
	e := &Engine{
		graph:  g,
		badges: village.Badges(),
		store:  store,
		key:    StorageKey,
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
		subs:   make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.progress = DefaultProgress(g, e.now())
	return e
}

// Graph returns the static village graph.
func (e *Engine) Graph() *village.Graph { return e.graph }

// BadgeCatalog returns the badge catalog.
func (e *Engine) BadgeCatalog() []village.Badge {
	return append([]village.Badge(nil), e.badges...)
}

// Initialize loads persisted progress, or defaults when there is none or it
// cannot be read, and reconciles unlocks against the graph.
func (e *Engine) Initialize(ctx context.Context) {
	e.mu.Lock()
	p := e.load(ctx)
	if len(Reconcile(&p, e.graph)) > 0 {
		e.save(ctx, p)
	}
	e.progress = p
	e.loaded = true
	state, ver := e.changed()
	e.mu.Unlock()

	e.notify(state, ver)
}

func (e *Engine) load(ctx context.Context) Progress {
	def := DefaultProgress(e.graph, e.now())

	data, err := e.store.Get(ctx, e.key)
	if errors.Is(err, storage.ErrNotFound) {
		return def
	}
	if err != nil {
		e.logger.Error("loading progress failed", "key", e.key, "error", err)
		return def
	}

	p, err := Decode(data, e.graph)
	if err != nil {
		e.logger.Warn("discarding malformed progress", "key", e.key, "error", err)
		return def
	}
	return p
}

func (e *Engine) save(ctx context.Context, p Progress) {
	data, err := Encode(p)
	if err == nil {
		err = e.store.Set(ctx, e.key, data)
	}
	if err != nil {
		e.logger.Error("saving progress failed", "key", e.key, "error", err)
	}
}

// TravelTo moves the player to the village id. The target must exist and
// be unlocked, and unless it is the current village a path must join the
// two. A failed travel changes nothing and writes nothing.
func (e *Engine) TravelTo(ctx context.Context, id string) TravelResult {
	e.mu.Lock()

	if !e.loaded {
		e.mu.Unlock()
		return TravelResult{Reason: ReasonNotLoaded}
	}
	target, ok := e.graph.Village(id)
	if !ok {
		e.mu.Unlock()
		return TravelResult{Reason: ReasonUnknownVillage}
	}
	if !e.progress.IsUnlocked(id) {
		e.mu.Unlock()
		return TravelResult{Reason: ReasonLocked}
	}

	res := TravelResult{Success: true, Path: []geo.Coordinate{target.Coordinates}}
	if id != e.progress.CurrentVillage {
		path, ok := e.graph.PathBetween(e.progress.CurrentVillage, id)
		if !ok {
			e.mu.Unlock()
			return TravelResult{Reason: ReasonNoPath}
		}
		res.Path = path.Oriented(e.progress.CurrentVillage)
		res.Distance = path.Distance
	}

	p := e.progress.Clone()
	p.CurrentVillage = id
	p.CurrentPosition = target.Coordinates
	if !p.HasVisited(id) {
		p.VisitedVillages = append(p.VisitedVillages, id)
		p.Score += VisitBonus
	}
	p.LastPlayTime = e.now()
	res.Unlocked = Reconcile(&p, e.graph)

	e.save(ctx, p)
	e.progress = p
	res.Progress = p.Clone()
	state, ver := e.changed()
	e.mu.Unlock()

	e.notify(state, ver)
	return res
}

// CompleteQuiz scores the quiz of villageID. Only the first completion of a
// village's quiz is rewarded; later calls still re-run the unlock rules and
// the badge catalog.
func (e *Engine) CompleteQuiz(ctx context.Context, villageID string, success bool) QuizResult {
	e.mu.Lock()

	if !e.loaded {
		e.mu.Unlock()
		return QuizResult{Reason: ReasonNotLoaded}
	}
	v, ok := e.graph.Village(villageID)
	if !ok {
		e.mu.Unlock()
		return QuizResult{Reason: ReasonUnknownVillage}
	}
	if !v.HasQuiz() {
		e.mu.Unlock()
		return QuizResult{Reason: ReasonNoQuiz}
	}

	p := e.progress.Clone()
	before := p.Score
	var res QuizResult
	if !p.HasCompleted(villageID) {
		p.CompletedQuiz = append(p.CompletedQuiz, villageID)
		if success {
			p.Score += QuizSuccessBonus
		} else {
			p.Score += QuizAttemptBonus
		}
		res.Recorded = true
	}
	res.Unlocked = Reconcile(&p, e.graph)
	res.Badges = AwardBadges(&p, e.badges, e.graph)
	res.Awarded = p.Score - before

	e.save(ctx, p)
	e.progress = p
	res.Progress = p.Clone()
	state, ver := e.changed()
	e.mu.Unlock()

	e.notify(state, ver)
	return res
}

// Reset clears the persisted blob, restores defaults and returns the
// resulting state.
func (e *Engine) Reset(ctx context.Context) State {
	e.mu.Lock()

	p := DefaultProgress(e.graph, e.now())
	if err := e.store.Remove(ctx, e.key); err != nil {
		// Overwrite instead so the old progress does not come back on the
		// next Initialize.
		e.logger.Error("removing progress failed", "key", e.key, "error", err)
		e.save(ctx, p)
	}
	if len(Reconcile(&p, e.graph)) > 0 {
		e.save(ctx, p)
	}
	e.progress = p
	e.loaded = true
	state, ver := e.changed()
	e.mu.Unlock()

	e.notify(state, ver)
	return state.Clone()
}

// Progress returns a copy of the current progress.
func (e *Engine) Progress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress.Clone()
}

// State returns the annotated graph and progress.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// changed records a mutation and returns its snapshot. e.mu must be held.
func (e *Engine) changed() (State, uint64) {
	e.version++
	return e.snapshot(), e.version
}

func (e *Engine) snapshot() State {
	p := e.progress.Clone()
	villages := e.graph.Villages()
	views := make([]VillageView, len(villages))
	for i, v := range villages {
		views[i] = VillageView{
			Village:       v,
			Unlocked:      p.IsUnlocked(v.ID),
			Visited:       p.HasVisited(v.ID),
			QuizCompleted: p.HasCompleted(v.ID),
		}
	}
	return State{
		Villages: views,
		Paths:    e.graph.Paths(),
		Progress: p,
		IsLoaded: e.loaded,
	}
}

// Stats summarizes progress. TotalDistance sums the great-circle distance
// between consecutive villages in first-visit order, so revisits and
// backtracking are not counted.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.progress
	var total float64
	for i := 1; i < len(p.VisitedVillages); i++ {
		a, okA := e.graph.Village(p.VisitedVillages[i-1])
		b, okB := e.graph.Village(p.VisitedVillages[i])
		if okA && okB {
			total += geo.Distance(a.Coordinates, b.Coordinates)
		}
	}

	return Stats{
		VillagesVisited: len(p.VisitedVillages),
		TotalVillages:   e.graph.Len(),
		QuizCompleted:   len(p.CompletedQuiz),
		TotalQuiz:       e.graph.QuizCount(),
		Badges:          len(p.Badges),
		TotalBadges:     len(e.badges),
		Score:           p.Score,
		TotalDistance:   math.Round(total*100) / 100,
	}
}

// Destinations lists the villages joined to the current village by a path.
func (e *Engine) Destinations() []Destination {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.progress.CurrentVillage
	paths := e.graph.PathsFrom(current)
	out := make([]Destination, 0, len(paths))
	for _, path := range paths {
		id := path.Other(current)
		v, _ := e.graph.Village(id)
		out = append(out, Destination{
			ID:        id,
			Name:      v.Meta.Name,
			Unlocked:  e.progress.IsUnlocked(id),
			Visited:   e.progress.HasVisited(id),
			Distance:  path.Distance,
			Transport: path.Transport,
		})
	}
	return out
}

// Interpolate returns the position at fraction t along path, falling back
// to the graph's center for an empty path.
func (e *Engine) Interpolate(path []geo.Coordinate, t float64) geo.Coordinate {
	return geo.InterpolateOr(path, t, e.graph.Center())
}

// Subscribe registers fn for state snapshots. The returned function
// removes it and is safe to call more than once.
func (e *Engine) Subscribe(fn Listener) func() {
	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.subMu.Unlock()

	return func() {
		e.subMu.Lock()
		delete(e.subs, id)
		e.subMu.Unlock()
	}
}

// notify posts state to the mailbox and, unless another goroutine is
// already delivering, drains it. Snapshots older than the one pending are
// dropped.
func (e *Engine) notify(state State, ver uint64) {
	e.outMu.Lock()
	if ver > e.pendingVer {
		e.pending, e.pendingVer = &state, ver
	}
	if e.delivering {
		e.outMu.Unlock()
		return
	}
	e.delivering = true
	for e.pending != nil {
		next := *e.pending
		e.pending = nil
		e.outMu.Unlock()
		e.deliver(next)
		e.outMu.Lock()
	}
	e.delivering = false
	e.outMu.Unlock()
}

func (e *Engine) deliver(state State) {
	e.subMu.Lock()
	listeners := make([]Listener, 0, len(e.subs))
	for _, fn := range e.subs {
		listeners = append(listeners, fn)
	}
	e.subMu.Unlock()

	for _, fn := range listeners {
		fn(state.Clone())
	}
}
