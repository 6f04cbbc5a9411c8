package server

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/kwezi/villagequest/internal/game"
	"github.com/kwezi/villagequest/internal/village"
)

// ErrInvalidProfile is returned for a slug that is not a profile name.
var ErrInvalidProfile = errors.New("invalid profile")

var profilePattern = regexp.MustCompile(`^[a-z0-9-]{1,32}$`)

// ValidProfile reports whether slug can name a profile.
func ValidProfile(slug string) bool { return profilePattern.MatchString(slug) }

// ProfileKey is the storage key holding a profile's progress.
func ProfileKey(slug string) string { return game.StorageKey + ":" + slug }

// Registry lazily loads one engine per child profile over a shared store.
// Every engine publishes its snapshots to the broker.
type Registry struct {
	graph  *village.Graph
	store  game.Storage
	broker *Broker
	logger *slog.Logger
	opts   []game.Option

	mu      sync.RWMutex
	engines map[string]*game.Engine
	loading singleflight.Group
}

func NewRegistry(graph *village.Graph, store game.Storage, broker *Broker, logger *slog.Logger, opts ...game.Option) *Registry {
	return &Registry{
		graph:   graph,
		store:   store,
		broker:  broker,
		logger:  logger,
		opts:    opts,
		engines: make(map[string]*game.Engine),
	}
}

// Graph returns the village graph shared by every profile.
func (r *Registry) Graph() *village.Graph { return r.graph }

// Broker returns the broker the engines publish to.
func (r *Registry) Broker() *Broker { return r.broker }

// Get returns the loaded engine for slug, initializing it on first use.
func (r *Registry) Get(ctx context.Context, slug string) (*game.Engine, error) {
	if !ValidProfile(slug) {
		return nil, ErrInvalidProfile
	}

	r.mu.RLock()
	e, ok := r.engines[slug]
	r.mu.RUnlock()
	if ok {
		return e, nil
	}

	// Loads run outside r.mu so a slow store only holds up callers of the
	// same profile.
	v, _, _ := r.loading.Do(slug, func() (any, error) {
		r.mu.RLock()
		e, ok := r.engines[slug]
		r.mu.RUnlock()
		if ok {
			return e, nil
		}

		e = r.open(ctx, slug)
		r.mu.Lock()
		r.engines[slug] = e
		r.mu.Unlock()
		return e, nil
	})
	return v.(*game.Engine), nil
}

func (r *Registry) open(ctx context.Context, slug string) *game.Engine {
	opts := append([]game.Option{
		game.WithKey(ProfileKey(slug)),
		game.WithLogger(r.logger.With("profile", slug)),
	}, r.opts...)

	e := game.New(r.graph, r.store, opts...)
	e.Subscribe(func(s game.State) { r.broker.Publish(slug, s) })

	// A client hanging up must not turn a slow load into default progress.
	e.Initialize(context.WithoutCancel(ctx))
	r.logger.Debug("profile loaded", "profile", slug)
	return e
}

// Len returns the number of loaded profiles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}
