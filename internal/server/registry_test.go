package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwezi/villagequest/internal/game"
	"github.com/kwezi/villagequest/internal/storage"
	"github.com/kwezi/villagequest/internal/village"
)

func TestValidProfile(t *testing.T) {
	for _, ok := range []string{"a", "amina", "said-2", "0123456789abcdef0123456789abcdef"} {
		assert.True(t, ValidProfile(ok), ok)
	}
	for _, bad := range []string{"", "Amina", "a b", "a_b", "../etc", "0123456789abcdef0123456789abcdef0"} {
		assert.False(t, ValidProfile(bad), bad)
	}
}

func TestRegistryGet(t *testing.T) {
	store := storage.NewMemory()
	r := NewRegistry(village.Mayotte(), store, NewBroker(quietLogger()), quietLogger())
	ctx := context.Background()

	_, err := r.Get(ctx, "Not Valid")
	require.ErrorIs(t, err, ErrInvalidProfile)

	e, err := r.Get(ctx, "amina")
	require.NoError(t, err)
	assert.True(t, e.State().IsLoaded)

	again, err := r.Get(ctx, "amina")
	require.NoError(t, err)
	assert.Same(t, e, again)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryLoadsSavedProgress(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	first := NewRegistry(village.Mayotte(), store, NewBroker(quietLogger()), quietLogger())
	e, err := first.Get(ctx, "amina")
	require.NoError(t, err)
	e.CompleteQuiz(ctx, "mamoudzou", true)
	require.True(t, e.TravelTo(ctx, "koungou").Success)

	_, err = store.Get(ctx, ProfileKey("amina"))
	require.NoError(t, err)
	_, err = store.Get(ctx, game.StorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound, "profiles never use the bare key")

	second := NewRegistry(village.Mayotte(), store, NewBroker(quietLogger()), quietLogger())
	reloaded, err := second.Get(ctx, "amina")
	require.NoError(t, err)
	assert.Equal(t, "koungou", reloaded.Progress().CurrentVillage)
}

func TestRegistryConcurrentGet(t *testing.T) {
	r := NewRegistry(village.Mayotte(), storage.NewMemory(), NewBroker(quietLogger()), quietLogger())

	var wg sync.WaitGroup
	engines := make([]*game.Engine, 8)
	for i := range engines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := r.Get(context.Background(), "amina")
			if err == nil {
				engines[i] = e
			}
		}()
	}
	wg.Wait()

	for _, e := range engines {
		assert.Same(t, engines[0], e)
	}
}

func TestRegistryPublishesToBroker(t *testing.T) {
	b := NewBroker(quietLogger())
	r := NewRegistry(village.Mayotte(), storage.NewMemory(), b, quietLogger())
	ch := b.Subscribe("amina")
	defer b.Unsubscribe("amina", ch)

	e, err := r.Get(context.Background(), "amina")
	require.NoError(t, err)
	<-ch // initial load

	e.CompleteQuiz(context.Background(), "mamoudzou", false)
	assert.Len(t, ch, 1)
}

// slowStore blocks loads of one key until released.
type slowStore struct {
	*storage.Memory
	key     string
	entered chan struct{}
	release chan struct{}
}

func (s *slowStore) Get(ctx context.Context, key string) (string, error) {
	if key == s.key {
		close(s.entered)
		<-s.release
	}
	return s.Memory.Get(ctx, key)
}

func TestRegistrySlowLoadDoesNotBlockOtherProfiles(t *testing.T) {
	store := &slowStore{
		Memory:  storage.NewMemory(),
		key:     ProfileKey("slow"),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	r := NewRegistry(village.Mayotte(), store, NewBroker(quietLogger()), quietLogger())
	ctx := context.Background()

	slow := make(chan *game.Engine, 2)
	for range 2 {
		go func() {
			e, err := r.Get(ctx, "slow")
			if err == nil {
				slow <- e
			}
		}()
	}
	<-store.entered

	fast := make(chan error, 1)
	go func() {
		_, err := r.Get(ctx, "fast")
		fast <- err
	}()
	select {
	case err := <-fast:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loading one profile blocked another")
	}

	close(store.release)
	a, b := <-slow, <-slow
	assert.Same(t, a, b, "concurrent loads share one engine")
	assert.Equal(t, 2, r.Len())
}
