package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Helpers
// ============================================================================

type fakeTransport struct {
	id       string
	closeErr error
	closes   atomic.Int32
	onClose  func()
}

func (f *fakeTransport) SessionID() string { return f.id }

func (f *fakeTransport) HandleRequest(http.ResponseWriter, *http.Request, []byte) error {
	return nil
}

func (f *fakeTransport) Close() error {
	f.closes.Add(1)
	if f.onClose != nil {
		f.onClose()
	}
	return f.closeErr
}

func setLastAccessed(r *Registry, id string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id].LastAccessedAt = at
}

func lastAccessed(r *Registry, id string) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id].LastAccessedAt
}

// ============================================================================
// Creation Tests
// ============================================================================

func TestRegistry_Create(t *testing.T) {
	t.Run("StoresTransportMintedID", func(t *testing.T) {
		reg := NewRegistry(Config{})

		id, err := reg.Create(&fakeTransport{id: "sess-1"}, "token-a")
		require.NoError(t, err)
		assert.Equal(t, "sess-1", id)
		assert.True(t, reg.Has("sess-1"))
		assert.Equal(t, 1, reg.Count())

		s, ok := reg.Get("sess-1")
		require.True(t, ok)
		assert.Equal(t, "token-a", s.Credential)
		assert.False(t, s.CreatedAt.IsZero())
	})

	t.Run("RejectsTransportWithoutID", func(t *testing.T) {
		reg := NewRegistry(Config{})

		_, err := reg.Create(&fakeTransport{id: ""}, "token-a")
		require.Error(t, err)
		assert.Equal(t, 0, reg.Count())
	})

	t.Run("RejectsDuplicateID", func(t *testing.T) {
		reg := NewRegistry(Config{})

		_, err := reg.Create(&fakeTransport{id: "sess-1"}, "token-a")
		require.NoError(t, err)

		_, err = reg.Create(&fakeTransport{id: "sess-1"}, "token-b")
		require.Error(t, err)
		assert.Equal(t, 1, reg.Count())

		// The original binding survives.
		assert.True(t, reg.ValidateCredential("sess-1", "token-a"))
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		reg := NewRegistry(Config{})
		assert.Equal(t, defaultIdleTimeout, reg.idleTimeout)
		assert.Equal(t, defaultSweepInterval, reg.sweepInterval)
	})
}

// ============================================================================
// Lookup Tests
// ============================================================================

func TestRegistry_Lookup(t *testing.T) {
	t.Run("GetRefreshesLastAccessed", func(t *testing.T) {
		reg := NewRegistry(Config{})
		_, err := reg.Create(&fakeTransport{id: "sess-1"}, "token-a")
		require.NoError(t, err)

		s, ok := reg.Get("sess-1")
		require.True(t, ok)
		first := s.LastAccessedAt

		time.Sleep(5 * time.Millisecond)

		s, ok = reg.Get("sess-1")
		require.True(t, ok)
		assert.True(t, s.LastAccessedAt.After(first), "second get must observe a strictly later touch")
	})

	t.Run("HasDoesNotTouch", func(t *testing.T) {
		reg := NewRegistry(Config{})
		_, err := reg.Create(&fakeTransport{id: "sess-1"}, "token-a")
		require.NoError(t, err)

		before := lastAccessed(reg, "sess-1")
		time.Sleep(5 * time.Millisecond)
		assert.True(t, reg.Has("sess-1"))
		assert.Equal(t, before, lastAccessed(reg, "sess-1"))
	})

	t.Run("UnknownIDAbsent", func(t *testing.T) {
		reg := NewRegistry(Config{})

		_, ok := reg.Get("nope")
		assert.False(t, ok)
		assert.False(t, reg.Has("nope"))
	})
}

// ============================================================================
// Credential Binding Tests
// ============================================================================

func TestRegistry_ValidateCredential(t *testing.T) {
	reg := NewRegistry(Config{})
	_, err := reg.Create(&fakeTransport{id: "sess-1"}, "token-a")
	require.NoError(t, err)

	t.Run("MatchingCredentialAccepted", func(t *testing.T) {
		assert.True(t, reg.ValidateCredential("sess-1", "token-a"))
	})

	t.Run("WrongCredentialRejected", func(t *testing.T) {
		assert.False(t, reg.ValidateCredential("sess-1", "token-b"))
	})

	t.Run("UnknownSessionRejected", func(t *testing.T) {
		assert.False(t, reg.ValidateCredential("sess-2", "token-a"))
	})
}

// ============================================================================
// Removal Tests
// ============================================================================

func TestRegistry_Remove(t *testing.T) {
	t.Run("DropsWithoutClosingTransport", func(t *testing.T) {
		reg := NewRegistry(Config{})
		tr := &fakeTransport{id: "sess-1"}
		_, err := reg.Create(tr, "token-a")
		require.NoError(t, err)

		reg.Remove("sess-1")
		assert.False(t, reg.Has("sess-1"))
		assert.Zero(t, tr.closes.Load(), "remove must not close the transport")
	})

	t.Run("UnknownIDIsNoOp", func(t *testing.T) {
		reg := NewRegistry(Config{})
		reg.Remove("never-existed")
		assert.Equal(t, 0, reg.Count())
	})
}

// ============================================================================
// Sweep Tests
// ============================================================================

func TestRegistry_Sweep(t *testing.T) {
	const timeout = time.Minute

	t.Run("EvictsAtExactTimeoutBoundary", func(t *testing.T) {
		reg := NewRegistry(Config{IdleTimeout: timeout})
		tr := &fakeTransport{id: "sess-1"}
		_, err := reg.Create(tr, "token-a")
		require.NoError(t, err)

		base := time.Now()
		setLastAccessed(reg, "sess-1", base)

		removed := reg.Sweep(base.Add(timeout))
		assert.Equal(t, 1, removed)
		assert.False(t, reg.Has("sess-1"))
		assert.Equal(t, int32(1), tr.closes.Load())
	})

	t.Run("KeepsSessionStrictlyBeforeBoundary", func(t *testing.T) {
		reg := NewRegistry(Config{IdleTimeout: timeout})
		tr := &fakeTransport{id: "sess-1"}
		_, err := reg.Create(tr, "token-a")
		require.NoError(t, err)

		base := time.Now()
		setLastAccessed(reg, "sess-1", base)

		removed := reg.Sweep(base.Add(timeout - time.Nanosecond))
		assert.Equal(t, 0, removed)
		assert.True(t, reg.Has("sess-1"))
		assert.Zero(t, tr.closes.Load())
	})

	t.Run("TouchDefersEviction", func(t *testing.T) {
		reg := NewRegistry(Config{IdleTimeout: timeout})
		_, err := reg.Create(&fakeTransport{id: "stale"}, "token-a")
		require.NoError(t, err)
		_, err = reg.Create(&fakeTransport{id: "fresh"}, "token-b")
		require.NoError(t, err)

		aged := time.Now().Add(-2 * timeout)
		setLastAccessed(reg, "stale", aged)
		setLastAccessed(reg, "fresh", aged)

		// An accepted request touches the session before the next sweep.
		_, ok := reg.Get("fresh")
		require.True(t, ok)

		removed := reg.Sweep(time.Now())
		assert.Equal(t, 1, removed)
		assert.False(t, reg.Has("stale"))
		assert.True(t, reg.Has("fresh"))
	})

	t.Run("ReentrantCloseDoesNotDeadlock", func(t *testing.T) {
		reg := NewRegistry(Config{IdleTimeout: timeout})
		tr := &fakeTransport{id: "sess-1"}
		// The real transport's closed callback re-enters the registry.
		tr.onClose = func() { reg.Remove("sess-1") }
		_, err := reg.Create(tr, "token-a")
		require.NoError(t, err)

		setLastAccessed(reg, "sess-1", time.Now().Add(-2*timeout))

		removed := reg.Sweep(time.Now())
		assert.Equal(t, 1, removed)
		assert.Equal(t, 0, reg.Count())
	})
}

func TestRegistry_StartSweeper(t *testing.T) {
	reg := NewRegistry(Config{IdleTimeout: 10 * time.Millisecond, SweepInterval: 10 * time.Millisecond})
	tr := &fakeTransport{id: "sess-1"}
	_, err := reg.Create(tr, "token-a")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg.StartSweeper(ctx)

	require.Eventually(t, func() bool { return reg.Count() == 0 }, 3*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), tr.closes.Load())
}

// ============================================================================
// Shutdown Tests
// ============================================================================

func TestRegistry_CloseAll(t *testing.T) {
	t.Run("ClosesEveryTransportDespiteFailures", func(t *testing.T) {
		reg := NewRegistry(Config{})

		transports := []*fakeTransport{
			{id: "sess-1", closeErr: errors.New("close failed")},
			{id: "sess-2"},
			{id: "sess-3", closeErr: errors.New("close failed")},
			{id: "sess-4", closeErr: errors.New("close failed")},
		}
		for _, tr := range transports {
			_, err := reg.Create(tr, "token")
			require.NoError(t, err)
		}

		err := reg.CloseAll()
		require.Error(t, err)
		assert.Equal(t, 3, strings.Count(err.Error(), "closing session"))

		assert.Equal(t, 0, reg.Count())
		for _, tr := range transports {
			assert.Equal(t, int32(1), tr.closes.Load(), "every close must be attempted")
		}
	})

	t.Run("EmptyRegistryNoError", func(t *testing.T) {
		reg := NewRegistry(Config{})
		assert.NoError(t, reg.CloseAll())
	})
}
