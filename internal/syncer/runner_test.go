package syncer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskshelf/internal/prefs"
	"github.com/mesh-intelligence/taskshelf/internal/syncstate"
)

type fakeProvider struct {
	calls atomic.Int32
	err   error
}

func (p *fakeProvider) Identifier() string { return "fake" }

func (p *fakeProvider) Synchronize(ctx context.Context) error {
	p.calls.Add(1)
	return p.err
}

func newRunner(p Provider) (*Runner, *syncstate.Tracker) {
	tracker := syncstate.New(p.Identifier(), prefs.NewMemory())
	return NewRunner(p, tracker, zerolog.Nop()), tracker
}

func TestRunner_Success(t *testing.T) {
	p := &fakeProvider{}
	r, tracker := newRunner(p)
	require.NoError(t, tracker.SetLastError("old", ErrTypeIO))

	require.NoError(t, r.Run(context.Background()))

	assert.EqualValues(t, 1, p.calls.Load())
	assert.False(t, tracker.IsOngoing())
	assert.False(t, tracker.LastSyncDate().IsZero())
	assert.True(t, tracker.LastAttemptedSyncDate().IsZero())
	assert.Empty(t, tracker.LastError())
}

func TestRunner_Failure(t *testing.T) {
	p := &fakeProvider{err: &Error{Type: ErrTypeAuth, Err: ErrNotLoggedIn}}
	r, tracker := newRunner(p)

	err := r.Run(context.Background())
	require.ErrorIs(t, err, ErrNotLoggedIn)

	assert.False(t, tracker.IsOngoing())
	assert.True(t, tracker.LastSyncDate().IsZero())
	assert.False(t, tracker.LastAttemptedSyncDate().IsZero())
	assert.Equal(t, "auth: not logged in", tracker.LastError())
	assert.Equal(t, ErrTypeAuth, tracker.LastErrorType())
}

func TestRunner_FailureThenSuccessClearsError(t *testing.T) {
	p := &fakeProvider{err: errors.New("flaky")}
	r, tracker := newRunner(p)

	require.Error(t, r.Run(context.Background()))
	assert.Equal(t, ErrTypeUnknown, tracker.LastErrorType())

	p.err = nil
	require.NoError(t, r.Run(context.Background()))
	assert.Empty(t, tracker.LastError())
	assert.Empty(t, tracker.LastErrorType())
}

func TestRunner_LoopRequiresInterval(t *testing.T) {
	r, _ := newRunner(&fakeProvider{})
	assert.ErrorIs(t, r.Loop(context.Background()), ErrNoInterval)
}

func TestRunner_LoopStopsOnCancel(t *testing.T) {
	p := &fakeProvider{err: errors.New("keeps failing")}
	r, tracker := newRunner(p)
	require.NoError(t, tracker.SetSyncInterval(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Loop(ctx) }()

	require.Eventually(t, func() bool { return p.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Loop did not return after cancel")
	}
	assert.False(t, tracker.IsOngoing())
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, ErrTypeIO, ErrorType(&Error{Type: ErrTypeIO, Err: errors.New("x")}))
	assert.Equal(t, ErrTypeIO, ErrorType(errors.Join(errors.New("a"), &Error{Type: ErrTypeIO, Err: errors.New("b")})))
	assert.Equal(t, ErrTypeCancelled, ErrorType(context.Canceled))
	assert.Equal(t, ErrTypeUnknown, ErrorType(errors.New("x")))
}
