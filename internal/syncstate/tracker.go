// Package syncstate records the state of a sync plugin in a preferences
// store: its login token, the last successful and attempted sync times, the
// last error, and whether a sync is in progress. Every key is prefixed with
// the plugin identifier so several plugins can share one store.
package syncstate

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/taskshelf/pkg/types"
)

// Key suffixes appended to the plugin identifier.
const (
	keyToken         = "_token"
	keyLastSync      = "_last_sync"
	keyLastAttempted = "_last_attempted"
	keyLastError     = "_last_err"
	keyLastErrorType = "_last_err_type"
	keyOngoing       = "_ongoing"
	keyInterval      = "_interval"
)

// successSkew is added to the recorded success time so changes written by the
// sync itself are not picked up as local edits on the next run.
const successSkew = time.Second

// Tracker reads and writes sync state for one plugin.
type Tracker struct {
	identifier string
	prefs      types.Preferences
	log        zerolog.Logger
	now        func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used by ReportLastError.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New returns a Tracker for the plugin named identifier.
func New(identifier string, prefs types.Preferences, opts ...Option) *Tracker {
	t := &Tracker{
		identifier: identifier,
		prefs:      prefs,
		log:        zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Identifier returns the plugin identifier.
func (t *Tracker) Identifier() string {
	return t.identifier
}

func (t *Tracker) key(suffix string) string {
	return t.identifier + suffix
}

// IsLoggedIn reports whether a token is stored.
func (t *Tracker) IsLoggedIn() bool {
	_, ok := t.Token()
	return ok
}

// Token returns the authentication token; ok is false when none is stored.
func (t *Tracker) Token() (token string, ok bool) {
	return t.prefs.GetString(t.key(keyToken))
}

// SetToken stores the authentication token.
func (t *Tracker) SetToken(token string) error {
	return t.commit("set token", t.prefs.Edit().PutString(t.key(keyToken), token))
}

// ClearToken removes the authentication token.
func (t *Tracker) ClearToken() error {
	return t.commit("clear token", t.prefs.Edit().Remove(t.key(keyToken)))
}

// LastSyncDate returns the time of the last successful sync, or the zero
// time if there was none.
func (t *Tracker) LastSyncDate() time.Time {
	return t.timeAt(keyLastSync)
}

// LastAttemptedSyncDate returns the start of the last sync attempt, or the
// zero time if the last attempt succeeded.
func (t *Tracker) LastAttemptedSyncDate() time.Time {
	return t.timeAt(keyLastAttempted)
}

// LastError returns the last recorded error message, or "".
func (t *Tracker) LastError() string {
	msg, _ := t.prefs.GetString(t.key(keyLastError))
	return msg
}

// LastErrorType returns the last recorded error type, or "".
func (t *Tracker) LastErrorType() string {
	typ, _ := t.prefs.GetString(t.key(keyLastErrorType))
	return typ
}

// IsOngoing reports whether a sync has started and not yet stopped.
func (t *Tracker) IsOngoing() bool {
	ongoing, _ := t.prefs.GetBool(t.key(keyOngoing))
	return ongoing
}

// ClearLastSyncDate forgets the last successful sync, forcing a full sync.
func (t *Tracker) ClearLastSyncDate() error {
	return t.commit("clear last sync", t.prefs.Edit().Remove(t.key(keyLastSync)))
}

// SetLastError records an error message and its type.
func (t *Tracker) SetLastError(msg, errType string) error {
	return t.commit("set last error", t.prefs.Edit().
		PutString(t.key(keyLastError), msg).
		PutString(t.key(keyLastErrorType), errType))
}

// StopOngoing clears the in-progress flag.
func (t *Tracker) StopOngoing() error {
	return t.commit("stop ongoing", t.prefs.Edit().PutBool(t.key(keyOngoing), false))
}

// RecordSuccessfulSync stores the success time and clears the attempt time.
func (t *Tracker) RecordSuccessfulSync() error {
	return t.commit("record success", t.prefs.Edit().
		PutInt64(t.key(keyLastSync), t.now().Add(successSkew).UnixMilli()).
		PutInt64(t.key(keyLastAttempted), 0))
}

// RecordSyncStart stores the attempt time, clears the last error and sets the
// in-progress flag.
func (t *Tracker) RecordSyncStart() error {
	return t.commit("record start", t.prefs.Edit().
		PutInt64(t.key(keyLastAttempted), t.now().UnixMilli()).
		Remove(t.key(keyLastError)).
		Remove(t.key(keyLastErrorType)).
		PutBool(t.key(keyOngoing), true))
}

// ReportLastError logs the last error, if any, at warn level.
func (t *Tracker) ReportLastError() {
	msg := t.LastError()
	if msg == "" {
		return
	}
	t.log.Warn().
		Str("provider", t.identifier).
		Str("type", t.LastErrorType()).
		Msg(msg)
}

// SyncInterval returns the automatic sync interval; 0 disables it.
func (t *Tracker) SyncInterval() time.Duration {
	secs, _ := t.prefs.GetInt64(t.key(keyInterval))
	return time.Duration(secs) * time.Second
}

// SetSyncInterval stores the automatic sync interval, truncated to seconds.
func (t *Tracker) SetSyncInterval(d time.Duration) error {
	return t.commit("set interval", t.prefs.Edit().PutInt64(t.key(keyInterval), int64(d/time.Second)))
}

func (t *Tracker) timeAt(suffix string) time.Time {
	ms, ok := t.prefs.GetInt64(t.key(suffix))
	if !ok || ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func (t *Tracker) commit(op string, ed types.Editor) error {
	if err := ed.Commit(); err != nil {
		return fmt.Errorf("%s %s: %w", t.identifier, op, err)
	}
	return nil
}
