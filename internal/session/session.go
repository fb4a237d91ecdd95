// Package session owns the client's belief about who is logged in.
//
// The [Manager] is the only writer of session state. It moves through four
// states: Unresolved before the first lookup, Resolving while a lookup is in
// flight, then Authenticated or Anonymous. Consumers read state through
// [Manager.Snapshot] and mutate it only through Resolve, Login, Register,
// and Logout.
//
// Resolution races are settled by completion order, not start order. Login
// and logout bump an internal epoch so a resolve that was already in flight
// when the user logged in or out cannot clobber the newer state when it
// lands. Among plain resolves the last one to complete wins.
//
// Session changes made by one shelf process reach the others through a
// [Signal] file; every announcement makes observers re-resolve against the
// backend rather than trust the file's content.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/softcover/shelf/internal/models"
	"github.com/softcover/shelf/internal/shared"
)

// State is the session lifecycle position.
type State int

const (
	StateUnresolved State = iota
	StateResolving
	StateAuthenticated
	StateAnonymous
)

// String returns the state name for logs and debug output.
func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// AuthAPI is the slice of the auth gateway the Manager needs.
// Implemented by [services.AuthService].
type AuthAPI interface {
	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, reg models.Registration) error
	Logout(ctx context.Context) error
}

// Announcer publishes session changes to sibling processes.
// Implemented by [Signal].
type Announcer interface {
	Announce() error
}

// Snapshot is a point-in-time copy of session state for consumers.
type Snapshot struct {
	State   State
	User    *models.User
	Loading bool
	Err     error
}

// Authenticated reports whether the snapshot belongs to a logged-in user.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// Manager owns session state. All methods are safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	auth      AuthAPI
	announcer Announcer
	logger    *log.Logger

	state     State
	user      *models.User
	lastErr   error
	epoch     uint64 // bumped on login/logout to invalidate in-flight resolves
	resolving int
}

// NewManager creates a session manager in the Unresolved state.
// The announcer may be nil when cross-process signaling is not wanted.
func NewManager(auth AuthAPI, announcer Announcer, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		auth:      auth,
		announcer: announcer,
		logger:    logger,
		state:     StateUnresolved,
	}
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		State:   m.state,
		User:    m.user,
		Loading: m.resolving > 0 || m.state == StateResolving,
		Err:     m.lastErr,
	}
}

// Resolve asks the backend who is logged in and applies the answer.
//
// A failed lookup lands in Anonymous without recording a user-facing error;
// an unreachable backend at startup reads as "not logged in", not a crash.
// If a login or logout completed while this lookup was in flight, the stale
// answer is discarded. Among concurrent resolves, the last to complete wins.
func (m *Manager) Resolve(ctx context.Context) Snapshot {
	m.mu.Lock()
	epoch := m.epoch
	m.resolving++
	if m.state == StateUnresolved {
		m.state = StateResolving
	}
	m.mu.Unlock()

	user, err := m.auth.Me(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolving--

	if m.epoch != epoch {
		m.logger.Debug("discarding stale session resolution", "epoch", epoch, "current", m.epoch)
		return m.snapshotLocked()
	}

	if err != nil {
		m.logger.Debug("session resolution failed", "error", err)
		m.state = StateAnonymous
		m.user = nil
		return m.snapshotLocked()
	}

	m.state = StateAuthenticated
	m.user = user
	return m.snapshotLocked()
}

// Login authenticates and confirms the session with a current-user lookup.
//
// On any failure the previous session state is left untouched and the error
// is recorded for the UI. On success the state becomes Authenticated, the
// epoch advances so stale resolves cannot undo it, and sibling processes
// are signaled. The returned token is non-empty only on deployments that
// hand one out alongside the session cookie.
func (m *Manager) Login(ctx context.Context, email, password string) (string, error) {
	token, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return "", m.recordError(fmt.Errorf("%w: %v", shared.ErrLoginFailed, err))
	}

	// The login response shape varies across deployments; the current-user
	// lookup is the one authoritative source of the account.
	user, err := m.auth.Me(ctx)
	if err != nil {
		return "", m.recordError(fmt.Errorf("%w: could not confirm session: %v", shared.ErrLoginFailed, err))
	}

	m.mu.Lock()
	m.epoch++
	m.state = StateAuthenticated
	m.user = user
	m.lastErr = nil
	m.mu.Unlock()

	m.announce()
	m.logger.Info("logged in", "user", user.Username)
	return token, nil
}

// Register creates an account. It never changes session state; the caller
// logs in explicitly afterwards.
func (m *Manager) Register(ctx context.Context, reg models.Registration) error {
	if err := m.auth.Register(ctx, reg); err != nil {
		return m.recordError(fmt.Errorf("%w: %v", shared.ErrRegisterFailed, err))
	}
	return nil
}

// Logout ends the session. The remote call is best-effort: its failure is
// recorded, but local state always reaches Anonymous so the UI never shows
// a logged-in user after an explicit logout.
func (m *Manager) Logout(ctx context.Context) error {
	remoteErr := m.auth.Logout(ctx)

	m.mu.Lock()
	m.epoch++
	m.state = StateAnonymous
	m.user = nil
	if remoteErr != nil {
		m.lastErr = fmt.Errorf("%w: %v", shared.ErrLogoutFailed, remoteErr)
	} else {
		m.lastErr = nil
	}
	err := m.lastErr
	m.mu.Unlock()

	m.announce()
	return err
}

// ClearError drops the recorded error so the UI can dismiss it.
func (m *Manager) ClearError() {
	m.mu.Lock()
	m.lastErr = nil
	m.mu.Unlock()
}

// React re-resolves the session for every tick on the channel, typically
// one produced by [Signal.Watch]. It blocks until the channel closes or
// ctx is cancelled, so callers usually run it in a goroutine.
func (m *Manager) React(ctx context.Context, ticks <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}
			m.Resolve(ctx)
		}
	}
}

func (m *Manager) recordError(err error) error {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
	return err
}

func (m *Manager) announce() {
	if m.announcer == nil {
		return
	}
	if err := m.announcer.Announce(); err != nil {
		m.logger.Warn("failed to announce session change", "error", err)
	}
}
