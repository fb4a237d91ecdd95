package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/softcover/shelf/internal/models"
	"github.com/softcover/shelf/internal/shared"
)

// fakeAuth scripts AuthAPI behavior per test.
type fakeAuth struct {
	me       func(context.Context) (*models.User, error)
	login    func(context.Context, string, string) (string, error)
	register func(context.Context, models.Registration) error
	logout   func(context.Context) error
}

func (f *fakeAuth) Me(ctx context.Context) (*models.User, error) {
	if f.me == nil {
		return nil, shared.ErrUnauthorized
	}
	return f.me(ctx)
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (string, error) {
	if f.login == nil {
		return "", shared.ErrUnauthorized
	}
	return f.login(ctx, email, password)
}

func (f *fakeAuth) Register(ctx context.Context, reg models.Registration) error {
	if f.register == nil {
		return nil
	}
	return f.register(ctx, reg)
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	if f.logout == nil {
		return nil
	}
	return f.logout(ctx)
}

// countingAnnouncer records how many times the session change signal fired.
type countingAnnouncer struct {
	mu    sync.Mutex
	count int
	err   error
}

func (a *countingAnnouncer) Announce() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.count++
	return a.err
}

func (a *countingAnnouncer) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

var reader = &models.User{ID: 3, Username: "reader", Email: "reader@example.com"}

func TestManagerResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("Starts Unresolved", func(t *testing.T) {
		m := NewManager(&fakeAuth{}, nil, nil)
		if snap := m.Snapshot(); snap.State != StateUnresolved {
			t.Errorf("expected unresolved, got %v", snap.State)
		}
	})

	t.Run("Authenticated On Success", func(t *testing.T) {
		auth := &fakeAuth{me: func(context.Context) (*models.User, error) { return reader, nil }}
		m := NewManager(auth, nil, nil)

		snap := m.Resolve(ctx)
		if snap.State != StateAuthenticated {
			t.Errorf("expected authenticated, got %v", snap.State)
		}
		if snap.User == nil || snap.User.Username != "reader" {
			t.Errorf("unexpected user: %+v", snap.User)
		}
	})

	t.Run("Anonymous On 401", func(t *testing.T) {
		m := NewManager(&fakeAuth{}, nil, nil)

		snap := m.Resolve(ctx)
		if snap.State != StateAnonymous {
			t.Errorf("expected anonymous, got %v", snap.State)
		}
		if snap.Err != nil {
			t.Errorf("expected no recorded error, got %v", snap.Err)
		}
	})

	t.Run("Anonymous On Network Failure Without Error", func(t *testing.T) {
		auth := &fakeAuth{me: func(context.Context) (*models.User, error) {
			return nil, shared.ErrNetwork
		}}
		m := NewManager(auth, nil, nil)

		snap := m.Resolve(ctx)
		if snap.State != StateAnonymous {
			t.Errorf("expected anonymous, got %v", snap.State)
		}
		if snap.Err != nil {
			t.Errorf("expected silent failure, got %v", snap.Err)
		}
	})

	t.Run("Last Completed Resolve Wins", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		var calls int
		var mu sync.Mutex

		auth := &fakeAuth{me: func(context.Context) (*models.User, error) {
			mu.Lock()
			calls++
			first := calls == 1
			mu.Unlock()

			if first {
				close(started)
				<-release
				return reader, nil
			}
			return nil, shared.ErrUnauthorized
		}}
		m := NewManager(auth, nil, nil)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Resolve(ctx)
		}()

		<-started
		// The second resolve starts later but completes first.
		if snap := m.Resolve(ctx); snap.State != StateAnonymous {
			t.Errorf("expected anonymous from second resolve, got %v", snap.State)
		}

		close(release)
		wg.Wait()

		// The first resolve completed last, so its answer is authoritative.
		if snap := m.Snapshot(); snap.State != StateAuthenticated {
			t.Errorf("expected last completion to win, got %v", snap.State)
		}
	})

	t.Run("Stale Resolve Cannot Clobber Login", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		var calls int
		var mu sync.Mutex

		auth := &fakeAuth{
			me: func(context.Context) (*models.User, error) {
				mu.Lock()
				calls++
				first := calls == 1
				mu.Unlock()

				if first {
					close(started)
					<-release
					return nil, shared.ErrUnauthorized
				}
				return reader, nil
			},
			login: func(context.Context, string, string) (string, error) { return "", nil },
		}
		m := NewManager(auth, nil, nil)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Resolve(ctx)
		}()

		<-started
		if _, err := m.Login(ctx, "reader@example.com", "hunter2"); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		close(release)
		wg.Wait()

		if snap := m.Snapshot(); snap.State != StateAuthenticated {
			t.Errorf("stale resolve overwrote login, state = %v", snap.State)
		}
	})
}

func TestManagerLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Confirms Session Via Lookup", func(t *testing.T) {
		auth := &fakeAuth{
			login: func(_ context.Context, email, password string) (string, error) {
				if email != "reader@example.com" || password != "hunter2" {
					t.Errorf("unexpected credentials: %s", email)
				}
				return "session-token", nil
			},
			me: func(context.Context) (*models.User, error) { return reader, nil },
		}
		announcer := &countingAnnouncer{}
		m := NewManager(auth, announcer, nil)

		token, err := m.Login(ctx, "reader@example.com", "hunter2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "session-token" {
			t.Errorf("expected token, got %q", token)
		}
		if snap := m.Snapshot(); !snap.Authenticated() {
			t.Errorf("expected authenticated session, got %v", snap.State)
		}
		if announcer.Count() != 1 {
			t.Errorf("expected one announcement, got %d", announcer.Count())
		}
	})

	t.Run("Failure Leaves Prior State", func(t *testing.T) {
		auth := &fakeAuth{me: func(context.Context) (*models.User, error) { return reader, nil }}
		m := NewManager(auth, nil, nil)
		m.Resolve(ctx)

		auth.login = func(context.Context, string, string) (string, error) {
			return "", shared.ErrUnauthorized
		}
		_, err := m.Login(ctx, "reader@example.com", "wrong")
		if !errors.Is(err, shared.ErrLoginFailed) {
			t.Errorf("expected ErrLoginFailed, got %v", err)
		}

		snap := m.Snapshot()
		if snap.State != StateAuthenticated || snap.User != reader {
			t.Errorf("expected prior session preserved, got %v", snap.State)
		}
		if !errors.Is(snap.Err, shared.ErrLoginFailed) {
			t.Errorf("expected recorded error, got %v", snap.Err)
		}
	})

	t.Run("Unconfirmed Login Is A Failure", func(t *testing.T) {
		auth := &fakeAuth{
			login: func(context.Context, string, string) (string, error) { return "", nil },
			me:    func(context.Context) (*models.User, error) { return nil, shared.ErrNetwork },
		}
		m := NewManager(auth, nil, nil)

		if _, err := m.Login(ctx, "reader@example.com", "hunter2"); !errors.Is(err, shared.ErrLoginFailed) {
			t.Errorf("expected ErrLoginFailed, got %v", err)
		}
		if snap := m.Snapshot(); snap.State != StateUnresolved {
			t.Errorf("expected state untouched, got %v", snap.State)
		}
	})
}

func TestManagerRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Does Not Log In", func(t *testing.T) {
		announcer := &countingAnnouncer{}
		m := NewManager(&fakeAuth{}, announcer, nil)

		reg := models.Registration{Username: "newreader", Email: "new@example.com", Password: "hunter2"}
		if err := m.Register(ctx, reg); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if snap := m.Snapshot(); snap.State != StateUnresolved {
			t.Errorf("expected registration to leave state alone, got %v", snap.State)
		}
		if announcer.Count() != 0 {
			t.Errorf("expected no announcement, got %d", announcer.Count())
		}
	})

	t.Run("Failure Is Recorded", func(t *testing.T) {
		auth := &fakeAuth{register: func(context.Context, models.Registration) error {
			return shared.NewStatusError(409, "username taken")
		}}
		m := NewManager(auth, nil, nil)

		err := m.Register(ctx, models.Registration{Username: "reader"})
		if !errors.Is(err, shared.ErrRegisterFailed) {
			t.Errorf("expected ErrRegisterFailed, got %v", err)
		}
	})
}

func TestManagerLogout(t *testing.T) {
	ctx := context.Background()

	loggedIn := func(t *testing.T, auth *fakeAuth, announcer Announcer) *Manager {
		t.Helper()
		auth.me = func(context.Context) (*models.User, error) { return reader, nil }
		auth.login = func(context.Context, string, string) (string, error) { return "", nil }
		m := NewManager(auth, announcer, nil)
		if _, err := m.Login(ctx, "reader@example.com", "hunter2"); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		return m
	}

	t.Run("Clears Session And Announces", func(t *testing.T) {
		announcer := &countingAnnouncer{}
		m := loggedIn(t, &fakeAuth{}, announcer)

		if err := m.Logout(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		snap := m.Snapshot()
		if snap.State != StateAnonymous || snap.User != nil {
			t.Errorf("expected anonymous session, got %v", snap.State)
		}
		if announcer.Count() != 2 { // login + logout
			t.Errorf("expected two announcements, got %d", announcer.Count())
		}
	})

	t.Run("Remote Failure Still Reaches Anonymous", func(t *testing.T) {
		auth := &fakeAuth{logout: func(context.Context) error { return shared.ErrNetwork }}
		m := loggedIn(t, auth, nil)

		err := m.Logout(ctx)
		if !errors.Is(err, shared.ErrLogoutFailed) {
			t.Errorf("expected ErrLogoutFailed, got %v", err)
		}

		snap := m.Snapshot()
		if snap.State != StateAnonymous {
			t.Errorf("expected anonymous despite remote failure, got %v", snap.State)
		}
		if !errors.Is(snap.Err, shared.ErrLogoutFailed) {
			t.Errorf("expected recorded error, got %v", snap.Err)
		}

		m.ClearError()
		if snap := m.Snapshot(); snap.Err != nil {
			t.Errorf("expected error cleared, got %v", snap.Err)
		}
	})
}

func TestManagerReact(t *testing.T) {
	t.Run("Resolves On Each Tick", func(t *testing.T) {
		var calls int
		var mu sync.Mutex
		auth := &fakeAuth{me: func(context.Context) (*models.User, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			return reader, nil
		}}
		m := NewManager(auth, nil, nil)

		ticks := make(chan struct{}, 2)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan struct{})
		go func() {
			m.React(ctx, ticks)
			close(done)
		}()

		ticks <- struct{}{}
		ticks <- struct{}{}
		close(ticks)
		<-done

		mu.Lock()
		got := calls
		mu.Unlock()
		if got != 2 {
			t.Errorf("expected 2 resolutions, got %d", got)
		}
		if snap := m.Snapshot(); snap.State != StateAuthenticated {
			t.Errorf("expected authenticated after ticks, got %v", snap.State)
		}
	})

	t.Run("Stops On Cancel", func(t *testing.T) {
		m := NewManager(&fakeAuth{}, nil, nil)
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})
		go func() {
			m.React(ctx, make(chan struct{}))
			close(done)
		}()

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("React did not stop on cancel")
		}
	})
}
