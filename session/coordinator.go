// Package session serializes authentication-state transitions. A
// Coordinator owns the persisted blob and two derived in-memory states; it
// is the only component allowed to mutate either.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/constrogen/procure"
	"github.com/constrogen/procure/storage"
)

// ErrNoSession indicates a verify-only event arrived with no persisted blob.
var ErrNoSession = errors.New("no persisted session to verify")

// VerifyEvent carries an OTP verification payload or a forced refresh
// trigger into the verification watcher.
type VerifyEvent struct {
	// Payload is merged into a new blob when none is persisted yet.
	Payload procure.AuthInfo
	// VerifyOnly re-checks an existing session without creating one.
	VerifyOnly bool
}

// Coordinator runs two watcher loops, one per event stream. Within each
// stream events are handled one at a time in arrival order and a new event
// cancels the still-running task of its predecessor, so at most one verify
// task and at most one logout task are live at any moment. No ordering holds
// across the two streams; the last completion wins.
type Coordinator struct {
	store    storage.Store
	logger   procure.Logger
	listener func()

	verifyCh chan VerifyEvent
	logoutCh chan struct{}

	mux  sync.Mutex
	auth AuthState
	user procure.User

	wg      sync.WaitGroup
	started bool
}

// New creates a coordinator over the given store. Call Start before
// dispatching events.
func New(store storage.Store, options ...Option) *Coordinator {
	c := &Coordinator{
		store:    store,
		logger:   procure.DefaultLogger,
		verifyCh: make(chan VerifyEvent, 16),
		logoutCh: make(chan struct{}, 16),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Start launches the two watcher goroutines. They run until ctx is
// cancelled; Wait blocks until both have returned.
func (c *Coordinator) Start(ctx context.Context) {
	c.mux.Lock()
	if c.started {
		c.mux.Unlock()
		return
	}
	c.started = true
	c.mux.Unlock()
	c.wg.Add(2)
	go c.watchVerify(ctx)
	go c.watchLogout(ctx)
}

// Wait blocks until both watchers have stopped.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Verify dispatches a verify/refresh event. The auth state enters its
// loading shape immediately; the outcome is committed by the watcher.
func (c *Coordinator) Verify(event VerifyEvent) {
	c.mux.Lock()
	c.auth.Loading = true
	c.auth.Error = ""
	c.mux.Unlock()
	c.verifyCh <- event
}

// Logout dispatches a logout event. The auth state resets to its initial
// shape immediately, marked loading until the watcher clears storage.
func (c *Coordinator) Logout() {
	c.mux.Lock()
	c.auth = AuthState{Loading: true}
	c.mux.Unlock()
	c.logoutCh <- struct{}{}
}

// AuthState returns a snapshot of the derived authorization state.
func (c *Coordinator) AuthState() AuthState {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.auth.clone()
}

// UserState returns a snapshot of the user profile state.
func (c *Coordinator) UserState() procure.User {
	c.mux.Lock()
	defer c.mux.Unlock()
	return cloneUser(c.user)
}

func (c *Coordinator) watchVerify(ctx context.Context) {
	defer c.wg.Done()
	var cancel context.CancelFunc
	defer func() {
		if cancel != nil {
			cancel()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-c.verifyCh:
			if cancel != nil {
				cancel() // last event wins
			}
			var taskCtx context.Context
			taskCtx, cancel = context.WithCancel(ctx)
			go c.runVerify(taskCtx, event)
		}
	}
}

func (c *Coordinator) watchLogout(ctx context.Context) {
	defer c.wg.Done()
	var cancel context.CancelFunc
	defer func() {
		if cancel != nil {
			cancel()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.logoutCh:
			if cancel != nil {
				cancel()
			}
			var taskCtx context.Context
			taskCtx, cancel = context.WithCancel(ctx)
			go c.runLogout(taskCtx)
		}
	}
}

// runVerify loads or creates the persisted blob, then splits it into the
// two derived states. Failures land in the auth error shape; persisted
// storage is never altered on failure.
func (c *Coordinator) runVerify(ctx context.Context, event VerifyEvent) {
	info := &procure.AuthInfo{}
	if found := c.store.Get(ctx, procure.AuthInfoKey, info); !found {
		if event.VerifyOnly {
			c.fail(ctx, ErrNoSession)
			return
		}
		merged := event.Payload
		merged.IsAuthenticated = true
		if err := c.store.Set(ctx, procure.AuthInfoKey, &merged); err != nil {
			c.fail(ctx, err)
			return
		}
		info = &merged
	}
	next := AuthState{
		Access:            info.AccessToken(),
		Refresh:           info.RefreshToken(),
		ModulePermissions: info.ModulePermissions,
		IsAuthenticated:   true,
	}
	c.commit(ctx, func() {
		c.auth = next
		if info.User != nil {
			c.user = *info.User
		}
	})
}

// runLogout clears the persisted blob and resets both derived states. The
// reset is not atomic across the two stores: a removal failure leaves the
// user state untouched and parks the auth state in its error shape.
func (c *Coordinator) runLogout(ctx context.Context) {
	if err := c.store.Remove(ctx, procure.AuthInfoKey); err != nil {
		c.fail(ctx, err)
		return
	}
	c.commit(ctx, func() {
		c.auth = AuthState{}
		c.user = procure.User{}
	})
}

func (c *Coordinator) fail(ctx context.Context, err error) {
	c.logger.Errorf("session transition failed: %v", err)
	c.commit(ctx, func() {
		c.auth.Loading = false
		c.auth.Error = err.Error()
	})
}

// commit applies a state mutation unless the owning task was cancelled. The
// cancellation check runs inside the critical section, so a superseded task
// can never write after its successor has started committing.
func (c *Coordinator) commit(ctx context.Context, apply func()) bool {
	c.mux.Lock()
	if ctx.Err() != nil {
		c.mux.Unlock()
		return false
	}
	apply()
	listener := c.listener
	c.mux.Unlock()
	if listener != nil {
		listener()
	}
	return true
}
