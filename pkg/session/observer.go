package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/core/model"
)

// State is what the navigation shell shows about the session
type State struct {
	LoggedIn bool
	Username string
	UserID   string
	Roles    Roles
}

// HasRole reports whether the user is logged in and holds role
func (s State) HasRole(role model.Role) bool {
	return s.LoggedIn && s.Roles.Has(role)
}

// Can reports whether the user is logged in and some role grants c
func (s State) Can(c Capability) bool {
	return s.LoggedIn && s.Roles.Can(c)
}

// PrimaryRole is the first stored role, kept for display
func (s State) PrimaryRole() model.Role {
	if !s.LoggedIn {
		return ""
	}
	return s.Roles.Primary()
}

// Derive computes the navigation state from a store read
func Derive(sess Session, ok bool) State {
	if !ok {
		return State{}
	}
	return State{
		LoggedIn: true,
		Username: sess.Username,
		UserID:   sess.UserID,
		Roles:    sess.RoleSet(),
	}
}

// Observer keeps a derived State current by re-reading the store each time a
// change signal arrives
type Observer struct {
	store  *Store
	logger *zap.Logger

	mu       sync.RWMutex
	state    State
	onChange func(State)
}

// NewObserver reads the store once and returns an observer holding the result
func NewObserver(ctx context.Context, store *Store, logger *zap.Logger) *Observer {
	o := &Observer{
		store:  store,
		logger: logger,
	}
	o.Refresh(ctx)
	return o
}

// OnChange registers fn to be called with each state produced by Run
func (o *Observer) OnChange(fn func(State)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onChange = fn
}

// State returns the last derived state
func (o *Observer) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Refresh re-reads the store. A read failure is treated as logged out.
func (o *Observer) Refresh(ctx context.Context) State {
	sess, ok, err := o.store.Read(ctx)
	if err != nil {
		o.logger.Warn("Failed to read session, treating as logged out", zap.Error(err))
		ok = false
	}
	state := Derive(sess, ok)

	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
	return state
}

// Run subscribes to the store's broker and re-derives state on every signal
// until ctx is done
func (o *Observer) Run(ctx context.Context) error {
	signals, cancel, err := o.store.Broker().Subscribe(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	o.loop(ctx, signals)
	return nil
}

// Start subscribes before returning and handles signals in the background.
// The returned stop function blocks until the loop has exited.
func (o *Observer) Start(ctx context.Context) (func(), error) {
	signals, cancel, err := o.store.Broker().Subscribe(ctx)
	if err != nil {
		return nil, err
	}

	ctx, stopLoop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		o.loop(ctx, signals)
	}()

	return func() {
		stopLoop()
		<-done
		cancel()
	}, nil
}

func (o *Observer) loop(ctx context.Context, signals <-chan Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			o.logger.Debug("Session change signal", zap.String("reason", sig.Reason), zap.String("origin", sig.Origin))
			state := o.Refresh(ctx)

			o.mu.RLock()
			fn := o.onChange
			o.mu.RUnlock()
			if fn != nil {
				fn(state)
			}
		}
	}
}
