package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"medai/internal/domain"
	"medai/internal/event"
	"medai/internal/logger"
	"medai/internal/validator"
)

type controller struct {
	mu       sync.Mutex
	state    domain.AuthState
	inFlight bool
	closed   bool

	api   AuthAPI
	store Store
	nav   Navigator
	bus   *event.Bus
	log   logger.Logger
	id    uuid.UUID
}

func NewController(api AuthAPI, store Store, nav Navigator, bus *event.Bus, log logger.Logger) Controller {
	return &controller{
		state: domain.AuthState{Phase: domain.PhaseRestoring},
		api:   api,
		store: store,
		nav:   nav,
		bus:   bus,
		log:   log,
		id:    uuid.New(),
	}
}

// Restore reconstructs in-memory state from the store at process start. No
// network call is made; a missing or corrupt record means unauthenticated.
// The in-flight flag is claimed under the same lock as the phase check, so a
// second concurrent Restore cannot slip past it and load or publish twice.
func (c *controller) Restore(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrControllerClosed
	}
	if c.state.Phase != domain.PhaseRestoring || c.inFlight {
		c.mu.Unlock()
		return nil
	}
	c.inFlight = true
	c.mu.Unlock()

	sess, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn("session restore failed, starting unauthenticated", "controller", c.id, "error", err)
		sess = nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrControllerClosed
	}
	c.inFlight = false
	next := domain.AuthState{Phase: domain.PhaseUnauthenticated}
	if sess != nil {
		next = domain.AuthState{Phase: domain.PhaseAuthenticated, Session: sess}
	}
	c.state = next
	c.mu.Unlock()

	c.bus.Publish(next)
	if sess != nil {
		c.log.Info("session restored", "controller", c.id, "user_id", sess.User.ID())
		c.navigate(DestinationDashboard)
	}
	return nil
}

func (c *controller) Login(ctx context.Context, email, password string) error {
	if err := c.begin(func() error { return validator.Login(email, password) }); err != nil {
		if errors.Is(err, errAlreadyAuthenticated) {
			return nil
		}
		return err
	}

	res, err := c.api.Login(ctx, email, password)
	return c.settle(ctx, res, err)
}

func (c *controller) Signup(ctx context.Context, req domain.SignupRequest, confirmPassword string, agreeTerms bool) error {
	if err := c.begin(func() error { return validator.Signup(req, confirmPassword, agreeTerms) }); err != nil {
		if errors.Is(err, errAlreadyAuthenticated) {
			return nil
		}
		return err
	}

	res, err := c.api.Signup(ctx, req)
	return c.settle(ctx, res, err)
}

// errAlreadyAuthenticated makes begin's "skip" outcome distinct from its
// "proceed" outcome, so a trigger fired with a live session never reaches the
// transport. Login and Signup translate it to a plain nil.
var errAlreadyAuthenticated = errors.New("already authenticated")

// begin applies the transition out of Unauthenticated for a login or signup
// trigger. The in-flight check happens under the lock before any suspension,
// so a double tap is rejected synchronously and a second transport call never
// starts. Validation failures stay local: the state remains Unauthenticated
// with the error recorded, and no network attempt follows.
func (c *controller) begin(check func() error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrControllerClosed
	}
	if c.inFlight || c.state.Phase == domain.PhaseRestoring {
		c.mu.Unlock()
		return domain.ErrOperationInFlight
	}
	if c.state.Phase == domain.PhaseAuthenticated {
		c.mu.Unlock()
		return errAlreadyAuthenticated
	}

	if err := check(); err != nil {
		next := domain.AuthState{Phase: domain.PhaseUnauthenticated, LastError: err}
		c.state = next
		c.mu.Unlock()
		c.bus.Publish(next)
		return err
	}

	next := domain.AuthState{Phase: domain.PhaseAuthenticating, SubmittedAt: time.Now()}
	c.inFlight = true
	c.state = next
	c.mu.Unlock()
	c.bus.Publish(next)
	return nil
}

// settle applies the resolution of an in-flight transport call. Entering
// Authenticated requires a durable save first; a failed save surfaces
// ErrPersistenceFailure and lands in Unauthenticated, because an
// in-memory-only session silently disappears on restart. Results arriving
// after Close are discarded.
func (c *controller) settle(ctx context.Context, res *domain.AuthResponse, err error) error {
	if err == nil && res == nil {
		// The transport contract says a nil error carries a response; if an
		// adapter breaks that, fail the attempt instead of the process.
		err = &domain.ServerRejectedError{Message: "invalid server response"}
	}

	if err == nil {
		if c.stale() {
			return domain.ErrControllerClosed
		}

		sess := domain.Session{Token: res.Token, User: res.User}
		if saveErr := c.store.Save(ctx, sess); saveErr != nil {
			err = fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, saveErr)
		} else {
			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				return domain.ErrControllerClosed
			}
			c.inFlight = false
			next := domain.AuthState{Phase: domain.PhaseAuthenticated, Session: &sess}
			c.state = next
			c.mu.Unlock()

			c.bus.Publish(next)
			c.log.Info("authenticated", "controller", c.id, "user_id", sess.User.ID())
			c.navigate(DestinationDashboard)
			return nil
		}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.log.Debug("discarding auth result for closed controller", "controller", c.id)
		return domain.ErrControllerClosed
	}
	c.inFlight = false
	next := domain.AuthState{Phase: domain.PhaseUnauthenticated, LastError: err}
	c.state = next
	c.mu.Unlock()

	c.bus.Publish(next)
	c.log.Warn("authentication attempt failed", "controller", c.id, "error", err)
	return err
}

// Logout clears the durable record before leaving Authenticated. If the clear
// fails the state stays Authenticated and ErrPersistenceFailure is surfaced;
// dropping the in-memory session while the record survives would silently
// sign the user back in on the next start.
func (c *controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrControllerClosed
	}
	if c.inFlight || c.state.Phase == domain.PhaseRestoring {
		c.mu.Unlock()
		return domain.ErrOperationInFlight
	}
	if c.state.Phase != domain.PhaseAuthenticated {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.log.Error("logout could not clear stored session", "controller", c.id, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrControllerClosed
	}
	next := domain.AuthState{Phase: domain.PhaseUnauthenticated}
	c.state = next
	c.mu.Unlock()

	c.bus.Publish(next)
	c.log.Info("logged out", "controller", c.id)
	return nil
}

// SessionInvalidated is the destroy hook for a token later rejected by a
// protected endpoint. The clear is best-effort: the session is gone either
// way, a leftover record just re-triggers this path on the next start.
func (c *controller) SessionInvalidated(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.state.Phase != domain.PhaseAuthenticated {
		c.mu.Unlock()
		return
	}
	next := domain.AuthState{Phase: domain.PhaseUnauthenticated, LastError: domain.ErrSessionInvalidated}
	c.state = next
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.log.Warn("could not clear invalidated session", "controller", c.id, "error", err)
	}
	c.bus.Publish(next)
}

func (c *controller) State() domain.AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *controller) IsAuthenticated() bool {
	return c.State().IsAuthenticated()
}

func (c *controller) Loading() bool {
	return c.State().Loading()
}

func (c *controller) LastError() error {
	return c.State().LastError
}

func (c *controller) Subscribe(handler event.Handler) {
	c.bus.Subscribe(handler)
}

// Close marks the controller dead. In-flight transport calls may still
// complete in the background, but their results are discarded and no further
// state change is published.
func (c *controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *controller) stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *controller) navigate(destination string) {
	if c.nav != nil {
		c.nav.Navigate(destination)
	}
}
