package syncengine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const DefaultPollInterval = 30 * time.Second

var (
	// ErrMutationPending is returned when an order already has an unconfirmed change.
	ErrMutationPending = errors.New("order has an unconfirmed change")

	ErrEngineIsNotStarted = errors.New("sync engine is not started")
)

// MutationError reports a rejected optimistic change. Authoritative is the server state
// fetched after the rejection, when the fetch succeeded.
type MutationError struct {
	Kind          errs.Kind
	Err           error
	Authoritative *OrderState
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("change rejected (%s): %v", e.Kind, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// Status describes the freshness of the engine's view.
type Status struct {
	Stale     bool
	LastError error
	LastSync  time.Time
	Pending   int
}

type optimistic struct {
	state OrderState
	since time.Time
}

// Engine is the synchronization engine of one session. Server state is authoritative:
// every successful poll replaces the confirmed view, except that a confirmed order never
// moves back to an older version than one already seen. Optimistic entries live only
// until the server confirms them or one poll interval passes.
type Engine struct {
	session  ports.Session
	gateway  Gateway
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.RWMutex
	confirmed map[kernel.UUID]OrderState
	overlay   map[kernel.UUID]optimistic
	balance   Balance
	status    Status

	cron   *cron.Cron
	cancel context.CancelFunc
}

// NewEngine creates an engine for session. A zero interval means DefaultPollInterval.
func NewEngine(session ports.Session, gateway Gateway, interval time.Duration, logger *slog.Logger) (*Engine, error) {
	if err := errors.Join(session.UserID.Validate(), session.Role.Validate()); err != nil {
		return nil, err
	}
	if gateway == nil {
		return nil, errs.NewValueIsRequiredError("gateway")
	}
	if interval == 0 {
		interval = DefaultPollInterval
	}
	if interval < time.Second {
		return nil, errs.NewValueIsOutOfRangeError("interval", interval, time.Second, "unbounded")
	}

	return &Engine{
		session:   session,
		gateway:   gateway,
		interval:  interval,
		logger:    logger.With("component", "sync_engine", "user_id", session.UserID.String(), "role", session.Role.String()),
		now:       time.Now,
		confirmed: make(map[kernel.UUID]OrderState),
		overlay:   make(map[kernel.UUID]optimistic),
	}, nil
}

// Start polls once and then on every interval until Stop or until ctx is done. A failed
// first poll leaves the engine running and stale.
func (e *Engine) Start(ctx context.Context) error {
	pollCtx, cancel := context.WithCancel(ctx)
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", e.interval), func() {
		if pollCtx.Err() != nil {
			return
		}
		_ = e.Refresh(pollCtx)
	}); err != nil {
		cancel()
		return err
	}

	e.mu.Lock()
	e.cron = c
	e.cancel = cancel
	e.mu.Unlock()

	_ = e.Refresh(ctx)
	c.Start()
	return nil
}

// Stop cancels an in-flight poll and waits for it to return.
func (e *Engine) Stop() error {
	e.mu.Lock()
	c, cancel := e.cron, e.cancel
	e.cron, e.cancel = nil, nil
	e.mu.Unlock()

	if c == nil {
		return ErrEngineIsNotStarted
	}
	cancel()
	<-c.Stop().Done()
	return nil
}

// Refresh pulls the orders and balance the session can see. On failure the last known
// good state is kept and the engine is marked stale.
func (e *Engine) Refresh(ctx context.Context) error {
	orders, err := e.gateway.ListOrders(ctx)
	var balance Balance
	if err == nil {
		balance, err = e.gateway.GetBalance(ctx)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		metrics.SyncPollsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		e.status.Stale = true
		e.status.LastError = err
		e.logger.WarnContext(ctx, "Poll failed, keeping last known state", "error", err)
		return err
	}

	metrics.SyncPollsTotal.WithLabelValues(metrics.ResultOK).Inc()
	now := e.now()

	confirmed := make(map[kernel.UUID]OrderState, len(orders))
	for _, o := range orders {
		o.Pending = false
		if seen, ok := e.confirmed[o.ID]; ok && seen.Version > o.Version {
			o = seen
		}
		confirmed[o.ID] = o
	}
	e.confirmed = confirmed
	e.balance = balance

	for id, opt := range e.overlay {
		server, known := e.confirmed[id]
		switch {
		case known && server.Version >= opt.state.Version:
			delete(e.overlay, id)
		case now.Sub(opt.since) > e.interval:
			e.logger.InfoContext(ctx, "Discarding unconfirmed change", "order_id", id.String(), "status", opt.state.Status)
			delete(e.overlay, id)
		}
	}

	e.status.Stale = false
	e.status.LastError = nil
	e.status.LastSync = now
	return nil
}

// Apply moves an order optimistically and sends the change to the server. On success the
// server state replaces the optimistic entry. On rejection the entry is rolled back, the
// authoritative state is re-fetched and a MutationError carrying the error kind is
// returned.
func (e *Engine) Apply(ctx context.Context, orderID kernel.UUID, target order.Status, courierID *kernel.UUID) (OrderState, error) {
	base, err := e.beginMutation(orderID, target, courierID)
	if err != nil {
		return OrderState{}, err
	}

	server, err := e.gateway.ApplyTransition(ctx, TransitionRequest{
		OrderID:         orderID,
		Target:          target,
		ExpectedVersion: base.Version,
		CourierID:       courierID,
	})
	if err != nil {
		return OrderState{}, e.rollback(ctx, orderID, err)
	}

	e.mu.Lock()
	server.Pending = false
	e.confirm(server)
	delete(e.overlay, orderID)
	e.mu.Unlock()

	_ = e.Refresh(ctx)
	return server, nil
}

func (e *Engine) beginMutation(orderID kernel.UUID, target order.Status, courierID *kernel.UUID) (OrderState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, busy := e.overlay[orderID]; busy {
		return OrderState{}, ErrMutationPending
	}
	base, ok := e.confirmed[orderID]
	if !ok {
		return OrderState{}, errs.NewObjectNotFoundError("order", orderID.String())
	}
	if !order.CanTransition(base.Status, e.session.Role, target) {
		return OrderState{}, &MutationError{
			Kind: errs.KindInvalidTransition,
			Err:  errs.NewInvalidTransitionError(base.Status.String(), target.String(), e.session.Role.String()),
		}
	}

	next := base
	next.Status = target
	next.Version = base.Version + 1
	next.UpdatedAt = e.now()
	next.Pending = true
	if target == order.Pickup {
		next.CourierID = e.assignedCourier(courierID)
	}
	e.overlay[orderID] = optimistic{state: next, since: e.now()}

	return base, nil
}

func (e *Engine) rollback(ctx context.Context, orderID kernel.UUID, cause error) error {
	e.mu.Lock()
	delete(e.overlay, orderID)
	e.mu.Unlock()

	mutationErr := &MutationError{Kind: errs.KindOf(cause), Err: cause}

	authoritative, err := e.gateway.GetOrder(ctx, orderID)
	if err != nil {
		e.logger.WarnContext(ctx, "Failed to re-fetch order after rejected change", "order_id", orderID.String(), "error", err)
		return mutationErr
	}

	e.mu.Lock()
	authoritative.Pending = false
	e.confirm(authoritative)
	e.mu.Unlock()

	mutationErr.Authoritative = &authoritative
	return mutationErr
}

// assignedCourier mirrors the server's pickup assignment: a courier takes the order
// themselves, an admin assigns the courier named in the request.
func (e *Engine) assignedCourier(requested *kernel.UUID) *kernel.UUID {
	if e.session.Role == order.RoleCourier {
		courier := e.session.UserID
		return &courier
	}
	if requested == nil {
		return nil
	}
	courier := *requested
	return &courier
}

// confirm stores a server state unless a newer version of the order is already known.
// Callers hold e.mu.
func (e *Engine) confirm(state OrderState) {
	if seen, ok := e.confirmed[state.ID]; ok && seen.Version > state.Version {
		return
	}
	e.confirmed[state.ID] = state
}

// Abandon drops a pending optimistic entry. A request already sent is not cancelled;
// its outcome shows up on the next poll.
func (e *Engine) Abandon(orderID kernel.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.overlay[orderID]
	delete(e.overlay, orderID)
	return ok
}

// Orders returns the merged view, most recently updated first.
func (e *Engine) Orders() []OrderState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]OrderState, 0, len(e.confirmed)+len(e.overlay))
	for id, o := range e.confirmed {
		if opt, ok := e.overlay[id]; ok {
			o = opt.state
		}
		out = append(out, o)
	}

	slices.SortFunc(out, func(a, b OrderState) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})
	return out
}

func (e *Engine) Order(id kernel.UUID) (OrderState, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if opt, ok := e.overlay[id]; ok {
		return opt.state, true
	}
	o, ok := e.confirmed[id]
	return o, ok
}

func (e *Engine) Balance() Balance {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.balance
}

func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := e.status
	s.Pending = len(e.overlay)
	return s
}

func compareIDs(a, b kernel.UUID) int {
	switch x, y := a.String(), b.String(); {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
