package view

import (
	"context"
	"errors"
	"sync"

	"github.com/richgang/fxpulse/internal/core"
	"github.com/richgang/fxpulse/internal/metrics"
	"github.com/richgang/fxpulse/internal/poll"
	"go.uber.org/zap"
)

// Phase is a view's display state. A view enters Loading only once,
// on mount; later refreshes update the data in place.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseError   Phase = "error"
)

// DashboardBackend is the slice of the API surface the dashboard
// polls. *api.Client satisfies it.
type DashboardBackend interface {
	Market(ctx context.Context) (map[string]core.MarketData, error)
	ActiveSignals(ctx context.Context) ([]core.Signal, error)
	PendingSignals(ctx context.Context) ([]core.Signal, error)
	Direction(ctx context.Context) (*core.DirectionState, error)
	TradingSessions(ctx context.Context) (map[string]core.SessionWindow, error)
}

// DashboardState is an immutable snapshot of the dashboard.
type DashboardState struct {
	Phase     Phase
	Markets   map[string]core.MarketData
	Signals   []core.Signal
	Pending   []core.Signal
	Direction *core.DirectionState
	Sessions  map[string]core.SessionWindow
}

// Dashboard is the main view: five backend resources fetched
// concurrently each tick and replaced wholesale on success. A
// resource whose fetch fails keeps its last-good value.
type Dashboard struct {
	backend DashboardBackend
	logger  *zap.Logger
	metrics *metrics.Registry

	mu    sync.RWMutex
	state DashboardState
}

// NewDashboard creates the dashboard view. reg may be nil.
func NewDashboard(backend DashboardBackend, logger *zap.Logger, reg *metrics.Registry) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{
		backend: backend,
		logger:  logger,
		metrics: reg,
		state:   DashboardState{Phase: PhaseLoading},
	}
}

func (d *Dashboard) Name() string { return "dashboard" }

// State returns the current snapshot.
func (d *Dashboard) State() DashboardState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Fetch issues the five resource fetches concurrently and waits for
// all to settle. The first unauthorized or forbidden result wins and
// is returned to the poller; other failures only affect their own
// resource.
func (d *Dashboard) Fetch(ctx context.Context, t poll.Tick) (func(), error) {
	var (
		wg        sync.WaitGroup
		markets   map[string]core.MarketData
		signals   []core.Signal
		pending   []core.Signal
		direction *core.DirectionState
		sessions  map[string]core.SessionWindow
		errs      [5]error
	)

	wg.Add(5)
	go func() { defer wg.Done(); markets, errs[0] = d.backend.Market(ctx) }()
	go func() { defer wg.Done(); signals, errs[1] = d.backend.ActiveSignals(ctx) }()
	go func() { defer wg.Done(); pending, errs[2] = d.backend.PendingSignals(ctx) }()
	go func() { defer wg.Done(); direction, errs[3] = d.backend.Direction(ctx) }()
	go func() { defer wg.Done(); sessions, errs[4] = d.backend.TradingSessions(ctx) }()
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, core.ErrUnauthorized) || errors.Is(err, core.ErrForbidden) {
			return nil, err
		}
		failed++
		if d.metrics != nil {
			d.metrics.RecordFetchFailure(d.Name(), errKind(err))
		}
		d.logger.Warn("dashboard resource fetch failed",
			zap.Uint64("seq", t.Seq), zap.String("tick", t.ID), zap.Error(err))
	}

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		if errs[0] == nil {
			d.state.Markets = markets
		}
		if errs[1] == nil {
			d.state.Signals = signals
		}
		if errs[2] == nil {
			d.state.Pending = pending
		}
		if errs[3] == nil {
			d.state.Direction = direction
		}
		if errs[4] == nil {
			d.state.Sessions = sessions
		}

		if d.state.Phase == PhaseLoading {
			if failed == len(errs) {
				d.state.Phase = PhaseError
			} else {
				d.state.Phase = PhaseLoaded
			}
			return
		}
		if failed < len(errs) {
			d.state.Phase = PhaseLoaded
		}
	}, nil
}

func errKind(err error) string {
	var cerr *core.Error
	if errors.As(err, &cerr) {
		return cerr.Code
	}
	return "UNKNOWN"
}
