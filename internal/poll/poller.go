package poll

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/richgang/fxpulse/internal/core"
	"github.com/richgang/fxpulse/internal/metrics"
	"go.uber.org/zap"
)

// Tick identifies one firing of the schedule. Seq is monotonically
// increasing; ID correlates the tick's log lines.
type Tick struct {
	Seq uint64
	ID  string
}

// View is a data-bearing view refreshed by a Poller. Fetch performs
// the tick's backend calls and returns a closure that commits the
// results to the view's state. The closure is only invoked when the
// tick is still the newest one, so a slow tick can never overwrite
// fresher data.
//
// Fetch returns an error for failures that the poller must act on:
// ErrUnauthorized/ErrForbidden force a logout, anything else is
// logged and the view keeps its previous state.
type View interface {
	Name() string
	Fetch(ctx context.Context, t Tick) (func(), error)
}

// Poller refreshes one view at a fixed interval. The first tick fires
// immediately on Run; later ticks fire on schedule regardless of
// whether earlier ticks have completed, so ticks may overlap under
// latency. The sequence check in commit makes the overlap harmless.
type Poller struct {
	view     View
	interval time.Duration
	logger   *zap.Logger
	metrics  *metrics.Registry

	// onAuthFailure is invoked at most once, on the first
	// unauthorized or forbidden result observed.
	onAuthFailure func()
	authOnce      sync.Once

	mu          sync.Mutex
	seq         uint64
	lastApplied uint64

	wg sync.WaitGroup
}

// New creates a poller for view. reg may be nil to disable metrics;
// onAuthFailure may be nil when the caller has no session to tear down.
func New(view View, interval time.Duration, logger *zap.Logger, reg *metrics.Registry, onAuthFailure func()) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		view:          view,
		interval:      interval,
		logger:        logger.With(zap.String("view", view.Name())),
		metrics:       reg,
		onAuthFailure: onAuthFailure,
	}
}

// Run polls until ctx is cancelled. One tick fires immediately, then
// the fixed-interval schedule takes over. Run returns ctx.Err()
// after in-flight ticks have drained.
func (p *Poller) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.logger.Info("polling started", zap.Duration("interval", p.interval))

	p.fire(ctx, cancel)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.wg.Wait()
			p.logger.Info("polling stopped")
			return ctx.Err()
		case <-ticker.C:
			p.fire(ctx, cancel)
		}
	}
}

// fire launches one tick without waiting for it.
func (p *Poller) fire(ctx context.Context, cancel context.CancelFunc) {
	p.mu.Lock()
	p.seq++
	t := Tick{Seq: p.seq, ID: uuid.NewString()}
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runTick(ctx, cancel, t)
	}()
}

func (p *Poller) runTick(ctx context.Context, cancel context.CancelFunc, t Tick) {
	if p.metrics != nil {
		p.metrics.TickInFlightInc(p.view.Name())
		defer p.metrics.TickInFlightDec(p.view.Name())
	}
	start := time.Now()

	apply, err := p.view.Fetch(ctx, t)

	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) || errors.Is(err, core.ErrForbidden) {
			p.logger.Warn("session no longer valid, forcing logout",
				zap.Uint64("seq", t.Seq), zap.String("tick", t.ID))
			p.authOnce.Do(func() {
				if p.metrics != nil {
					p.metrics.RecordForcedLogout()
				}
				if p.onAuthFailure != nil {
					p.onAuthFailure()
				}
				cancel()
			})
			return
		}
		if p.metrics != nil {
			p.metrics.RecordFetchFailure(p.view.Name(), errorKind(err))
		}
		p.logger.Warn("tick failed, keeping previous state",
			zap.Uint64("seq", t.Seq), zap.String("tick", t.ID), zap.Error(err))
		return
	}

	if apply != nil {
		p.commit(t, apply)
	}

	if p.metrics != nil {
		p.metrics.RecordTick(p.view.Name(), time.Since(start).Seconds())
	}
}

// commit applies a tick's results unless a newer tick already landed.
func (p *Poller) commit(t Tick, apply func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t.Seq <= p.lastApplied {
		if p.metrics != nil {
			p.metrics.RecordStaleDrop(p.view.Name())
		}
		p.logger.Debug("dropping stale tick result",
			zap.Uint64("seq", t.Seq), zap.Uint64("last_applied", p.lastApplied))
		return
	}
	apply()
	p.lastApplied = t.Seq
}

// errorKind maps an error onto a metrics label.
func errorKind(err error) string {
	var cerr *core.Error
	if errors.As(err, &cerr) {
		return cerr.Code
	}
	return "UNKNOWN"
}
