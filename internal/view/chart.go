package view

import (
	"context"
	"errors"
	"sync"

	"github.com/richgang/fxpulse/internal/core"
	"github.com/richgang/fxpulse/internal/poll"
	"go.uber.org/zap"
)

// NoDataMessage is shown when a chart has nothing to plot.
const NoDataMessage = "No data available"

// ChartBackend is what the chart view needs from the API surface.
type ChartBackend interface {
	History(ctx context.Context, symbol string) ([]core.Candle, error)
}

// ChartState is an immutable snapshot of the chart.
type ChartState struct {
	Phase   Phase
	Symbol  string
	Candles []core.Candle
	NoData  bool
}

// Chart is the price-history view for one symbol. Unlike the
// dashboard it never shows stale candles: an empty result or a failed
// fetch both map to the explicit no-data state.
type Chart struct {
	backend ChartBackend
	symbol  string
	logger  *zap.Logger

	mu    sync.RWMutex
	state ChartState
}

// NewChart creates the chart view for symbol.
func NewChart(backend ChartBackend, symbol string, logger *zap.Logger) *Chart {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chart{
		backend: backend,
		symbol:  symbol,
		logger:  logger,
		state:   ChartState{Phase: PhaseLoading, Symbol: symbol},
	}
}

func (c *Chart) Name() string { return "chart" }

// State returns the current snapshot.
func (c *Chart) State() ChartState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Fetch refreshes the candle history for the chart's symbol.
func (c *Chart) Fetch(ctx context.Context, t poll.Tick) (func(), error) {
	candles, err := c.backend.History(ctx, c.symbol)
	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) || errors.Is(err, core.ErrForbidden) {
			return nil, err
		}
		c.logger.Warn("history fetch failed",
			zap.String("symbol", c.symbol),
			zap.Uint64("seq", t.Seq), zap.String("tick", t.ID), zap.Error(err))
		return func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.state = ChartState{Phase: PhaseLoaded, Symbol: c.symbol, NoData: true}
		}, nil
	}

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.state = ChartState{
			Phase:   PhaseLoaded,
			Symbol:  c.symbol,
			Candles: candles,
			NoData:  len(candles) == 0,
		}
	}, nil
}
