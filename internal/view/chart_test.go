package view

import (
	"context"
	"errors"
	"testing"

	"github.com/richgang/fxpulse/internal/core"
	"github.com/richgang/fxpulse/internal/poll"
)

type fakeChartBackend struct {
	candles []core.Candle
	err     error
}

func (f *fakeChartBackend) History(ctx context.Context, symbol string) ([]core.Candle, error) {
	return f.candles, f.err
}

func chartFetch(t *testing.T, c *Chart) error {
	t.Helper()
	apply, err := c.Fetch(context.Background(), poll.Tick{Seq: 1})
	if err != nil {
		return err
	}
	if apply != nil {
		apply()
	}
	return nil
}

func TestChart_LoadsCandles(t *testing.T) {
	backend := &fakeChartBackend{candles: []core.Candle{{Close: 42500}}}
	c := NewChart(backend, "US30", nil)

	if c.State().Phase != PhaseLoading {
		t.Fatal("chart must mount in loading phase")
	}
	if err := chartFetch(t, c); err != nil {
		t.Fatal(err)
	}

	st := c.State()
	if st.Phase != PhaseLoaded || st.NoData || len(st.Candles) != 1 {
		t.Errorf("unexpected chart state: %+v", st)
	}
}

func TestChart_EmptyHistoryIsNoData(t *testing.T) {
	backend := &fakeChartBackend{candles: []core.Candle{}}
	c := NewChart(backend, "US30", nil)

	if err := chartFetch(t, c); err != nil {
		t.Fatal(err)
	}

	st := c.State()
	if !st.NoData {
		t.Error("empty history must render the explicit no-data state")
	}
	if NoDataMessage != "No data available" {
		t.Errorf("unexpected no-data message: %q", NoDataMessage)
	}
}

func TestChart_FetchFailureIsNoDataNotStale(t *testing.T) {
	backend := &fakeChartBackend{candles: []core.Candle{{Close: 42500}}}
	c := NewChart(backend, "US30", nil)
	if err := chartFetch(t, c); err != nil {
		t.Fatal(err)
	}

	backend.err = core.WrapError(core.ErrAPIFailed, errors.New("down"))
	if err := chartFetch(t, c); err != nil {
		t.Fatal(err)
	}

	st := c.State()
	if !st.NoData || len(st.Candles) != 0 {
		t.Errorf("chart must not keep stale candles after a failed fetch: %+v", st)
	}
}

func TestChart_UnauthorizedPropagates(t *testing.T) {
	backend := &fakeChartBackend{err: core.ErrUnauthorized}
	c := NewChart(backend, "US30", nil)

	err := chartFetch(t, c)
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized to reach the poller, got %v", err)
	}
}
