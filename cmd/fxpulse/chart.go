package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/richgang/fxpulse/internal/core"
	"github.com/richgang/fxpulse/internal/poll"
	"github.com/richgang/fxpulse/internal/view"
	"github.com/spf13/cobra"
)

var chartCmd = &cobra.Command{
	Use:   "chart <symbol>",
	Short: "Follow the price history for one symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, args []string) error {
	symbol := args[0]
	if !core.ValidSymbol(symbol) {
		return fmt.Errorf("unknown symbol %q (known: %v)", symbol, core.Symbols)
	}

	return withApp(func(ctx context.Context, a *app) error {
		if err := requireRole(a, ""); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		if quote, err := a.client.MarketSymbol(ctx, symbol); err == nil {
			fmt.Printf("%s  %.2f (%+.2f%%)  [%s]\n",
				symbol, quote.Price, quote.ChangePercent, quote.MarketStatus)
		}

		chart := view.NewChart(a.client, symbol, a.log)
		expired := false
		poller := poll.New(chart, a.cfg.Poll.ChartInterval, a.log, nil, func() {
			a.session.Logout()
			expired = true
			cancel()
		})

		done := make(chan error, 1)
		go func() { done <- poller.Run(ctx) }()

		render := time.NewTicker(a.cfg.Poll.ChartInterval)
		defer render.Stop()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		renderChart(chart.State())
		for {
			select {
			case <-quit:
				cancel()
				<-done
				return nil
			case <-done:
				if expired {
					fmt.Println("Session expired. Run: fxpulse login <code>")
				}
				return nil
			case <-render.C:
				renderChart(chart.State())
			}
		}
	})
}

func renderChart(st view.ChartState) {
	if st.Phase == view.PhaseLoading {
		fmt.Println("Loading...")
		return
	}
	if st.NoData {
		fmt.Println(view.NoDataMessage)
		return
	}

	first := st.Candles[0]
	last := st.Candles[len(st.Candles)-1]
	fmt.Printf("%s: %d candles, %s .. %s, last close %.2f\n",
		st.Symbol, len(st.Candles),
		first.Time.Format("15:04"), last.Time.Format("15:04"), last.Close)
}
