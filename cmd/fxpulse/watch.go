package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/richgang/fxpulse/internal/metrics"
	"github.com/richgang/fxpulse/internal/poll"
	"github.com/richgang/fxpulse/internal/view"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the live dashboard",
	Long: `watch polls the backend for market data, active and pending
signals, the direction lock and the trading sessions, refreshing at a
fixed interval until interrupted. An expired session forces a logout
and stops the dashboard.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		if err := requireRole(a, ""); err != nil {
			return err
		}

		reg := metrics.NewRegistry()
		if a.cfg.Metrics.Enabled {
			exp := metrics.NewExporter(reg, a.cfg.Metrics.Listen, a.cfg.Metrics.Path, a.log)
			go exp.Start()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				exp.Shutdown(shutdownCtx)
			}()
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		dash := view.NewDashboard(a.client, a.log, reg)
		expired := false
		poller := poll.New(dash, a.cfg.Poll.DashboardInterval, a.log, reg, func() {
			a.session.Logout()
			expired = true
			cancel()
		})

		done := make(chan error, 1)
		go func() { done <- poller.Run(ctx) }()

		render := time.NewTicker(a.cfg.Poll.DashboardInterval)
		defer render.Stop()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		for {
			select {
			case <-quit:
				a.log.Info("dashboard interrupted")
				cancel()
				<-done
				return nil
			case <-done:
				if expired {
					fmt.Println("Session expired. Run: fxpulse login <code>")
				}
				return nil
			case <-render.C:
				renderDashboard(dash.State())
			}
		}
	})
}

func renderDashboard(st view.DashboardState) {
	switch st.Phase {
	case view.PhaseLoading:
		fmt.Println("Loading...")
		return
	case view.PhaseError:
		fmt.Println("Backend unreachable, retrying...")
		return
	}

	fmt.Printf("\n=== %s ===\n", time.Now().Format("15:04:05"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tPRICE\tCHANGE\tHIGH\tLOW\tSESSION\t")
	for _, symbol := range orderedSymbols(st) {
		md := st.Markets[symbol]
		sess := st.Sessions[symbol]
		sessName := sess.Name
		if !sess.Active {
			sessName = "-"
		}
		fmt.Fprintf(w, "%s\t%.2f\t%+.2f (%+.2f%%)\t%.2f\t%.2f\t%s\t\n",
			symbol, md.Price, md.Change, md.ChangePercent, md.High, md.Low, sessName)
	}
	w.Flush()

	if st.Direction != nil {
		fmt.Printf("Direction lock: %s\n", st.Direction.CurrentDirection)
	}
	if len(st.Signals) == 0 && len(st.Pending) == 0 {
		fmt.Println("No signals.")
		return
	}
	for _, s := range st.Signals {
		fmt.Printf("  %s %s @ %.2f [%s %d%%] SL %.2f TP %.2f/%.2f/%.2f\n",
			s.Direction, s.Symbol, s.EntryPrice, s.Status, s.Confidence,
			s.StopLoss, s.TP1, s.TP2, s.TP3)
	}
	for _, s := range st.Pending {
		fmt.Printf("  pending: %s %s @ %.2f [%d%%]\n",
			s.Direction, s.Symbol, s.EntryPrice, s.Confidence)
	}
}

func orderedSymbols(st view.DashboardState) []string {
	var symbols []string
	for _, s := range []string{"US30", "US100", "GER30"} {
		if _, ok := st.Markets[s]; ok {
			symbols = append(symbols, s)
		}
	}
	return symbols
}
