package main

import (
	"context"
	"fmt"

	"github.com/richgang/fxpulse/internal/core"
	"github.com/spf13/cobra"
)

var signalCmd = &cobra.Command{
	Use:   "signal",
	Short: "Signal operations",
}

var signalGenerateCmd = &cobra.Command{
	Use:   "generate <symbol>",
	Short: "Trigger signal generation (owner only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSignalGenerate,
}

func init() {
	rootCmd.AddCommand(signalCmd)
	signalCmd.AddCommand(signalGenerateCmd)
}

func runSignalGenerate(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		if err := requireRole(a, core.RoleOwner); err != nil {
			return err
		}

		sig, msg, err := a.client.GenerateSignal(ctx, args[0])
		if err != nil {
			return err
		}
		if sig == nil {
			fmt.Println(msg)
			return nil
		}

		fmt.Printf("%s %s @ %.2f  [%s, confidence %d%%]\n",
			sig.Direction, sig.Symbol, sig.EntryPrice, sig.Status, sig.Confidence)
		fmt.Printf("  SL %.2f  TP1 %.2f  TP2 %.2f  TP3 %.2f\n",
			sig.StopLoss, sig.TP1, sig.TP2, sig.TP3)
		return nil
	})
}
