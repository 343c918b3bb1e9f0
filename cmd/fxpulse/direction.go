package main

import (
	"context"
	"fmt"

	"github.com/richgang/fxpulse/internal/core"
	"github.com/spf13/cobra"
)

var directionCmd = &cobra.Command{
	Use:   "direction",
	Short: "Show the global direction lock",
	RunE:  runDirection,
}

var directionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the direction lock to NEUTRAL (owner only)",
	RunE:  runDirectionReset,
}

func init() {
	rootCmd.AddCommand(directionCmd)
	directionCmd.AddCommand(directionResetCmd)
}

func runDirection(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		if err := requireRole(a, ""); err != nil {
			return err
		}

		state, err := a.client.Direction(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Direction: %s\n", state.CurrentDirection)
		if state.LockedAt != nil {
			fmt.Printf("Locked at: %s\n", state.LockedAt.Format("2006-01-02 15:04:05 MST"))
		}
		if state.Reason != "" {
			fmt.Printf("Reason: %s\n", state.Reason)
		}
		return nil
	})
}

func runDirectionReset(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		if err := requireRole(a, core.RoleOwner); err != nil {
			return err
		}

		if err := a.client.ResetDirection(ctx); err != nil {
			return err
		}
		fmt.Println("Direction reset to NEUTRAL.")
		return nil
	})
}
