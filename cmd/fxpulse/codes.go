package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/richgang/fxpulse/internal/core"
	"github.com/richgang/fxpulse/internal/view"
	"github.com/spf13/cobra"
)

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Manage client access codes (owner only)",
}

var codesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List access codes",
	RunE:  runCodesList,
}

var codesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a named access code",
	Args:  cobra.ExactArgs(1),
	RunE:  runCodesCreate,
}

var codesRevokeCmd = &cobra.Command{
	Use:   "revoke <id>",
	Short: "Revoke an access code",
	Args:  cobra.ExactArgs(1),
	RunE:  runCodesRevoke,
}

func init() {
	rootCmd.AddCommand(codesCmd)
	codesCmd.AddCommand(codesListCmd)
	codesCmd.AddCommand(codesCreateCmd)
	codesCmd.AddCommand(codesRevokeCmd)
}

func withCodes(fn func(ctx context.Context, codes *view.Codes) error) error {
	return withApp(func(ctx context.Context, a *app) error {
		if err := requireRole(a, core.RoleOwner); err != nil {
			return err
		}
		return fn(ctx, view.NewCodes(a.client, a.log))
	})
}

func runCodesList(cmd *cobra.Command, args []string) error {
	return withCodes(func(ctx context.Context, codes *view.Codes) error {
		list, err := codes.Refresh(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No access codes.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCODE\tACTIVE\tLAST USED\t")
		for _, c := range list {
			lastUsed := "never"
			if c.LastUsed != nil {
				lastUsed = c.LastUsed.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\t\n", c.ID, c.Name, c.Code, c.IsActive, lastUsed)
		}
		return w.Flush()
	})
}

func runCodesCreate(cmd *cobra.Command, args []string) error {
	return withCodes(func(ctx context.Context, codes *view.Codes) error {
		created, err := codes.Create(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created access code for %s: %s\n", created.Name, created.Code)
		return nil
	})
}

func runCodesRevoke(cmd *cobra.Command, args []string) error {
	return withCodes(func(ctx context.Context, codes *view.Codes) error {
		if err := codes.Revoke(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("Access code revoked.")
		return nil
	})
}
