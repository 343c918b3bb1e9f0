package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <access-code>",
	Short: "Exchange an access code for a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity behind the stored token",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		id, err := a.session.Login(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (%s)\n", id.Name, id.Role)
		return nil
	})
}

func runLogout(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		a.session.Logout()
		fmt.Println("Logged out.")
		return nil
	})
}

func runWhoami(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		id, ok := a.session.Identity()
		if !ok {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("%s (%s)\n", id.Name, id.Role)
		return nil
	})
}
