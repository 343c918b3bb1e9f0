package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "fxpulse",
	Short: "fxpulse - terminal client for the Richgang signal backend",
	Long: `fxpulse is a terminal dashboard for the Richgang FX Indice Killer
signal backend. It keeps a verified session, polls market data and
signals at fixed intervals, and gates owner operations by role.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
