package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:           "scratchpad-server",
	Short:         "Record service for scratchpad sync",
	Version:       fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file")
	flags.String("db", "", "path to the SQLite database")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	_ = v.BindPFlag("db", flags.Lookup("db"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))

	rootCmd.AddCommand(serveCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
