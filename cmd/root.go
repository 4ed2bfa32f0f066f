package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"globalstack/config"
)

var (
	configPath string
	verbose    bool
	cfg        config.Config
)

// RootCmd is the entry point of the CLI.
var RootCmd = &cobra.Command{
	Use:   "globalstack",
	Short: "Bootstrap the shared proxy, database and cache containers",
	Long: `globalstack provisions and reconciles the shared infrastructure containers
(nginx reverse proxy, MariaDB, Redis) that every site on this host depends on.
It is safe to run repeatedly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		}
		loaded, err := config.LoadConfig(config.New(), configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: search /opt/easyengine and .)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log source locations")
	RootCmd.AddCommand(proxyCmd, serviceCmd, upCmd, statusCmd)
}

// Execute runs the command tree.
func Execute() error {
	return RootCmd.Execute()
}
