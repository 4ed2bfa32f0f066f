package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"globalstack/config"
)

var serviceContainer string

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Start the shared nginx proxy, or verify its ports if it is running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.run(cmd.Context(), config.ProxyService, a.reconciler.BootProxy)
	},
}

var serviceCmd = &cobra.Command{
	Use:   "service [db|redis|<compose service>]",
	Short: "Start a shared backend service if it is not running",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := serviceName(args[0])
		if service == config.ProxyService {
			return fmt.Errorf("use the proxy command to start %s", service)
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.run(cmd.Context(), service, func(ctx context.Context) error {
			return a.reconciler.BootService(ctx, service, serviceContainer)
		})
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the proxy, database and cache in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.run(cmd.Context(), "all", a.reconciler.BootAll)
	},
}

func init() {
	serviceCmd.Flags().StringVar(&serviceContainer, "container", "", "container name (default: the service's well-known container)")
}

// serviceName accepts short aliases for the shared services.
func serviceName(arg string) string {
	switch strings.ToLower(arg) {
	case "db", "mariadb", "mysql":
		return config.DBService
	case "redis", "cache":
		return config.RedisService
	case "proxy", "nginx-proxy":
		return config.ProxyService
	default:
		return arg
	}
}
