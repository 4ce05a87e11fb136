// Package cli wires the pearlcard command line: the HTTP server and a few
// terminal views over the fare service.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	intconfig "pearlcard/internal/config"
	"pearlcard/internal/utils"
)

var version = "dev"

// NewRootCmd builds the command tree. Each call binds fresh flags to the
// global viper instance.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "pearlcard",
		Short:         "PearlCard journey portal",
		Long:          "PearlCard journey portal: fare calculation front end and journey history views over the remote fare service.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "json", "log format (json, console)")
	root.PersistentFlags().String("fare-service-url", "", "fare service base URL (overrides FARE_SERVICE_URL)")

	v := viper.GetViper()
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", root.PersistentFlags().Lookup("log-format"))
	_ = v.BindPFlag("fare_service_url", root.PersistentFlags().Lookup("fare-service-url"))

	root.AddCommand(serveCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(zonesCmd())
	root.AddCommand(rulesCmd())
	return root
}

func initConfig(cfgFile string) error {
	v := viper.GetViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		v.SetConfigName("pearlcard")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("failed to read config: %w", err)
			}
		}
	}
	intconfig.SetDefaults(v)

	logger, err := utils.NewLogger(v.GetString("log_level"), v.GetString("log_format"))
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	utils.SetLogger(logger)
	return nil
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	_ = utils.Logger().Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
