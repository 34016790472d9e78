// Package cli provides the command-line interface of the meter exporter.
// This file implements the serve command.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/anstrom/meterexporter/internal/api"
	"github.com/anstrom/meterexporter/internal/logging"
)

// serveCmd runs the exporter in the foreground.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the exporter",
	Long: `Run the meter exporter HTTP server in the foreground.

Readings are accepted on /ht_meter, /building_readings, /tank_level and
/tank_volume and exposed on the metrics path. The server shuts down
gracefully on SIGINT or SIGTERM.`,
	Example: `  meterexporter serve
  meterexporter serve --port 9100
  METEREXPORTER_LOGGING_LEVEL=debug meterexporter serve --config /etc/meterexporter.yaml`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd.Flags(), serveFlagBindings)
	},
	RunE: runServe,
}

// serveFlagBindings maps serve flags to configuration keys.
var serveFlagBindings = map[string]string{
	"host":         "server.host",
	"port":         "server.port",
	"metrics-path": "metrics.path",
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "Override listen host")
	serveCmd.Flags().Int("port", 0, "Override listen port")
	serveCmd.Flags().String("metrics-path", "", "Override metrics exposition path")
}

// bindFlags binds each flag that was set on the command line to its
// configuration key so it takes precedence over file and environment.
func bindFlags(fs *pflag.FlagSet, bindings map[string]string) error {
	var bindErr error
	fs.Visit(func(f *pflag.Flag) {
		key, ok := bindings[f.Name]
		if !ok || bindErr != nil {
			return
		}
		if err := viper.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

// runServe handles the serve command.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.Default()
	logger.Info("Starting meter exporter",
		"version", version,
		"commit", commit,
		"build_time", buildTime,
		"address", cfg.Address())

	server, err := api.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Error("Server exited with error")
		return err
	}

	logger.Info("Meter exporter stopped")
	return nil
}
