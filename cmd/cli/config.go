// Package cli provides the command-line interface of the meter exporter.
// This file implements the config inspection commands.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anstrom/meterexporter/internal/config"
)

// configCmd groups the configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect exporter configuration",
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Print the configuration the exporter would run with, after applying
defaults, the config file and METEREXPORTER_* environment variables.`,
	Example: `  meterexporter config show
  METEREXPORTER_SERVER_PORT=9100 meterexporter config show`,
	RunE: runConfigShow,
}

// configValidateCmd checks a config file without starting the server.
var configValidateCmd = &cobra.Command{
	Use:     "validate [file]",
	Short:   "Validate a configuration file",
	Example: `  meterexporter config validate /etc/meterexporter.yaml`,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if path := viper.ConfigFileUsed(); path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", path)
	}
	return renderConfigTable(cmd.OutOrStdout(), cfg)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no config file given")
	}

	if _, err := config.Load(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration OK: %s\n", path)
	return nil
}

// configRows flattens cfg into setting/value pairs.
func configRows(cfg *config.Config) [][]string {
	return [][]string{
		{"server.host", cfg.Server.Host},
		{"server.port", strconv.Itoa(cfg.Server.Port)},
		{"server.read_timeout", cfg.Server.ReadTimeout.String()},
		{"server.write_timeout", cfg.Server.WriteTimeout.String()},
		{"server.idle_timeout", cfg.Server.IdleTimeout.String()},
		{"server.request_timeout", cfg.Server.RequestTimeout.String()},
		{"server.shutdown_timeout", cfg.Server.ShutdownTimeout.String()},
		{"server.max_header_bytes", strconv.Itoa(cfg.Server.MaxHeaderBytes)},
		{"server.trust_proxy_headers", strconv.FormatBool(cfg.Server.TrustProxyHeaders)},
		{"server.cors.enabled", strconv.FormatBool(cfg.Server.CORS.Enabled)},
		{"server.cors.allowed_origins", strings.Join(cfg.Server.CORS.AllowedOrigins, ",")},
		{"server.cors.allowed_methods", strings.Join(cfg.Server.CORS.AllowedMethods, ",")},
		{"server.cors.allowed_headers", strings.Join(cfg.Server.CORS.AllowedHeaders, ",")},
		{"logging.level", cfg.Logging.Level},
		{"logging.format", cfg.Logging.Format},
		{"logging.output", cfg.Logging.Output},
		{"metrics.path", cfg.Metrics.Path},
		{"metrics.go_collector", strconv.FormatBool(cfg.Metrics.GoCollector)},
		{"metrics.process_collector", strconv.FormatBool(cfg.Metrics.ProcessCollector)},
		{"metrics.instrument_http", strconv.FormatBool(cfg.Metrics.InstrumentHTTP)},
	}
}

// renderConfigTable writes cfg as a two-column table.
func renderConfigTable(w io.Writer, cfg *config.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header("Setting", "Value")

	for _, row := range configRows(cfg) {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
	}

	return table.Render()
}
