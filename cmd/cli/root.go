// Package cli provides the command-line interface of the meter exporter.
// This package implements the Cobra-based CLI structure with commands for
// running the exporter and inspecting its configuration.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anstrom/meterexporter/internal/config"
	"github.com/anstrom/meterexporter/internal/logging"
)

// envPrefix namespaces environment overrides, e.g. METEREXPORTER_SERVER_PORT.
const envPrefix = "METEREXPORTER"

var (
	cfgFile string
	verbose bool

	// configErr is set by initConfig and surfaced before any command runs.
	configErr error
)

// Build information - these will be set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "meterexporter",
	Short: "Energy meter and tank Prometheus exporter",
	Long: `meterexporter accepts energy meter and tank readings over HTTP and
exposes them as Prometheus gauges for scraping.`,
	Version:       getVersion(),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configErr
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind verbose flag: %v\n", err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configErr = readConfig(cfgFile)
	if configErr == nil && verbose && viper.ConfigFileUsed() != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	initLogging()
}

// readConfig sets up viper and reads the config file. A file named with
// --config must be readable; the implicit ./config.yaml may be absent.
func readConfig(path string) error {
	setupViper(path)

	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if path == "" && errors.As(err, &notFound) {
		return nil
	}
	if path == "" {
		path = "config.yaml"
	}
	return fmt.Errorf("failed to read config file %s: %w", path, err)
}

// setupViper points viper at the config file and environment.
func setupViper(path string) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setConfigDefaults()
}

// setConfigDefaults registers every configuration key with its default so
// that environment variables can override any of them.
func setConfigDefaults() {
	d := config.Default()

	viper.SetDefault("server.host", d.Server.Host)
	viper.SetDefault("server.port", d.Server.Port)
	viper.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	viper.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	viper.SetDefault("server.idle_timeout", d.Server.IdleTimeout)
	viper.SetDefault("server.request_timeout", d.Server.RequestTimeout)
	viper.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	viper.SetDefault("server.max_header_bytes", d.Server.MaxHeaderBytes)
	viper.SetDefault("server.trust_proxy_headers", d.Server.TrustProxyHeaders)
	viper.SetDefault("server.cors.enabled", d.Server.CORS.Enabled)
	viper.SetDefault("server.cors.allowed_origins", d.Server.CORS.AllowedOrigins)
	viper.SetDefault("server.cors.allowed_methods", d.Server.CORS.AllowedMethods)
	viper.SetDefault("server.cors.allowed_headers", d.Server.CORS.AllowedHeaders)

	viper.SetDefault("logging.level", d.Logging.Level)
	viper.SetDefault("logging.format", d.Logging.Format)
	viper.SetDefault("logging.output", d.Logging.Output)

	viper.SetDefault("metrics.path", d.Metrics.Path)
	viper.SetDefault("metrics.go_collector", d.Metrics.GoCollector)
	viper.SetDefault("metrics.process_collector", d.Metrics.ProcessCollector)
	viper.SetDefault("metrics.instrument_http", d.Metrics.InstrumentHTTP)
}

// loadConfig builds the effective configuration from defaults, the config
// file, environment variables and bound flags.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// getVersion returns the version string.
func getVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime)
}

// SetVersion sets the version information (called from main).
func SetVersion(v, c, bt string) {
	version = v
	commit = c
	buildTime = bt
	rootCmd.Version = getVersion()
}

// initLogging initializes structured logging based on configuration.
func initLogging() {
	cfg, err := loadConfig()
	if err != nil {
		logging.SetDefault(logging.NewDefault())
		return
	}

	logConfig := logging.Config{
		Level:     logging.LogLevel(cfg.Logging.Level),
		Format:    logging.LogFormat(cfg.Logging.Format),
		Output:    cfg.Logging.Output,
		AddSource: cfg.Logging.Level == "debug",
	}

	logger, err := logging.New(logConfig)
	if err != nil {
		logging.SetDefault(logging.NewDefault())
		logging.Warn("Failed to initialize logging, using defaults", "error", err)
		return
	}

	logging.SetDefault(logger)

	if verbose {
		logging.Info("Structured logging initialized", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	}
}
