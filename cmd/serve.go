package cmd

import (
	"fmt"

	"github.com/mj1618/formfill/internal/config"
	"github.com/mj1618/formfill/internal/engine"
	"github.com/mj1618/formfill/internal/metrics"
	"github.com/mj1618/formfill/internal/platform"
	"github.com/mj1618/formfill/internal/platform/headless"
	"github.com/mj1618/formfill/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the form-fill engine",
	Long: `Start a Model Context Protocol (MCP) server that exposes the engine as
tools: load a configuration, deliver UI events, pick candidates, switch
profiles and modes, and inspect the dialog.

The last successfully loaded configuration is loaded again at start-up
unless --config names another one.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  formfill serve
  formfill serve --config ./config.xml --watch
  formfill serve --transport streamable-http --port 8080 --metrics-addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().String("config", "", "Configuration to load at start-up")
	serveCmd.Flags().Bool("watch", false, "Reload the configuration when its file changes")
	serveCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	serveCmd.Flags().Bool("system-clipboard", false, "Paste through the desktop clipboard instead of an in-memory one")
	addSourceFlags(serveCmd)
	addEngineFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	watch, _ := cmd.Flags().GetBool("watch")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	legacy, _ := cmd.Flags().GetBool("legacy-input")
	headless.UseSystemClipboard, _ = cmd.Flags().GetBool("system-clipboard")

	provider, err := platform.NewProvider()
	if err != nil {
		return fmt.Errorf("failed to create platform provider: %w", err)
	}
	provider.LegacyInput = legacy

	store, err := openPrefs()
	if err != nil {
		return err
	}

	m := metrics.New()
	opts := getEngineOptions(cmd)
	opts.Metrics = m

	logger := log.Logger
	reports := &server.ReportLog{}
	e := engine.New(provider, store, opts, logger)
	e.SetReportFunc(func(r engine.Report) {
		logger.Info().
			Str("report", string(r.Kind)).
			Strs("packages", r.Packages).
			Int("profiles", r.Profiles).
			Msg("Companion report")
		reports.Record(r)
	})
	stop := startEngine(ctx, e)
	defer stop()

	var src *config.Source
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		s, err := getSource(cmd, path)
		if err != nil {
			return err
		}
		src = &s
		e.LoadConfiguration(s, false)
	} else {
		last, err := e.ReloadLastSource()
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to read preferences")
		}
		src = last
	}

	if watch {
		if src == nil {
			return fmt.Errorf("--watch needs --config or a previously loaded configuration")
		}
		if err := e.Watch(ctx, *src, engine.DefaultReloadDelay); err != nil {
			return err
		}
	}

	srv := server.New(server.NewRunner(e, provider, reports), m, logger)
	return srv.Serve(ctx, server.Config{
		Transport:   transport,
		Port:        port,
		MetricsAddr: metricsAddr,
	})
}
