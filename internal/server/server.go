// Package server exposes a running engine to agents over MCP and runs
// scripted steps against it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/formfill/internal/metrics"
	"github.com/mj1618/formfill/internal/version"
	"github.com/rs/zerolog"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	// MetricsAddr serves Prometheus metrics when set, e.g. ":9090".
	MetricsAddr string
}

// Server wraps the MCP server around a step Runner.
type Server struct {
	runner  *Runner
	metrics *metrics.Metrics
	logger  zerolog.Logger
	mcp     *mcpserver.MCPServer

	// Steps are serialized so each tool result carries only its own effects.
	mu sync.Mutex
}

// New creates an MCP server with all formfill tools.
func New(runner *Runner, m *metrics.Metrics, logger zerolog.Logger) *Server {
	s := &Server{
		runner:  runner,
		metrics: m,
		logger:  logger.With().Str("component", "mcp").Logger(),
	}
	s.mcp = mcpserver.NewMCPServer("formfill", version.Version)
	s.registerTools()
	return s
}

// Serve runs the configured transport until it stops or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, cfg Config) error {
	if cfg.MetricsAddr != "" && s.metrics != nil {
		stop := s.serveMetrics(cfg.MetricsAddr)
		defer stop()
	}

	switch cfg.Transport {
	case "stdio":
		s.logger.Info().Msg("Serving MCP on stdio")
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		addr := fmt.Sprintf(":%d", cfg.Port)
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		errCh := make(chan error, 1)
		go func() { errCh <- httpServer.Start(addr) }()
		s.logger.Info().Str("addr", addr).Msg("Serving MCP over streamable HTTP")
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		}
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Str("addr", addr).Msg("Metrics server failed")
		}
	}()
	s.logger.Info().Str("addr", addr).Msg("Serving metrics")
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("load_configuration",
			mcp.WithDescription("Load an XML form-fill configuration. Clears the previous configuration first."),
			mcp.WithString("path", mcp.Required(), mcp.Description("File path, file:// or http(s):// URI, or asset name")),
			mcp.WithString("kind", mcp.Description("Source kind: uri (default), external, assets")),
			mcp.WithBoolean("show-success", mcp.Description("Show a notification when loading succeeds (default true)")),
		),
		s.stepHandler("load"),
	)

	s.mcp.AddTool(
		mcp.NewTool("ui_event",
			mcp.WithDescription("Deliver a UI event for a field of a host app. Matching fields show the candidate dialog."),
			mcp.WithString("package", mcp.Required(), mcp.Description("Package name of the app that produced the event")),
			mcp.WithString("kind", mcp.Description("Event kind: click (default), long-click, focus")),
			mcp.WithString("field", mcp.Description("Field id; the view id is built as <package>:id/<field>")),
			mcp.WithString("view-id", mcp.Description("Fully qualified view id of the source node")),
			mcp.WithString("bbox", mcp.Description("Source node bounds as x,y,w,h")),
			mcp.WithString("text", mcp.Description("Current text of the source node")),
		),
		s.stepHandler("event"),
	)

	s.mcp.AddTool(
		mcp.NewTool("select_candidate",
			mcp.WithDescription("Commit a listed candidate into the focused field"),
			mcp.WithNumber("index", mcp.Required(), mcp.Description("Row index in the dialog")),
			mcp.WithBoolean("paste", mcp.Description("Deliver the value through the clipboard")),
		),
		s.stepHandler("select"),
	)

	s.mcp.AddTool(
		mcp.NewTool("remove_candidate",
			mcp.WithDescription("Forget a remembered entry listed in the dialog"),
			mcp.WithNumber("index", mcp.Required(), mcp.Description("Row index in the dialog")),
		),
		s.stepHandler("remove"),
	)

	s.mcp.AddTool(
		mcp.NewTool("select_next_profile",
			mcp.WithDescription("Advance the selection to the next profile"),
		),
		s.stepHandler("next-profile"),
	)

	s.mcp.AddTool(
		mcp.NewTool("set_fast_mode",
			mcp.WithDescription("Enable or disable fast mode. Without 'enabled' the mode is toggled."),
			mcp.WithBoolean("enabled", mcp.Description("Fast mode on or off")),
		),
		s.stepHandler("fast-mode"),
	)

	s.mcp.AddTool(
		mcp.NewTool("hide_dialog",
			mcp.WithDescription("Close the candidate dialog"),
		),
		s.stepHandler("hide"),
	)

	s.mcp.AddTool(
		mcp.NewTool("resend_packages",
			mcp.WithDescription("Report the package names of the loaded configuration again"),
		),
		s.stepHandler("resend-packages"),
	)

	s.mcp.AddTool(
		mcp.NewTool("number_of_profiles",
			mcp.WithDescription("Report the number of profiles in the loaded configuration"),
		),
		s.stepHandler("profiles"),
	)

	s.mcp.AddTool(
		mcp.NewTool("status",
			mcp.WithDescription("Show the dialog state, listed candidates, profiles and remembered entries"),
		),
		s.stepHandler("status"),
	)

	s.mcp.AddTool(
		mcp.NewTool("variables",
			mcp.WithDescription("Resolve variable keys such as device_model or random_email"),
			mcp.WithString("keys", mcp.Description("Comma-separated keys; all keys when empty")),
		),
		s.handleVariables,
	)
}
