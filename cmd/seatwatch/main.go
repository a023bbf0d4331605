// Command seatwatch opens a ticket marketplace page in a managed
// browser, scans it for seat listings, and serves the scored results
// over a JSON API and an MCP stdio transport.
//
// Usage:
//
//	seatwatch -config seatwatch.yaml                  # full config
//	seatwatch -url https://www.ticketmaster.co.uk/...  # open and scan one page
//	seatwatch -mcp                                     # serve MCP on stdio
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/seatwatch/prefs"
	"github.com/hazyhaar/seatwatch/scout"
)

const version = "0.3.0"

func main() {
	configPath := flag.String("config", "", "path to seatwatch.yaml config file")
	url := flag.String("url", "", "marketplace event page URL to open")
	vendor := flag.String("vendor", "", "vendor override: ticketmaster, axs, viagogo")
	httpAddr := flag.String("http", "", "JSON API listen address (overrides config)")
	mcpStdio := flag.Bool("mcp", false, "serve MCP tools on stdio")
	scanDur := flag.Duration("duration", 0, "scan safety timeout (overrides config)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *url, *vendor, *httpAddr, *mcpStdio, *scanDur); err != nil {
		logger.Error("seatwatch: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, url, vendor, httpAddr string, mcpStdio bool, scanDur time.Duration) error {
	cfg := scout.Config{}
	if configPath != "" {
		loaded, err := scout.LoadConfigFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if scanDur > 0 {
		cfg.Scan.MaxDuration = scanDur
	}

	var opts []scout.Option
	if cfg.PrefsPath != "" {
		db, err := prefs.Open(cfg.PrefsPath)
		if err != nil {
			return fmt.Errorf("open preferences: %w", err)
		}
		defer db.Close()
		opts = append(opts, scout.WithPrefs(db))
	}

	svc, err := scout.New(cfg, logger, opts...)
	if err != nil {
		return err
	}
	defer svc.Close()

	if url != "" {
		if err := svc.Open(ctx, url, vendor); err != nil {
			return fmt.Errorf("open page: %w", err)
		}
		if err := svc.Scan(ctx); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		// One-shot mode without servers: print the scored listings.
		if !mcpStdio && httpAddr == "" && configPath == "" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(svc.Seats())
		}
	}

	if mcpStdio {
		return runMCP(ctx, logger, svc)
	}
	return runHTTP(ctx, logger, svc, cfg.HTTPAddr)
}

func runHTTP(ctx context.Context, logger *slog.Logger, svc *scout.Service, addr string) error {
	if addr == "" {
		addr = "127.0.0.1:8474"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           svc.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("seatwatch: http listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}

func runMCP(ctx context.Context, logger *slog.Logger, svc *scout.Service) error {
	srv := mcp.NewServer(&mcp.Implementation{Name: "seatwatch", Version: version}, nil)
	svc.RegisterMCP(srv)

	logger.Info("seatwatch: mcp serving on stdio")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
