package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/dpr-registry/pkg/api"
	"github.com/hazyhaar/dpr-registry/pkg/config"
	"github.com/hazyhaar/dpr-registry/pkg/metrics"
	"github.com/hazyhaar/dpr-registry/pkg/search"
	"github.com/hazyhaar/dpr-registry/pkg/store"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "dpr",
		Usage:   "Search directory of the members of the Indonesian House of Representatives",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				Value:   "config.yaml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Override the log level (debug, info, warn, error)",
			},
		},
		Before: func(*cli.Context) error {
			// .env is optional
			_ = godotenv.Load()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP and MCP server",
				Action: serveCommand,
			},
			{
				Name:   "import",
				Usage:  "Replace the stored members with the content of a CSV export",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "source",
						Aliases: []string{"s"},
						Usage:   "CSV path or http(s) URL (default: config source)",
					},
					&cli.BoolFlag{
						Name:  "verify",
						Usage: "Print the verification report after a successful import",
					},
				},
			},
			{
				Name:   "verify",
				Usage:  "Print member count, sample rows and faction sizes",
				Action: verifyCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the process logger.
func setup(c *cli.Context) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, nil, err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
		if err := config.Validate(cfg); err != nil {
			return cfg, nil, err
		}
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// lastImport reads the import ledger for the dpr_last_import_* gauges.
func lastImport(st *store.Store) metrics.LastImportFunc {
	return func() (*metrics.LastImport, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		run, err := st.LastRun(ctx)
		if err != nil || run == nil {
			return nil, err
		}
		return &metrics.LastImport{
			RowsImported: run.RowsImported,
			RowsDropped:  run.RowsDropped,
			OK:           run.Status == store.RunOK,
			FinishedAt:   run.FinishedAt,
		}, nil
	}
}

func serveCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	// Startup check: the server runs on an empty store but says so.
	ctx := context.Background()
	if n, err := st.CountMembers(ctx); err != nil {
		logger.Error("database check failed", "path", cfg.DBPath, "error", err)
	} else if n == 0 {
		logger.Warn("database is empty, run the import command", "path", cfg.DBPath)
	} else {
		logger.Info("database ready", "path", cfg.DBPath, "members", n)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	metrics.RegisterLastImport(reg, lastImport(st))

	engine := search.New(st,
		search.WithLogger(logger),
		search.WithMetrics(m),
		search.WithDefaultLimit(cfg.SearchLimit),
	)

	mcpSrv := server.NewMCPServer("dpr-registry", version, server.WithToolCapabilities(false))
	api.RegisterMCPTools(mcpSrv, engine, logger)

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.NewRouter(api.Config{
			Engine:     engine,
			Store:      st,
			SourcePath: cfg.Source,
			Gatherer:   reg,
			MCPServer:  mcpSrv,
			Logger:     logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("dpr listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
