package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/auctiondraft/internal/catalog"
	catalogfile "github.com/kiliankoe/auctiondraft/internal/catalog/file"
	"github.com/kiliankoe/auctiondraft/internal/catalog/pokeapi"
	"github.com/kiliankoe/auctiondraft/internal/config"
	"github.com/kiliankoe/auctiondraft/internal/game"
	"github.com/kiliankoe/auctiondraft/internal/httpapi"
	"github.com/kiliankoe/auctiondraft/internal/report"
	"github.com/kiliankoe/auctiondraft/internal/ws"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"golang.org/x/sync/errgroup"
)

var version = "dev" // Set at build time via -ldflags

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`auctiondraft - Multiplayer auction draft server

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                     Port to listen on (default: 8080)
  HOST_USER, HOST_PASS     Basic auth for creating sessions (optional)
  DEFAULT_STARTING_BUDGET  Budget per participant (default: 1000)
  DEFAULT_MAX_SLOTS        Roster size (default: 6)
  MIN_OPENING_BID          Opening bid and nomination threshold (default: 50)
  RAISE_INCREMENT          Bid step (default: 25)
  LOG_TAIL                 Activity entries shown in snapshots (default: 15)
  SESSION_IDLE_TTL         Evict sessions idle this long, 0 disables (default: 0)
  SESSION_SWEEP_INTERVAL   How often to look for idle sessions (default: 1m)
  CATALOG_SOURCE           "pokeapi", "file" or "none" (default: pokeapi)
  CATALOG_URL              PokeAPI base URL (default: https://pokeapi.co)
  CATALOG_FILE             Item list, one per line (CATALOG_SOURCE=file)
  EXPORT_ENABLED           Append results of finished drafts to a file (default: false)
  EXPORT_FILE              Path for exported results (default: ./draft-results.txt)
  ENV                      "development" enables debug logging

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("auctiondraft %s\n", version)
		return
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	cfg, err := config.Load()
	if err != nil {
		zerologlog.Fatal().Err(err).Msg("config validation failed")
	}
	if *portFlag != "" {
		cfg.Port = *portFlag
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.IsDevelopment() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	injector := setupDI(cfg)
	if err := run(cfg, injector); err != nil {
		zerologlog.Fatal().Err(err).Msg("server failed")
	}
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	switch cfg.CatalogSource {
	case config.CatalogPokeAPI:
		pokeapi.RegisterDI(injector)
	case config.CatalogFile:
		catalogfile.RegisterDI(injector)
	default:
		do.ProvideValue[catalog.Provider](injector, catalog.None{})
	}
	do.Provide(injector, loadCatalog)
	report.RegisterDI(injector)
	game.RegisterDI(injector)
	ws.RegisterDI(injector)

	return injector
}

// loadCatalog fetches the item list once. Any failure degrades to free-text
// nominations rather than stopping the server.
func loadCatalog(i do.Injector) (*catalog.Catalog, error) {
	cfg := do.MustInvoke[*config.Config](i)
	provider := do.MustInvoke[catalog.Provider](i)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CatalogTimeout)
	defer cancel()
	cat, err := provider.Fetch(ctx)
	if err != nil {
		zerologlog.Warn().Err(err).Str("source", cfg.CatalogSource).Msg("could not load catalog, nominations are free text")
		return catalog.New(nil), nil
	}
	if cat.Len() == 0 {
		zerologlog.Warn().Str("source", cfg.CatalogSource).Msg("catalog is empty, nominations are free text")
		return cat, nil
	}
	zerologlog.Info().Int("items", cat.Len()).Str("source", cfg.CatalogSource).Msg("catalog loaded")
	return cat, nil
}

func run(cfg *config.Config, injector do.Injector) error {
	rm := do.MustInvoke[*game.Registry](injector)
	sock := do.MustInvoke[*ws.Server](injector)
	exporter := do.MustInvoke[*report.Exporter](injector)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("method", c.Request.Method).Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC(), "sessions": rm.Len()})
	})

	io := sock.Mount(r)
	defer io.Close()

	api := httpapi.New(rm, sock, exporter)
	if cfg.HostAuth() {
		api.WithHostAuth(cfg.HostUser, cfg.HostPass)
	}
	api.Register(r)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zerologlog.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		rm.RunJanitor(ctx, cfg.SessionIdleTTL, cfg.SessionSweepInterval, sock.Evicted)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		zerologlog.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
