package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/trendscope/pkg/config"
	"github.com/umputun/trendscope/pkg/dashboard"
	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/events"
	"github.com/umputun/trendscope/pkg/favorites"
	"github.com/umputun/trendscope/pkg/highlights"
	"github.com/umputun/trendscope/pkg/quota"
	"github.com/umputun/trendscope/pkg/repository"
	"github.com/umputun/trendscope/pkg/resolver"
	"github.com/umputun/trendscope/pkg/scheduler"
	"github.com/umputun/trendscope/pkg/youtube"
	"github.com/umputun/trendscope/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"configuration file, defaults apply without it"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
	DB     string `long:"db" env:"DB" description:"database dsn, overrides config"`
	APIKey string `long:"api-key" env:"YOUTUBE_API_KEY" description:"youtube data api key, seeds storage if none is stored"`
	Once   bool   `long:"once" description:"refresh expired favorites once and exit"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	color.NoColor = color.NoColor || opts.NoColor
	setupLog(opts.Debug, opts.APIKey)

	lgr.Printf("[INFO] starting trendscope version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	lgr.Print("[INFO] shutdown complete")
}

// run wires the components and serves until ctx is done, or refreshes once with --once
func run(ctx context.Context, opts Opts) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			lgr.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	app := newApp(ctx, cfg, repos)

	if opts.Once {
		lgr.Printf("[INFO] refreshing expired favorites once")
		if err := app.coordinator.RefreshDue(ctx); err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}
		return nil
	}

	app.coordinator.Start(ctx)
	defer app.coordinator.Stop()

	srv := server.New(server.Params{
		Config:      cfg,
		Favorites:   app.favorites,
		Refresher:   app.coordinator,
		Suggester:   app.resolver,
		Hidden:      app.hidden,
		Quota:       app.quota,
		Credentials: app.client,
		Dashboard:   app.dashboard,
		Events:      app.bus,
	}, revision, opts.Debug)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// app holds the wired components
type app struct {
	bus         *events.Bus
	quota       *quota.Ledger
	client      *youtube.Client
	resolver    *resolver.Resolver
	favorites   *favorites.Store
	hidden      *highlights.Ledger
	coordinator *scheduler.Coordinator
	dashboard   *dashboard.Dashboard
}

// newApp builds the components in dependency order, migrates stored favorites and keeps the
// hidden ledger in sync with the favorites list
func newApp(ctx context.Context, cfg *config.Config, repos *repository.Repositories) *app {
	a := &app{bus: events.NewBus()}
	a.quota = quota.New(repos.Store, a.bus, quota.WithDefaultLimit(cfg.YouTube.DailyQuota))
	a.client = youtube.New(ctx, youtube.Params{
		Store:             repos.Store,
		Quota:             a.quota,
		APIKey:            cfg.YouTube.APIKey,
		Endpoint:          cfg.YouTube.Endpoint,
		RequestsPerSecond: cfg.YouTube.RequestsPerSecond,
		Timeout:           cfg.YouTube.Timeout,
	})
	a.resolver = resolver.New(a.client, repos.Store, nil)
	a.favorites = favorites.New(repos.Store, a.bus, nil)
	a.hidden = highlights.NewLedger(repos.Store, a.bus, nil)
	a.dashboard = dashboard.New(repos.Store, a.favorites, nil)
	a.coordinator = scheduler.NewCoordinator(scheduler.Params{
		Resolver:       a.resolver,
		Favorites:      a.favorites,
		Credentials:    a.client,
		Bus:            a.bus,
		CacheTTL:       cfg.Schedule.CacheTTL,
		StaggerDelay:   cfg.Schedule.StaggerDelay,
		UpdateInterval: cfg.Schedule.UpdateInterval,
		CredentialInvalid: func(err error) {
			lgr.Printf("[WARN] api key cleared, set a new one to resume refreshes: %v", err)
		},
	})

	if a.favorites.Migrate(ctx) {
		lgr.Printf("[INFO] stored favorites migrated, favorites cache dropped")
	}

	// hidden videos of removed favorites go away with them
	a.cleanupHidden(ctx)
	a.bus.Subscribe(domain.EventFavoritesChanged, func(events.Event) { a.cleanupHidden(ctx) })

	if cfg.YouTube.APIKey == "" && a.client.APIKey() == "" {
		lgr.Printf("[WARN] no api key configured, set one with --api-key or PUT /api/v1/apikey")
	}
	return a
}

func (a *app) cleanupHidden(ctx context.Context) {
	favs := a.favorites.List(ctx)
	ids := make([]string, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.ID)
	}
	a.hidden.Cleanup(ctx, ids)
}

// loadConfig reads the config file if given, then applies command line overrides
func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, err
		}
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.DB != "" {
		cfg.Database.DSN = opts.DB
	}
	if opts.APIKey != "" {
		cfg.YouTube.APIKey = opts.APIKey
	}
	return cfg, nil
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	nonEmpty := make([]string, 0, len(secs))
	for _, s := range secs {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) > 0 {
		logOpts = append(logOpts, lgr.Secret(nonEmpty...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
