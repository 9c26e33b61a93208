package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/linkring/linkring/internal/board"
	"github.com/linkring/linkring/internal/config"
	"github.com/linkring/linkring/internal/httpserver"
	"github.com/linkring/linkring/internal/httpserver/deps"
	"github.com/linkring/linkring/internal/identity"
	"github.com/linkring/linkring/internal/logger"
	"github.com/linkring/linkring/internal/notice"
	"github.com/linkring/linkring/internal/redis"
	"github.com/linkring/linkring/internal/replica"
	"github.com/linkring/linkring/internal/scheduler"
	"github.com/linkring/linkring/internal/session"
	redisstore "github.com/linkring/linkring/internal/store/redis"
	syncer "github.com/linkring/linkring/internal/sync"
	"github.com/linkring/linkring/internal/version"
)

type App struct {
	cfg          *config.Config
	logger       logger.Logger
	server       *httpserver.Server
	redisClient  *goredis.Client
	board        *replica.Board
	watcher      *syncer.BoardWatcher
	sessions     *session.Manager
	seedReloader *scheduler.SeedReloader
	reaper       *scheduler.SessionReaper
	baseCancel   context.CancelFunc
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)

	// Shared board replica, kept fresh by the board watcher
	boardReplica := replica.NewBoard()

	// Live user sessions; each carries a profile watcher and notices
	sessions := session.NewManager(store, loggerClient, cfg.NoticeTTL)

	watcher := syncer.NewBoardWatcher(store, boardReplica, loggerClient,
		func() { sessions.NotifyAll() },
		func(err error) {
			loggerClient.Error("board sync lost", logger.Error(err))
			sessions.PostAll("Failed to load links.", notice.Error)
		},
	)

	boardSvc := board.New(store, boardReplica, loggerClient)

	identityProvider := identity.NewProvider(cfg.AuthSecret, loggerClient)

	// Initialize seed reloader (if a seed file is configured)
	var seedReloader *scheduler.SeedReloader
	var seedTrigger chan struct{}
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, initializing seed reloader",
			logger.String("file", cfg.SeedFile))
		seedTrigger = make(chan struct{}, 1)
		seedReloader = scheduler.NewSeedReloader(
			cfg.SeedFile,
			store,
			loggerClient,
			cfg.SeedInterval,
			seedTrigger,
		)
	} else {
		loggerClient.Info("seed file not configured, starter links disabled")
	}

	reaper := scheduler.NewSessionReaper(sessions, loggerClient, cfg.ReapInterval, cfg.SessionIdleTTL)

	// Session watchers outlive any single request, so they hang off an
	// app-lifetime context cancelled on shutdown.
	baseCtx, baseCancel := context.WithCancel(context.Background())

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		AllowedHosts:      cfg.AllowedHosts,
		TrustProxy:        cfg.TrustProxy,
		BaseCtx:           baseCtx,
		RedisClient:       redisClient,
		Store:             store,
		Board:             boardReplica,
		BoardSvc:          boardSvc,
		Sessions:          sessions,
		Identity:          identityProvider,
		SeedReloadTrigger: seedTrigger,
		RateBurst:         cfg.RateBurst,
		RateRefillMin:     cfg.RateRefillMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:          cfg,
		logger:       loggerClient,
		server:       server,
		redisClient:  redisClient,
		board:        boardReplica,
		watcher:      watcher,
		sessions:     sessions,
		seedReloader: seedReloader,
		reaper:       reaper,
		baseCancel:   baseCancel,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Linkring v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Linkring %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stock the board before the first sync so members never see an
	// empty board on a fresh install.
	if a.seedReloader != nil {
		if err := a.seedReloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start seed reloader: %w", err)
		}
		a.logger.Info("seed reloader started",
			logger.Duration("interval", a.cfg.SeedInterval))
	}

	// Start the board watcher (initial sync plus change subscription)
	if err := a.watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start board watcher: %w", err)
	}
	a.logger.Info("board watcher started",
		logger.Int("links", a.board.Count()))

	// Start session reaper
	if err := a.reaper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session reaper: %w", err)
	}
	a.logger.Info("session reaper started",
		logger.Duration("interval", a.cfg.ReapInterval),
		logger.Duration("idle_ttl", a.cfg.SessionIdleTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.watcher.Stop()

	if a.seedReloader != nil {
		a.seedReloader.Stop()
	}

	a.reaper.Stop()

	// Tear down session watchers before the server stops accepting
	a.baseCancel()
	a.sessions.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Linkring stopped cleanly")
	return nil
}
