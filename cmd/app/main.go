package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/MessageStats_Go/internal/bootstrap"
	"github.com/osse101/MessageStats_Go/internal/command"
	"github.com/osse101/MessageStats_Go/internal/config"
	"github.com/osse101/MessageStats_Go/internal/discord"
	"github.com/osse101/MessageStats_Go/internal/handler"
	"github.com/osse101/MessageStats_Go/internal/nickname"
	"github.com/osse101/MessageStats_Go/internal/origin"
	"github.com/osse101/MessageStats_Go/internal/render"
	"github.com/osse101/MessageStats_Go/internal/scheduler"
	"github.com/osse101/MessageStats_Go/internal/server"
	"github.com/osse101/MessageStats_Go/internal/settings"
	"github.com/osse101/MessageStats_Go/internal/stats"
	"github.com/osse101/MessageStats_Go/internal/store"
	"github.com/osse101/MessageStats_Go/internal/worker"
)

// shutdownTimeout bounds the whole graceful shutdown including the final flush.
const shutdownTimeout = 30 * time.Second

// @title MessageStats API
// @version 1.0
// @description Message statistics and leaderboards for Discord guilds.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ValidateEnv(cfg.StorageBackend); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer logFile.Close()

	for _, warning := range cfg.Warnings() {
		slog.Warn(warning)
	}

	if err := run(cfg); err != nil {
		slog.Error("Application failed", "error", err)
		logFile.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}

	bot, err := discord.New(discord.Config{Token: cfg.DiscordToken})
	if err != nil {
		storage.Close()
		return err
	}

	groups := store.New(storage.Groups, store.Config{
		CacheSize: cfg.GroupCacheSize,
		CacheTTL:  cfg.GroupCacheTTL,
	})
	names := nickname.NewResolver(bot, groups, nickname.Config{
		NicknameTTL:  cfg.NicknameCacheTTL,
		NicknameSize: cfg.NicknameCacheSize,
		MemberTTL:    cfg.MemberCacheTTL,
		MemberSize:   cfg.MemberCacheSize,
	})
	settingsSvc := settings.NewService(storage.Settings, cfg.SettingsCacheTTL)
	statsSvc := stats.NewService(groups, names, settingsSvc, stats.Config{Location: loc})
	presenter := render.NewPresenter(render.NewImageRenderer(cfg.RenderDir))
	origins := origin.NewRegistry()

	pushWorker := worker.NewPushWorker(worker.PushConfig{
		Ranks:     statsSvc,
		Settings:  settingsSvc,
		Origins:   origins,
		Sender:    bot,
		Presenter: presenter,
		Location:  loc,
	})

	bot.SetRouter(command.NewRouter(command.Config{
		Stats:     statsSvc,
		Settings:  settingsSvc,
		Presenter: presenter,
		Names:     names,
		Pusher:    pushWorker,
		Origins:   origins,
		Store:     groups,
		Prefixes:  cfg.CommandPrefixes,
	}))

	jobs := worker.NewPool(worker.DefaultPoolWorkers, worker.DefaultPoolQueueSize)
	jobs.Start()
	sched := scheduler.New(jobs)
	sched.Schedule(cfg.FlushInterval, worker.FlushJob{Store: groups})

	srv := server.NewServer(server.Config{
		Port:          cfg.Port,
		APIKey:        cfg.APIKey,
		EnableSwagger: cfg.EnableSwagger,
		Stats:         statsSvc,
		Settings:      settingsSvc,
		Names:         names,
		Checks:        []handler.HealthCheck{storage.Check, bootstrap.DiscordCheck(bot.Connected)},
	})

	components := bootstrap.ShutdownComponents{
		Server:     srv,
		PushWorker: pushWorker,
		StopJobs: func() {
			sched.Stop()
			jobs.Stop()
		},
		Store:   groups,
		Storage: storage,
	}

	if err := bot.Start(); err != nil {
		shutdown(components)
		return err
	}
	components.Bot = bot
	pushWorker.Start()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdown(components)
		return nil
	case err := <-serverErr:
		shutdown(components)
		return err
	}
}

func shutdown(components bootstrap.ShutdownComponents) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(ctx, components)
}
