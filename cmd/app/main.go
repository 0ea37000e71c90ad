package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"telegram-promo-gate/internal/application"
	"telegram-promo-gate/internal/config"
	tele "telegram-promo-gate/internal/infra/adapters/telegram"
	"telegram-promo-gate/internal/infra/logging"
	"telegram-promo-gate/internal/infra/metrics"
	"telegram-promo-gate/internal/infra/sched"
	storage "telegram-promo-gate/internal/infra/storage/file"
	"telegram-promo-gate/internal/infra/web"
	"telegram-promo-gate/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log)
	metrics.MustRegister()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Transport ----
	bot, err := tele.NewRealBotAdapter(cfg.Bot.Token, 4, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram connect failed")
	}

	// ---- Registry ----
	users := storage.NewUserRepo(cfg.Storage.Path, logger)

	// ---- Use cases ----
	links := usecase.Links{
		BaseURL:    cfg.Web.BaseURL,
		ClothesURL: cfg.Web.ClothesURL,
		TechURL:    cfg.Web.TechURL,
	}
	membership := usecase.NewMembershipUseCase(cfg.Bot.Channels, bot, logger)
	gate := usecase.NewGateUseCase(users, membership, cfg.Bot.Channels, links, logger)
	broadcast := usecase.NewBroadcastUseCase(users, membership, bot, links, logger)

	bot.SetFacade(application.NewBotFacade(gate, links))

	// ---- Web ----
	srv := web.NewServer(broadcast, cfg.Admin.Token, logger)

	// ---- Promo scheduler ----
	interval := time.Duration(cfg.Promo.IntervalMinutes) * time.Minute
	var promo *sched.PromoWorker
	if sched.Enabled(interval, cfg.Admin.Token) {
		promo = sched.NewPromoWorker(interval, cfg.Promo.Messages, broadcast, logger)
		if err := promo.Start(ctx); err != nil {
			logger.Fatal().Err(err).Msg("promo scheduler failed to start")
		}
	} else {
		logger.Info().Msg("promo scheduler disabled")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := bot.StartPolling(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return srv.Start(cfg.Web.Port)
	})
	g.Go(func() error {
		<-ctx.Done()
		bot.StopPolling()
		if promo != nil {
			promo.Stop()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("shutdown with error")
	}
	logger.Info().Msg("bye")
}
