// Package sched owns the recurring promo broadcast job.
package sched

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"telegram-promo-gate/internal/domain/ports/adapter"
	"telegram-promo-gate/internal/infra/logging"
	"telegram-promo-gate/internal/infra/metrics"
	"telegram-promo-gate/internal/usecase"
)

// Enabled reports whether the promo scheduler should be armed at all.
// The admin token doubles as the switch for every broadcast feature.
func Enabled(interval time.Duration, adminToken string) bool {
	return interval > 0 && adminToken != ""
}

// PromoWorker fires a silent broadcast with a random promo message at a
// fixed interval. Missed ticks are never replayed.
type PromoWorker struct {
	cron        *cron.Cron
	interval    time.Duration
	messages    []string
	broadcaster usecase.BroadcastUseCase
	log         *zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewPromoWorker(interval time.Duration, messages []string, broadcaster usecase.BroadcastUseCase, logger *zerolog.Logger) *PromoWorker {
	return &PromoWorker{
		cron:        cron.New(),
		interval:    interval,
		messages:    messages,
		broadcaster: broadcaster,
		log:         logging.Component(logger, "PromoWorker"),
	}
}

// Start arms the recurring job. Returns an error if the worker has nothing
// to do (no messages) or the spec cannot be registered.
func (w *PromoWorker) Start(ctx context.Context) error {
	if len(w.messages) == 0 {
		return fmt.Errorf("promo pool is empty")
	}
	w.ctx, w.cancel = context.WithCancel(ctx)

	spec := fmt.Sprintf("@every %ds", int(w.interval.Seconds()))
	if _, err := w.cron.AddFunc(spec, func() { w.runOnce(w.ctx) }); err != nil {
		return fmt.Errorf("register promo job: %w", err)
	}
	w.cron.Start()
	w.log.Info().Dur("interval", w.interval).Int("pool", len(w.messages)).Msg("promo scheduler armed")
	return nil
}

// Stop halts the cron and waits for a running tick to finish.
func (w *PromoWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	<-w.cron.Stop().Done()
	w.log.Info().Msg("promo scheduler stopped")
}

// runOnce is one tick: pick a message uniformly at random and fan out
// silently. The aggregate is fire-and-forget, failures are log-only.
func (w *PromoWorker) runOnce(ctx context.Context) {
	msg := w.messages[rand.Intn(len(w.messages))]
	res, err := w.broadcaster.Broadcast(ctx, msg, adapter.SendOptions{Silent: true})
	if err != nil {
		w.log.Error().Err(err).Msg("promo broadcast failed")
		return
	}
	metrics.IncBroadcastRun("promo")
	w.log.Info().
		Int("sent", res.Sent).
		Int("failed", res.Failed).
		Int("skipped", res.Skipped).
		Msg("promo broadcast finished")
}
