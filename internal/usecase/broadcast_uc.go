package usecase

import (
	"context"
	"fmt"
	"strings"

	"telegram-promo-gate/internal/domain"
	"telegram-promo-gate/internal/domain/ports/adapter"
	"telegram-promo-gate/internal/domain/ports/repository"
	"telegram-promo-gate/internal/infra/logging"
	"telegram-promo-gate/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ BroadcastUseCase = (*broadcastUC)(nil)

// BroadcastResult aggregates per-recipient outcomes of one fan-out pass.
// Skipped counts users who failed the membership re-check; they are neither
// sent nor failed.
type BroadcastResult struct {
	Sent    int
	Failed  int
	Skipped int
}

// BroadcastUseCase fans a message out to every registered user, one at a
// time, with per-recipient failure isolation.
type BroadcastUseCase interface {
	Broadcast(ctx context.Context, text string, opts adapter.SendOptions) (BroadcastResult, error)
}

type broadcastUC struct {
	users      repository.UserRepository
	membership MembershipUseCase
	bot        adapter.TelegramBotAdapter
	links      Links
	log        *zerolog.Logger
}

func NewBroadcastUseCase(
	users repository.UserRepository,
	membership MembershipUseCase,
	bot adapter.TelegramBotAdapter,
	links Links,
	logger *zerolog.Logger,
) *broadcastUC {
	return &broadcastUC{
		users:      users,
		membership: membership,
		bot:        bot,
		links:      links,
		log:        logging.Component(logger, "BroadcastUC"),
	}
}

// Broadcast iterates a point-in-time snapshot of the registry in order.
// Each recipient gets a fresh membership check; non-members are skipped,
// transport errors are counted and the pass continues. No retries, no
// parallel sends: one message is awaited before the next begins.
func (uc *broadcastUC) Broadcast(ctx context.Context, text string, opts adapter.SendOptions) (BroadcastResult, error) {
	defer logging.TraceDuration(uc.log, "BroadcastUC.Broadcast")()

	if strings.TrimSpace(text) == "" {
		return BroadcastResult{}, domain.ErrEmptyText
	}

	snapshot, err := uc.users.List(ctx)
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("list users: %w", err)
	}

	var res BroadcastResult
	for _, u := range snapshot {
		if !uc.membership.IsMember(ctx, u.TelegramID) {
			res.Skipped++
			metrics.IncBroadcastMessage("skipped")
			continue
		}
		markup := MenuMarkup(uc.links, u.Token)
		if err := uc.bot.SendButtons(ctx, u.TelegramID, text, markup, opts); err != nil {
			uc.log.Warn().Err(err).Int64("tg_id", u.TelegramID).Msg("broadcast send failed")
			res.Failed++
			metrics.IncBroadcastMessage("failed")
			continue
		}
		res.Sent++
		metrics.IncBroadcastMessage("sent")
	}

	uc.log.Info().
		Int("sent", res.Sent).
		Int("failed", res.Failed).
		Int("skipped", res.Skipped).
		Msg("broadcast pass finished")
	return res, nil
}
