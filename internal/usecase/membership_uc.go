package usecase

import (
	"context"

	"telegram-promo-gate/internal/domain/ports/adapter"
	"telegram-promo-gate/internal/infra/logging"
	"telegram-promo-gate/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ MembershipUseCase = (*membershipUC)(nil)

// MembershipUseCase verifies a user against the full required-channel set.
type MembershipUseCase interface {
	// IsMember never returns an error: any failure to resolve a channel's
	// status counts as not-a-member (fail-closed).
	IsMember(ctx context.Context, telegramID int64) bool
}

type membershipUC struct {
	channels []string
	bot      adapter.TelegramBotAdapter
	log      *zerolog.Logger
}

func NewMembershipUseCase(channels []string, bot adapter.TelegramBotAdapter, logger *zerolog.Logger) *membershipUC {
	return &membershipUC{
		channels: channels,
		bot:      bot,
		log:      logging.Component(logger, "MembershipUC"),
	}
}

func (m *membershipUC) IsMember(ctx context.Context, telegramID int64) bool {
	// Empty required set means the gate is disabled.
	if len(m.channels) == 0 {
		return true
	}
	// Short-circuit on the first negative: once one check fails the user is
	// out, remaining channels are not queried.
	for _, ch := range m.channels {
		status, err := m.bot.ChatMember(ctx, ch, telegramID)
		if err != nil {
			m.log.Warn().Err(err).Str("channel", ch).Int64("tg_id", telegramID).
				Msg("chat member lookup failed; treating as not subscribed")
			metrics.IncMembershipCheck("error")
			return false
		}
		if !status.Subscribed() {
			metrics.IncMembershipCheck("denied")
			return false
		}
	}
	metrics.IncMembershipCheck("member")
	return true
}
