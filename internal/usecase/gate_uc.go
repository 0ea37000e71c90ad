package usecase

import (
	"context"
	"fmt"

	"telegram-promo-gate/internal/domain/model"
	"telegram-promo-gate/internal/domain/ports/adapter"
	"telegram-promo-gate/internal/domain/ports/repository"
	"telegram-promo-gate/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ GateUseCase = (*gateUC)(nil)

// GateResult is what the bot should show after an entry event.
type GateResult struct {
	User    *model.User
	Member  bool
	Text    string
	Buttons [][]adapter.InlineButton
}

// GateUseCase decides between the shop menu and the subscribe prompt.
type GateUseCase interface {
	Enter(ctx context.Context, id model.Identity) (*GateResult, error)
}

type gateUC struct {
	users      repository.UserRepository
	membership MembershipUseCase
	channels   []string
	links      Links
	log        *zerolog.Logger
}

func NewGateUseCase(
	users repository.UserRepository,
	membership MembershipUseCase,
	channels []string,
	links Links,
	logger *zerolog.Logger,
) *gateUC {
	return &gateUC{
		users:      users,
		membership: membership,
		channels:   channels,
		links:      links,
		log:        logging.Component(logger, "GateUC"),
	}
}

// Enter upserts first so the user holds a token even before passing the gate,
// then verifies membership and builds the matching reply.
func (g *gateUC) Enter(ctx context.Context, id model.Identity) (*GateResult, error) {
	defer logging.TraceDuration(g.log, "GateUC.Enter")()

	user, err := g.users.Upsert(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	if !g.membership.IsMember(ctx, user.TelegramID) {
		return &GateResult{
			User:    user,
			Member:  false,
			Text:    "To use the shop, subscribe to our channels first:",
			Buttons: SubscribeMarkup(g.channels),
		}, nil
	}

	return &GateResult{
		User:    user,
		Member:  true,
		Text:    "Welcome! Choose an action:",
		Buttons: MenuMarkup(g.links, user.Token),
	}, nil
}
