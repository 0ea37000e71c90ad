package application

import (
	"context"
	"fmt"

	"telegram-promo-gate/internal/domain/model"
	"telegram-promo-gate/internal/domain/ports/adapter"
	"telegram-promo-gate/internal/usecase"
)

// BotFacade composes usecases into high-level bot commands. The Telegram
// adapter stays a dumb pipe: it forwards identities in and replies out.
type BotFacade struct {
	Gate  usecase.GateUseCase
	links usecase.Links
}

func NewBotFacade(gate usecase.GateUseCase, links usecase.Links) *BotFacade {
	return &BotFacade{Gate: gate, links: links}
}

// HandleEntry serves /start, /menu and the re-check action: register or
// refresh the user, then gate them into the menu or the subscribe prompt.
func (b *BotFacade) HandleEntry(ctx context.Context, id model.Identity) (*usecase.GateResult, error) {
	res, err := b.Gate.Enter(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("gate entry: %w", err)
	}
	return res, nil
}

// HandleCatalog serves the two static catalog actions.
func (b *BotFacade) HandleCatalog(action string) (string, [][]adapter.InlineButton, bool) {
	switch action {
	case usecase.ActionCatalogClothes:
		return "👕 Our clothing catalog:", [][]adapter.InlineButton{
			{{Text: "Open clothing catalog", URL: b.links.ClothesURL}},
		}, true
	case usecase.ActionCatalogTech:
		return "📱 Our tech catalog:", [][]adapter.InlineButton{
			{{Text: "Open tech catalog", URL: b.links.TechURL}},
		}, true
	}
	return "", nil, false
}
