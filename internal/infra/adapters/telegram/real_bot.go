package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-promo-gate/internal/application"
	"telegram-promo-gate/internal/domain/model"
	"telegram-promo-gate/internal/domain/ports/adapter"
	"telegram-promo-gate/internal/infra/logging"
	"telegram-promo-gate/internal/usecase"
)

// Compile-time check
var _ adapter.TelegramBotAdapter = (*RealBotAdapter)(nil)

// RealBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
// It also implements the transport port consumed by the usecases.
type RealBotAdapter struct {
	bot           *tgbotapi.BotAPI
	facade        *application.BotFacade
	log           *zerolog.Logger
	updateWorkers int
	cancelPolling context.CancelFunc
}

// NewRealBotAdapter connects to the Bot API. The facade is wired afterwards
// via SetFacade: the usecases behind the facade consume this adapter as their
// transport, so the adapter has to exist first.
func NewRealBotAdapter(token string, updateWorkers int, logger *zerolog.Logger) (*RealBotAdapter, error) {
	if token == "" {
		return nil, errors.New("bot token is empty")
	}
	if updateWorkers <= 0 {
		updateWorkers = 4
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &RealBotAdapter{
		bot:           bot,
		log:           logging.Component(logger, "TelegramBot"),
		updateWorkers: updateWorkers,
	}, nil
}

func (r *RealBotAdapter) SetFacade(f *application.BotFacade) { r.facade = f }

func (r *RealBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// ---- transport port ----

func (r *RealBotAdapter) SendMessage(ctx context.Context, telegramID int64, text string, opts adapter.SendOptions) error {
	msg := tgbotapi.NewMessage(telegramID, text)
	msg.DisableNotification = opts.Silent
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealBotAdapter) SendButtons(ctx context.Context, telegramID int64, text string, rows [][]adapter.InlineButton, opts adapter.SendOptions) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(telegramID, text)
	msg.DisableNotification = opts.Silent
	msg.ReplyMarkup = buildMarkup(rows)
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealBotAdapter) EditButtons(ctx context.Context, telegramID int64, messageID int, text string, rows [][]adapter.InlineButton) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(telegramID, messageID, text, buildMarkup(rows))
	_, err := r.bot.Send(edit)
	return err
}

func (r *RealBotAdapter) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

// ChatMember resolves a user's status in a channel. The channel may be an
// "@username" or a numeric chat id.
func (r *RealBotAdapter) ChatMember(ctx context.Context, channel string, telegramID int64) (adapter.MemberStatus, error) {
	cfg := tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{UserID: telegramID},
	}
	if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		cfg.ChatID = id
	} else {
		cfg.SuperGroupUsername = channel
	}
	member, err := r.bot.GetChatMember(cfg)
	if err != nil {
		return "", err
	}
	return adapter.MemberStatus(member.Status), nil
}

func buildMarkup(rows [][]adapter.InlineButton) tgbotapi.InlineKeyboardMarkup {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			switch {
			case btn.URL != "":
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL))
			case btn.Data != "":
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(label, btn.Data))
			default:
				// safe fallback: use text as callback data
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(label, label))
			}
		}
		kbRows = append(kbRows, kbRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...)
}

// ---- update routing ----

func (r *RealBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		return r.handleQuery(ctx, update.CallbackQuery)
	}
	if update.Message == nil || update.Message.From == nil {
		return nil
	}
	from := update.Message.From
	id := identityOf(from)

	switch update.Message.Command() {
	case "start", "menu":
		return r.replyGate(ctx, id)
	default:
		// Anything else re-shows the gate so the user is never stuck.
		return r.replyGate(ctx, id)
	}
}

func (r *RealBotAdapter) replyGate(ctx context.Context, id model.Identity) error {
	res, err := r.facade.HandleEntry(ctx, id)
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", id.TelegramID).Msg("gate entry failed")
		return r.SendMessage(ctx, id.TelegramID, "Something went wrong, try again later.", adapter.SendOptions{})
	}
	return r.SendButtons(ctx, id.TelegramID, res.Text, res.Buttons, adapter.SendOptions{})
}

func (r *RealBotAdapter) handleQuery(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.From == nil || cb.Message == nil {
		return nil
	}
	id := identityOf(cb.From)
	chatID := cb.Message.Chat.ID

	switch cb.Data {
	case usecase.ActionCheckSub:
		res, err := r.facade.HandleEntry(ctx, id)
		if err != nil {
			r.log.Error().Err(err).Int64("tg_id", id.TelegramID).Msg("re-check failed")
			return r.AnswerCallback(ctx, cb.ID, "Something went wrong, try again.")
		}
		if !res.Member {
			// Leave the prompt in place, only flash a notice.
			return r.AnswerCallback(ctx, cb.ID, "You are not subscribed yet 😕")
		}
		if err := r.AnswerCallback(ctx, cb.ID, ""); err != nil {
			r.log.Debug().Err(err).Msg("callback answer failed")
		}
		// Replace the prompt with the menu; fall back to a fresh message.
		if err := r.EditButtons(ctx, chatID, cb.Message.MessageID, res.Text, res.Buttons); err != nil {
			return r.SendButtons(ctx, chatID, res.Text, res.Buttons, adapter.SendOptions{})
		}
		return nil

	case usecase.ActionCatalogClothes, usecase.ActionCatalogTech:
		if err := r.AnswerCallback(ctx, cb.ID, ""); err != nil {
			r.log.Debug().Err(err).Msg("callback answer failed")
		}
		text, rows, ok := r.facade.HandleCatalog(cb.Data)
		if !ok {
			return nil
		}
		return r.SendButtons(ctx, chatID, text, rows, adapter.SendOptions{})

	default:
		return r.AnswerCallback(ctx, cb.ID, "")
	}
}

func identityOf(u *tgbotapi.User) model.Identity {
	return model.Identity{
		TelegramID: u.ID,
		Username:   u.UserName,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
	}
}
