package adapter

import "context"

type InlineButton struct {
	Text string
	Data string
	URL  string
}

// MemberStatus is the platform's description of a user's relation to a channel.
type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
)

// Subscribed reports whether the status still grants access to channel
// content. Restricted members keep access, left/kicked/unknown do not.
func (s MemberStatus) Subscribed() bool {
	switch s {
	case StatusCreator, StatusAdministrator, StatusMember, StatusRestricted:
		return true
	default:
		return false
	}
}

// SendOptions carries per-call delivery flags.
type SendOptions struct {
	Silent bool
}

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, telegramID int64, text string, opts SendOptions) error
	SendButtons(ctx context.Context, telegramID int64, text string, rows [][]InlineButton, opts SendOptions) error
	// EditButtons rewrites an already shown message in place.
	EditButtons(ctx context.Context, telegramID int64, messageID int, text string, rows [][]InlineButton) error
	// AnswerCallback shows a transient notice on a pressed inline button.
	AnswerCallback(ctx context.Context, callbackID, text string) error
	// ChatMember resolves a user's membership status in a channel.
	ChatMember(ctx context.Context, channel string, telegramID int64) (MemberStatus, error)
}
