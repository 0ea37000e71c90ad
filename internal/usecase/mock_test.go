//go:build !integration

package usecase_test

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"telegram-promo-gate/internal/domain"
	"telegram-promo-gate/internal/domain/model"
	"telegram-promo-gate/internal/domain/ports/adapter"
	"telegram-promo-gate/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu    sync.Mutex
	Users []*model.User

	UpsertFunc func(ctx context.Context, id model.Identity) (*model.User, error)
	ListFunc   func(ctx context.Context) ([]*model.User, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo(users ...*model.User) *MockUserRepo {
	return &MockUserRepo{Users: users}
}

func (m *MockUserRepo) FindByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.TelegramID == telegramID {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) Upsert(ctx context.Context, id model.Identity) (*model.User, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.TelegramID == id.TelegramID {
			u.ApplyIdentity(id)
			return u.Clone(), nil
		}
	}
	nu, err := model.NewUser(id)
	if err != nil {
		return nil, err
	}
	m.Users = append(m.Users, nu)
	return nu.Clone(), nil
}

func (m *MockUserRepo) List(ctx context.Context) ([]*model.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.User, len(m.Users))
	for i, u := range m.Users {
		out[i] = u.Clone()
	}
	return out, nil
}

func (m *MockUserRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users), nil
}

// ---- Mock TelegramBotAdapter ----

type SentMessage struct {
	TelegramID int64
	Text       string
	Rows       [][]adapter.InlineButton
	Opts       adapter.SendOptions
}

type MockTelegramBot struct {
	mu           sync.Mutex
	Sent         []SentMessage
	MemberCalls  []string // channels queried, in order
	EditedCount  int
	AnsweredText []string

	SendButtonsFunc func(ctx context.Context, telegramID int64, text string, rows [][]adapter.InlineButton, opts adapter.SendOptions) error
	ChatMemberFunc  func(ctx context.Context, channel string, telegramID int64) (adapter.MemberStatus, error)
}

var _ adapter.TelegramBotAdapter = (*MockTelegramBot)(nil)

func (m *MockTelegramBot) SendMessage(ctx context.Context, telegramID int64, text string, opts adapter.SendOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMessage{TelegramID: telegramID, Text: text, Opts: opts})
	return nil
}

func (m *MockTelegramBot) SendButtons(ctx context.Context, telegramID int64, text string, rows [][]adapter.InlineButton, opts adapter.SendOptions) error {
	if m.SendButtonsFunc != nil {
		if err := m.SendButtonsFunc(ctx, telegramID, text, rows, opts); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMessage{TelegramID: telegramID, Text: text, Rows: rows, Opts: opts})
	return nil
}

func (m *MockTelegramBot) EditButtons(ctx context.Context, telegramID int64, messageID int, text string, rows [][]adapter.InlineButton) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EditedCount++
	return nil
}

func (m *MockTelegramBot) AnswerCallback(ctx context.Context, callbackID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnsweredText = append(m.AnsweredText, text)
	return nil
}

func (m *MockTelegramBot) ChatMember(ctx context.Context, channel string, telegramID int64) (adapter.MemberStatus, error) {
	m.mu.Lock()
	m.MemberCalls = append(m.MemberCalls, channel)
	m.mu.Unlock()
	if m.ChatMemberFunc != nil {
		return m.ChatMemberFunc(ctx, channel, telegramID)
	}
	return adapter.StatusMember, nil
}

func (m *MockTelegramBot) SentTo() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, len(m.Sent))
	for i, s := range m.Sent {
		out[i] = s.TelegramID
	}
	return out
}
