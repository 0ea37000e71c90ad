//go:build !integration

package usecase_test

import (
	"context"
	"strings"
	"testing"

	"telegram-promo-gate/internal/domain/model"
	"telegram-promo-gate/internal/domain/ports/adapter"
	"telegram-promo-gate/internal/usecase"
)

var testLinks = usecase.Links{
	BaseURL:    "https://shop.example.com",
	ClothesURL: "https://shop.example.com/catalog/clothes",
	TechURL:    "https://shop.example.com/catalog/tech",
}

func TestGateUseCase(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	channels := []string{"@shop_news"}
	identity := model.Identity{TelegramID: 42, Username: "alice", FirstName: "Alice"}

	t.Run("member gets menu with personal entry link", func(t *testing.T) {
		repo := NewMockUserRepo()
		bot := &MockTelegramBot{} // every check returns member
		membership := usecase.NewMembershipUseCase(channels, bot, logger)
		gate := usecase.NewGateUseCase(repo, membership, channels, testLinks, logger)

		res, err := gate.Enter(ctx, identity)
		if err != nil {
			t.Fatalf("Enter returned error: %v", err)
		}
		if !res.Member {
			t.Fatal("expected member result")
		}
		if res.User.Token == "" {
			t.Fatal("expected a token on the user")
		}
		entry := res.Buttons[0][0]
		if !strings.Contains(entry.URL, "token="+res.User.Token) {
			t.Errorf("entry link %q does not embed the user token", entry.URL)
		}
	})

	t.Run("non-member gets one subscribe button per channel plus re-check", func(t *testing.T) {
		repo := NewMockUserRepo()
		bot := &MockTelegramBot{
			ChatMemberFunc: func(ctx context.Context, channel string, id int64) (adapter.MemberStatus, error) {
				return adapter.StatusLeft, nil
			},
		}
		multi := []string{"@shop_news", "@shop_deals"}
		membership := usecase.NewMembershipUseCase(multi, bot, logger)
		gate := usecase.NewGateUseCase(repo, membership, multi, testLinks, logger)

		res, err := gate.Enter(ctx, identity)
		if err != nil {
			t.Fatalf("Enter returned error: %v", err)
		}
		if res.Member {
			t.Fatal("expected non-member result")
		}
		if len(res.Buttons) != len(multi)+1 {
			t.Fatalf("expected %d button rows, got %d", len(multi)+1, len(res.Buttons))
		}
		if got := res.Buttons[0][0].URL; got != "https://t.me/shop_news" {
			t.Errorf("unexpected deep link %q", got)
		}
		last := res.Buttons[len(res.Buttons)-1][0]
		if last.Data != usecase.ActionCheckSub {
			t.Errorf("expected re-check action, got %q", last.Data)
		}
	})

	t.Run("upsert happens before the membership check", func(t *testing.T) {
		repo := NewMockUserRepo()
		bot := &MockTelegramBot{
			ChatMemberFunc: func(ctx context.Context, channel string, id int64) (adapter.MemberStatus, error) {
				return adapter.StatusLeft, nil
			},
		}
		membership := usecase.NewMembershipUseCase(channels, bot, logger)
		gate := usecase.NewGateUseCase(repo, membership, channels, testLinks, logger)

		res, err := gate.Enter(ctx, identity)
		if err != nil {
			t.Fatalf("Enter returned error: %v", err)
		}
		// Even an ungated user must end up in the registry with a token,
		// so a later successful re-check can resume immediately.
		stored, err := repo.FindByTelegramID(ctx, identity.TelegramID)
		if err != nil {
			t.Fatalf("user was not registered: %v", err)
		}
		if stored.Token != res.User.Token {
			t.Error("registry token does not match the gate result")
		}
	})

	t.Run("re-entry keeps the token and refreshes display fields", func(t *testing.T) {
		repo := NewMockUserRepo()
		bot := &MockTelegramBot{}
		membership := usecase.NewMembershipUseCase(channels, bot, logger)
		gate := usecase.NewGateUseCase(repo, membership, channels, testLinks, logger)

		first, err := gate.Enter(ctx, identity)
		if err != nil {
			t.Fatalf("first Enter: %v", err)
		}
		renamed := identity
		renamed.Username = "alice_new"
		second, err := gate.Enter(ctx, renamed)
		if err != nil {
			t.Fatalf("second Enter: %v", err)
		}
		if second.User.Token != first.User.Token {
			t.Error("token must never be regenerated")
		}
		if second.User.Username != "alice_new" {
			t.Errorf("expected refreshed username, got %q", second.User.Username)
		}
	})
}
