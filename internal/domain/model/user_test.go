//go:build !integration

package model

import (
	"testing"

	"telegram-promo-gate/internal/domain"
)

func TestNewUser(t *testing.T) {
	t.Run("rejects non-positive ids", func(t *testing.T) {
		for _, id := range []int64{0, -1} {
			if _, err := NewUser(Identity{TelegramID: id}); err != domain.ErrInvalidArgument {
				t.Errorf("id %d: expected ErrInvalidArgument, got %v", id, err)
			}
		}
	})

	t.Run("generates a unique token per user", func(t *testing.T) {
		a, err := NewUser(Identity{TelegramID: 1})
		if err != nil {
			t.Fatal(err)
		}
		b, _ := NewUser(Identity{TelegramID: 2})
		if a.Token == "" || a.Token == b.Token {
			t.Errorf("tokens not unique: %q vs %q", a.Token, b.Token)
		}
	})
}

func TestApplyIdentity(t *testing.T) {
	u, _ := NewUser(Identity{TelegramID: 1, Username: "alice", FirstName: "Alice", LastName: "A"})
	token := u.Token
	seen := u.LastSeen

	t.Run("non-empty values overwrite", func(t *testing.T) {
		u.ApplyIdentity(Identity{TelegramID: 1, Username: "alice2"})
		if u.Username != "alice2" {
			t.Errorf("username not updated: %q", u.Username)
		}
	})

	t.Run("empty values preserve existing", func(t *testing.T) {
		u.ApplyIdentity(Identity{TelegramID: 1})
		if u.Username != "alice2" || u.FirstName != "Alice" || u.LastName != "A" {
			t.Errorf("fields wiped: %+v", u)
		}
	})

	t.Run("token is immutable and LastSeen non-decreasing", func(t *testing.T) {
		if u.Token != token {
			t.Error("token changed")
		}
		if u.LastSeen.Before(seen) {
			t.Error("LastSeen went backwards")
		}
	})
}

func TestClone(t *testing.T) {
	u, _ := NewUser(Identity{TelegramID: 1, Username: "alice"})
	c := u.Clone()
	c.Username = "tampered"
	if u.Username == "tampered" {
		t.Error("clone aliases the original")
	}
	if (*User)(nil).Clone() != nil {
		t.Error("nil clone should stay nil")
	}
}
