package repository

import (
	"context"

	"telegram-promo-gate/internal/domain/model"
)

// UserRepository is the persisted registry of every user the bot has seen.
// It is the sole source of truth for "known users" and grows monotonically.
//
// Implementations must fully serialize Upsert: the read-modify-write-persist
// cycle of one mutation completes before the next one starts, so concurrent
// interactions never produce duplicate rows or lost updates.
type UserRepository interface {
	FindByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	// Upsert creates the user with a fresh token on first contact, or updates
	// display fields and LastSeen on every later one.
	Upsert(ctx context.Context, id model.Identity) (*model.User, error)
	// List returns a point-in-time snapshot in registry order; callers may
	// iterate it while the registry keeps growing.
	List(ctx context.Context) ([]*model.User, error)
	Count(ctx context.Context) (int, error)
}
