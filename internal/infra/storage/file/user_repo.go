// Package file implements the user registry on a single JSON file that is
// rewritten wholesale on every mutation.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"telegram-promo-gate/internal/domain"
	"telegram-promo-gate/internal/domain/model"
	"telegram-promo-gate/internal/domain/ports/repository"
	"telegram-promo-gate/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo keeps the registry in memory and mirrors every mutation to disk.
// One mutex serializes the whole read-modify-write-persist cycle, so
// concurrent upserts can never produce duplicate rows or lost updates.
//
// A failed write is logged and ignored: the in-memory state stays
// authoritative so tokens already handed out remain valid.
type UserRepo struct {
	path string
	log  *zerolog.Logger

	mu    sync.Mutex
	users []*model.User // registry order = first-contact order
	index map[int64]*model.User
}

// NewUserRepo loads the backing file best-effort: a missing, unreadable or
// malformed file yields an empty registry instead of failing startup.
func NewUserRepo(path string, logger *zerolog.Logger) *UserRepo {
	r := &UserRepo{
		path:  path,
		log:   logger,
		index: make(map[int64]*model.User),
	}
	r.load()
	metrics.SetRegisteredUsers(len(r.users))
	return r
}

func (r *UserRepo) load() {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn().Err(err).Str("path", r.path).Msg("user store unreadable; starting empty")
		}
		return
	}
	var users []*model.User
	if err := json.Unmarshal(b, &users); err != nil {
		r.log.Warn().Err(err).Str("path", r.path).Msg("user store malformed; starting empty")
		return
	}
	for _, u := range users {
		if u == nil || u.TelegramID <= 0 {
			continue
		}
		if _, dup := r.index[u.TelegramID]; dup {
			continue
		}
		r.users = append(r.users, u)
		r.index[u.TelegramID] = u
	}
	r.log.Info().Int("users", len(r.users)).Str("path", r.path).Msg("user store loaded")
}

// persistLocked rewrites the whole file atomically (temp file + rename), so a
// crash mid-write never leaves a truncated store behind. Caller holds r.mu.
func (r *UserRepo) persistLocked() error {
	b, err := json.MarshalIndent(r.users, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.index[telegramID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u.Clone(), nil
}

func (r *UserRepo) Upsert(ctx context.Context, id model.Identity) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.index[id.TelegramID]
	if ok {
		u.ApplyIdentity(id)
	} else {
		nu, err := model.NewUser(id)
		if err != nil {
			return nil, err
		}
		r.users = append(r.users, nu)
		r.index[nu.TelegramID] = nu
		u = nu
		metrics.SetRegisteredUsers(len(r.users))
	}

	if err := r.persistLocked(); err != nil {
		// Memory stays authoritative: the caller already holds the token.
		r.log.Error().Err(err).Int64("tg_id", id.TelegramID).Msg("user store write failed; keeping in-memory state")
	}
	return u.Clone(), nil
}

func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make([]*model.User, len(r.users))
	for i, u := range r.users {
		snapshot[i] = u.Clone()
	}
	return snapshot, nil
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}
