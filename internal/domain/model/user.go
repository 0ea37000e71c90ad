package model

import (
	"time"

	"telegram-promo-gate/internal/domain"

	"github.com/google/uuid"
)

// Identity carries the fields of an inbound Telegram user as the platform
// reports them. It is the only input the registry accepts.
type Identity struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}

// User is a known Telegram user together with the access token that
// authorizes their personal web entry point. The token is assigned once at
// first contact and never regenerated.
type User struct {
	TelegramID int64     `json:"id"`
	Username   string    `json:"username,omitempty"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	Token      string    `json:"token"`
	LastSeen   time.Time `json:"last_seen"`
}

func NewUser(id Identity) (*User, error) {
	if id.TelegramID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		TelegramID: id.TelegramID,
		Username:   id.Username,
		FirstName:  id.FirstName,
		LastName:   id.LastName,
		Token:      uuid.NewString(),
		LastSeen:   time.Now(),
	}, nil
}

// ApplyIdentity overwrites display fields with non-empty incoming values and
// bumps LastSeen. The token is never touched.
func (u *User) ApplyIdentity(id Identity) {
	if id.Username != "" {
		u.Username = id.Username
	}
	if id.FirstName != "" {
		u.FirstName = id.FirstName
	}
	if id.LastName != "" {
		u.LastName = id.LastName
	}
	u.Touch()
}

func (u *User) IsZero() bool { return u == nil || u.Token == "" }
func (u *User) Touch()       { u.LastSeen = time.Now() }

// Clone returns an independent copy, so snapshots handed to long-running
// fan-outs are not affected by later registry updates.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
