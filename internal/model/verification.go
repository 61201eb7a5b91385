package model

import (
	"context"
	"time"
)

// CodeTTL is the lifetime of a one-time verification code.
const CodeTTL = 10 * time.Minute

// CodeStore defines persistence operations for one-time codes. Put
// replaces any live code for the same (user, channel); Consume removes
// the code and flips the matching verified flag in one commit.
type CodeStore interface {
	PutVerificationCode(ctx context.Context, code VerificationCode) (VerificationCode, error)
	VerificationCodeFor(ctx context.Context, userID int64, channel Channel) (VerificationCode, error)
	ConsumeVerificationCode(ctx context.Context, codeID, userID int64, channel Channel) error
}

// VerificationCode holds the hash of an issued one-time code. At most
// one live code exists per (user, channel).
type VerificationCode struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Channel   Channel   `json:"channel"`
	CodeHash  string    `json:"codeHash"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the code is past its window at the given time.
func (c VerificationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
