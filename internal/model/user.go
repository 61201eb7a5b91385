package model

import (
	"context"
	"time"
)

// Channel is a verification delivery channel.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// UserStore defines persistence operations for users. Create and Update
// enforce email/username uniqueness atomically with the write.
type UserStore interface {
	CreateUser(ctx context.Context, user User) (User, error)
	UserByID(ctx context.Context, id int64) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]User, error)
}

// User represents a stored account with authentication material and
// profile fields.
type User struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	PasswordHash     string    `json:"passwordHash"`
	FirstName        string    `json:"firstName,omitempty"`
	LastName         string    `json:"lastName,omitempty"`
	BirthDate        string    `json:"birthDate,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	ConsentAt        time.Time `json:"consentAt,omitzero"`
	PrivacyVersion   string    `json:"privacyVersion,omitempty"`
	PreferredChannel Channel   `json:"preferredChannel,omitempty"`
	EmailVerified    bool      `json:"emailVerified"`
	PhoneVerified    bool      `json:"phoneVerified"`
	AvatarURL        string    `json:"avatarUrl,omitempty"`
	Bio              string    `json:"bio,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Verified reports whether the given channel has been confirmed.
func (u User) Verified(channel Channel) bool {
	if channel == ChannelSMS {
		return u.PhoneVerified
	}
	return u.EmailVerified
}

// Public strips authentication and consent material for API responses.
func (u User) Public() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		BirthDate: u.BirthDate,
		Phone:     u.Phone,
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
	}
}

// UserPublic is the externally visible shape of a user.
type UserPublic struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email,omitempty"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	BirthDate string    `json:"birthDate,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Stats holds the derived counters for a user. They are recomputed from
// the underlying records on every read and never stored.
type Stats struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
	Posts     int `json:"posts"`
}

// Profile combines a public user with its derived stats.
type Profile struct {
	User  UserPublic `json:"user"`
	Stats Stats      `json:"stats"`
}

// UserSummary is a search result annotated with the viewer's follow state.
type UserSummary struct {
	UserPublic
	IsFollowing bool `json:"isFollowing"`
}

// UserDetail is a profile annotated with the viewer's follow state.
type UserDetail struct {
	Profile
	IsFollowing bool `json:"isFollowing"`
}
