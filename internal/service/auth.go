package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkovalev/sociable/internal/logger"
	"github.com/dkovalev/sociable/internal/model"
	"github.com/dkovalev/sociable/internal/security"
)

// privacyVersion is stamped on every account at registration together
// with the consent timestamp.
const privacyVersion = "1.0"

// StatusVerificationRequired signals that the account exists but its
// preferred channel still has to be confirmed before login.
const StatusVerificationRequired = "verification_required"

type Auth struct {
	userStore    model.UserStore
	followStore  model.FollowStore
	verification *Verification
	social       *Social
	tokens       model.TokenManager
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	followStore model.FollowStore,
	verification *Verification,
	social *Social,
	tokens model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		followStore:  followStore,
		verification: verification,
		social:       social,
		tokens:       tokens,
		logger:       logger,
	}
}

// RegisterParams carries the registration input.
type RegisterParams struct {
	Email            string
	Username         string
	Password         string
	FirstName        string
	LastName         string
	BirthDate        string
	Phone            string
	Address          string
	Consent          bool
	PreferredChannel model.Channel
}

// RegisterResult reports the fresh account and the channel that must be
// verified before the first login.
type RegisterResult struct {
	Status  string        `json:"status"`
	UserID  int64         `json:"userId"`
	Channel model.Channel `json:"channel"`
}

// LoginResult carries the bearer token and the public profile.
type LoginResult struct {
	Token string           `json:"token"`
	User  model.UserPublic `json:"user"`
}

// UpdateProfileParams carries the mutable profile fields. A nil pointer
// leaves the field untouched; an empty avatar or bio clears it.
type UpdateProfileParams struct {
	Username  *string
	AvatarURL *string
	Bio       *string
}

// Register creates an account and always transitions it into the
// code-issued state for the preferred channel.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (RegisterResult, error) {
	a.logger.Debug("Auth service: registering user",
		"email", params.Email,
		"username", params.Username)

	if params.Email == "" || params.Username == "" || params.Password == "" {
		return RegisterResult{}, model.NewErrValidation("email, username and password are required")
	}
	if !params.Consent {
		return RegisterResult{}, model.NewErrValidation("consent is required")
	}

	channel := normalizeChannel(params.PreferredChannel)
	if channel == model.ChannelSMS && params.Phone == "" {
		return RegisterResult{}, model.NewErrValidation("phone number required for sms verification")
	}

	hash, err := security.HashPassword(params.Password)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := model.User{
		Email:            params.Email,
		Username:         params.Username,
		PasswordHash:     hash,
		FirstName:        params.FirstName,
		LastName:         params.LastName,
		BirthDate:        params.BirthDate,
		Phone:            params.Phone,
		Address:          params.Address,
		ConsentAt:        now,
		PrivacyVersion:   privacyVersion,
		PreferredChannel: channel,
		CreatedAt:        now,
	}

	created, err := a.userStore.CreateUser(ctx, user)
	if err != nil {
		var conflict *model.ConflictError
		if errors.As(err, &conflict) {
			a.logger.Info("Auth service: registration conflict",
				"email", params.Email,
				"field", conflict.Field)
			return RegisterResult{}, err
		}
		a.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return RegisterResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	if err := a.verification.IssueCode(ctx, created.ID, channel); err != nil {
		return RegisterResult{}, fmt.Errorf("failed to issue verification code: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"user_id", created.ID,
		"channel", string(channel))

	return RegisterResult{
		Status:  StatusVerificationRequired,
		UserID:  created.ID,
		Channel: channel,
	}, nil
}

// Login checks the credentials and the preferred channel's verified
// flag. An unknown email and a wrong password fail identically.
func (a *Auth) Login(ctx context.Context, email, password string) (LoginResult, error) {
	a.logger.Debug("Auth service: login attempt", "email", email)

	if email == "" || password == "" {
		return LoginResult{}, model.NewErrValidation("email and password are required")
	}

	user, err := a.userStore.UserByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return LoginResult{}, model.NewErrInvalidCredentials()
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return LoginResult{}, model.NewErrInvalidCredentials()
	}

	preferred := normalizeChannel(user.PreferredChannel)
	if !user.Verified(preferred) {
		a.logger.Info("Auth service: login blocked, channel unverified",
			"user_id", user.ID,
			"channel", string(preferred))
		return LoginResult{}, model.NewErrUnverified(user.ID, preferred)
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", user.ID,
			"error", err.Error())
		return LoginResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login succeeded", "user_id", user.ID)

	return LoginResult{Token: token, User: user.Public()}, nil
}

// Authenticate resolves a bearer token to a user id.
func (a *Auth) Authenticate(ctx context.Context, token string) (int64, error) {
	userID, err := a.tokens.Parse(token)
	if err != nil {
		return 0, model.NewErrInvalidToken()
	}
	return userID, nil
}

// Me returns the caller's public profile with derived stats.
func (a *Auth) Me(ctx context.Context, userID int64) (model.Profile, error) {
	user, err := a.userStore.UserByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Profile{}, model.NewErrUserNotFound(userID)
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	stats, err := a.social.Stats(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}

	return model.Profile{User: user.Public(), Stats: stats}, nil
}

// UpdateProfile applies the given fields. A username change is checked
// for uniqueness atomically with the write.
func (a *Auth) UpdateProfile(ctx context.Context, userID int64, params UpdateProfileParams) (model.UserPublic, error) {
	user, err := a.userStore.UserByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.UserPublic{}, model.NewErrUserNotFound(userID)
	}
	if err != nil {
		return model.UserPublic{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if params.Username != nil {
		if username := strings.TrimSpace(*params.Username); username != "" {
			user.Username = username
		}
	}
	if params.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*params.AvatarURL)
	}
	if params.Bio != nil {
		user.Bio = strings.TrimSpace(*params.Bio)
	}

	updated, err := a.userStore.UpdateUser(ctx, user)
	if err != nil {
		var conflict *model.ConflictError
		if errors.As(err, &conflict) {
			return model.UserPublic{}, err
		}
		return model.UserPublic{}, fmt.Errorf("failed to update user: %w", err)
	}

	a.logger.Info("Auth service: profile updated", "user_id", userID)

	return updated.Public(), nil
}

// SearchUsers finds up to ten users by username substring, each
// annotated with the viewer's follow state. An empty query matches
// nothing.
func (a *Auth) SearchUsers(ctx context.Context, viewerID int64, query string) ([]model.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	users, err := a.userStore.SearchUsers(ctx, query, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	summaries := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		following, err := a.followStore.FollowExists(ctx, viewerID, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check follow edge: %w", err)
		}
		summaries = append(summaries, model.UserSummary{
			UserPublic:  u.Public(),
			IsFollowing: following,
		})
	}
	return summaries, nil
}

// GetUser returns another user's profile, stats and the viewer's follow
// state.
func (a *Auth) GetUser(ctx context.Context, viewerID, targetID int64) (model.UserDetail, error) {
	user, err := a.userStore.UserByID(ctx, targetID)
	if errors.Is(err, model.ErrNotFound) {
		return model.UserDetail{}, model.NewErrUserNotFound(targetID)
	}
	if err != nil {
		return model.UserDetail{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	stats, err := a.social.Stats(ctx, targetID)
	if err != nil {
		return model.UserDetail{}, err
	}

	following, err := a.followStore.FollowExists(ctx, viewerID, targetID)
	if err != nil {
		return model.UserDetail{}, fmt.Errorf("failed to check follow edge: %w", err)
	}

	return model.UserDetail{
		Profile:     model.Profile{User: user.Public(), Stats: stats},
		IsFollowing: following,
	}, nil
}
