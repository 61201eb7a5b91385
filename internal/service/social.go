package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkovalev/sociable/internal/logger"
	"github.com/dkovalev/sociable/internal/model"
)

type Social struct {
	userStore   model.UserStore
	followStore model.FollowStore
	postStore   model.PostStore
	logger      *logger.Logger
}

func NewSocial(
	userStore model.UserStore,
	followStore model.FollowStore,
	postStore model.PostStore,
	logger *logger.Logger,
) *Social {
	return &Social{
		userStore:   userStore,
		followStore: followStore,
		postStore:   postStore,
		logger:      logger,
	}
}

// ToggleFollow flips the follow edge from follower to target. Inserting
// the edge notifies the target; removing it notifies no one. There is no
// separate unfollow operation.
func (s *Social) ToggleFollow(ctx context.Context, followerID, targetID int64) (bool, error) {
	if followerID == targetID {
		return false, model.NewErrValidation("cannot follow yourself")
	}

	if _, err := s.userStore.UserByID(ctx, targetID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, model.NewErrUserNotFound(targetID)
		}
		return false, fmt.Errorf("failed to get user by id: %w", err)
	}

	now := time.Now()
	notif := &model.Notification{
		UserID:    targetID,
		Type:      model.NotificationFollow,
		ActorID:   followerID,
		Message:   "New follower",
		CreatedAt: now,
	}

	following, err := s.followStore.ToggleFollow(ctx, model.Follow{
		FollowerID:  followerID,
		FollowingID: targetID,
		CreatedAt:   now,
	}, notif)
	if err != nil {
		s.logger.Error("Social service: failed to toggle follow",
			"follower_id", followerID,
			"target_id", targetID,
			"error", err.Error())
		return false, fmt.Errorf("failed to toggle follow: %w", err)
	}

	s.logger.Info("Social service: follow toggled",
		"follower_id", followerID,
		"target_id", targetID,
		"following", following)

	return following, nil
}

// Stats recomputes the follower, following and post counts from the
// underlying records.
func (s *Social) Stats(ctx context.Context, userID int64) (model.Stats, error) {
	followers, err := s.followStore.CountFollowers(ctx, userID)
	if err != nil {
		return model.Stats{}, fmt.Errorf("failed to count followers: %w", err)
	}
	following, err := s.followStore.CountFollowing(ctx, userID)
	if err != nil {
		return model.Stats{}, fmt.Errorf("failed to count following: %w", err)
	}
	posts, err := s.postStore.CountPostsBy(ctx, userID)
	if err != nil {
		return model.Stats{}, fmt.Errorf("failed to count posts: %w", err)
	}

	return model.Stats{Followers: followers, Following: following, Posts: posts}, nil
}
