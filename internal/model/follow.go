package model

import (
	"context"
	"time"
)

// FollowStore toggles follow edges keyed by (follower, following). A
// toggle that inserts the edge also appends the optional notification in
// the same commit.
type FollowStore interface {
	ToggleFollow(ctx context.Context, follow Follow, notif *Notification) (bool, error)
	FollowExists(ctx context.Context, followerID, followingID int64) (bool, error)
	CountFollowers(ctx context.Context, userID int64) (int, error)
	CountFollowing(ctx context.Context, userID int64) (int, error)
}

// Follow is a directed edge in the social graph. At most one edge exists
// per ordered pair; self-edges are rejected before the store is reached.
type Follow struct {
	FollowerID  int64     `json:"followerId"`
	FollowingID int64     `json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}
