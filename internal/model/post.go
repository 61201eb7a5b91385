package model

import (
	"context"
	"time"
)

// PostStore defines persistence operations for posts and their derived
// engagement counters.
type PostStore interface {
	CreatePost(ctx context.Context, post Post) (Post, error)
	PostByID(ctx context.Context, id int64) (Post, error)
	ListPosts(ctx context.Context) ([]Post, error)
	CountPostsBy(ctx context.Context, userID int64) (int, error)
}

// LikeStore toggles like records keyed by (post, user). A toggle that
// inserts the record also appends the optional notification in the same
// commit.
type LikeStore interface {
	ToggleLike(ctx context.Context, like Like, notif *Notification) (bool, error)
	CountLikes(ctx context.Context, postID int64) (int, error)
	HasLiked(ctx context.Context, postID, userID int64) (bool, error)
}

// CommentStore defines persistence operations for comments.
type CommentStore interface {
	CreateComment(ctx context.Context, comment Comment, notif *Notification) (Comment, error)
	CommentsForPost(ctx context.Context, postID int64) ([]Comment, error)
	CountComments(ctx context.Context, postID int64) (int, error)
}

// Post is a feed entry authored by a user.
type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	UserID    int64     `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Like marks a post as liked by a user. The record's existence is the
// liked state; there is no counter to keep in sync.
type Like struct {
	PostID    int64     `json:"postId"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostView is a feed entry annotated for a specific viewer.
type PostView struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Username     string    `json:"username"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	LikeCount    int       `json:"likeCount"`
	CommentCount int       `json:"commentCount"`
	LikedByMe    bool      `json:"likedByMe"`
}

// CommentView is a comment annotated with its author's username.
type CommentView struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
