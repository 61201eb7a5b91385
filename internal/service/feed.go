package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dkovalev/sociable/internal/logger"
	"github.com/dkovalev/sociable/internal/model"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 50
)

// unknownUser is rendered when an author or actor no longer resolves,
// instead of failing the whole view.
const unknownUser = "unknown"

type Feed struct {
	postStore    model.PostStore
	likeStore    model.LikeStore
	commentStore model.CommentStore
	userStore    model.UserStore
	logger       *logger.Logger
}

func NewFeed(
	postStore model.PostStore,
	likeStore model.LikeStore,
	commentStore model.CommentStore,
	userStore model.UserStore,
	logger *logger.Logger,
) *Feed {
	return &Feed{
		postStore:    postStore,
		likeStore:    likeStore,
		commentStore: commentStore,
		userStore:    userStore,
		logger:       logger,
	}
}

// CreatePost stores a trimmed, non-empty post.
func (s *Feed) CreatePost(ctx context.Context, authorID int64, content, imageURL string) (model.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Post{}, model.NewErrValidation("content is required")
	}

	post, err := s.postStore.CreatePost(ctx, model.Post{
		UserID:    authorID,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.logger.Error("Feed service: failed to create post",
			"user_id", authorID,
			"error", err.Error())
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("Feed service: post created",
		"post_id", post.ID,
		"user_id", authorID)

	return post, nil
}

// ListFeed returns the global feed page for the viewer: newest first,
// ties kept in insertion order, each entry annotated with the author and
// live-computed engagement counts.
func (s *Feed) ListFeed(ctx context.Context, viewerID int64, limit, offset int) ([]model.PostView, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := s.postStore.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	slices.SortStableFunc(posts, func(a, b model.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if offset >= len(posts) {
		return []model.PostView{}, nil
	}
	posts = posts[offset:min(offset+limit, len(posts))]

	views := make([]model.PostView, 0, len(posts))
	for _, post := range posts {
		view := model.PostView{
			ID:        post.ID,
			UserID:    post.UserID,
			Username:  unknownUser,
			Content:   post.Content,
			ImageURL:  post.ImageURL,
			CreatedAt: post.CreatedAt,
		}

		if author, err := s.userStore.UserByID(ctx, post.UserID); err == nil {
			view.Username = author.Username
			view.AvatarURL = author.AvatarURL
		}

		if view.LikeCount, err = s.likeStore.CountLikes(ctx, post.ID); err != nil {
			return nil, fmt.Errorf("failed to count likes: %w", err)
		}
		if view.CommentCount, err = s.commentStore.CountComments(ctx, post.ID); err != nil {
			return nil, fmt.Errorf("failed to count comments: %w", err)
		}
		if view.LikedByMe, err = s.likeStore.HasLiked(ctx, post.ID, viewerID); err != nil {
			return nil, fmt.Errorf("failed to check like: %w", err)
		}

		views = append(views, view)
	}

	return views, nil
}

// ToggleLike flips the like on the post for the user. An insert notifies
// the post's author unless the liker is the author.
func (s *Feed) ToggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	post, err := s.postStore.PostByID(ctx, postID)
	if errors.Is(err, model.ErrNotFound) {
		return false, model.NewErrPostNotFound(postID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to get post by id: %w", err)
	}

	now := time.Now()
	var notif *model.Notification
	if post.UserID != userID {
		notif = &model.Notification{
			UserID:    post.UserID,
			Type:      model.NotificationLike,
			ActorID:   userID,
			PostID:    postID,
			Message:   "New like",
			CreatedAt: now,
		}
	}

	liked, err := s.likeStore.ToggleLike(ctx, model.Like{
		PostID:    postID,
		UserID:    userID,
		CreatedAt: now,
	}, notif)
	if err != nil {
		s.logger.Error("Feed service: failed to toggle like",
			"post_id", postID,
			"user_id", userID,
			"error", err.Error())
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}

	return liked, nil
}

// AddComment appends a non-empty comment to an existing post, notifying
// the author unless the commenter is the author.
func (s *Feed) AddComment(ctx context.Context, userID, postID int64, content string) (int64, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, model.NewErrValidation("content is required")
	}

	post, err := s.postStore.PostByID(ctx, postID)
	if errors.Is(err, model.ErrNotFound) {
		return 0, model.NewErrPostNotFound(postID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get post by id: %w", err)
	}

	now := time.Now()
	var notif *model.Notification
	if post.UserID != userID {
		notif = &model.Notification{
			UserID:    post.UserID,
			Type:      model.NotificationComment,
			ActorID:   userID,
			PostID:    postID,
			Message:   "New comment",
			CreatedAt: now,
		}
	}

	comment, err := s.commentStore.CreateComment(ctx, model.Comment{
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
	}, notif)
	if err != nil {
		s.logger.Error("Feed service: failed to create comment",
			"post_id", postID,
			"user_id", userID,
			"error", err.Error())
		return 0, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment.ID, nil
}

// ListComments returns the post's comments in creation order, annotated
// with the commenter's username.
func (s *Feed) ListComments(ctx context.Context, postID int64) ([]model.CommentView, error) {
	comments, err := s.commentStore.CommentsForPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	views := make([]model.CommentView, 0, len(comments))
	for _, c := range comments {
		view := model.CommentView{
			ID:        c.ID,
			PostID:    c.PostID,
			UserID:    c.UserID,
			Username:  unknownUser,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		}
		if author, err := s.userStore.UserByID(ctx, c.UserID); err == nil {
			view.Username = author.Username
		}
		views = append(views, view)
	}

	return views, nil
}
