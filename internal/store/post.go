package store

import (
	"context"
	"slices"

	"github.com/dkovalev/sociable/internal/model"
)

var (
	_ model.PostStore    = (*Store)(nil)
	_ model.LikeStore    = (*Store)(nil)
	_ model.CommentStore = (*Store)(nil)
)

func (s *Store) CreatePost(ctx context.Context, post model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Counters.Posts++
	post.ID = s.data.Counters.Posts

	s.data.Posts = append(s.data.Posts, post)
	s.postIdx[post.ID] = len(s.data.Posts) - 1

	if err := s.persistLocked(); err != nil {
		return model.Post{}, err
	}

	return post, nil
}

func (s *Store) PostByID(ctx context.Context, id int64) (model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.postIdx[id]
	if !ok {
		return model.Post{}, model.ErrNotFound
	}
	return s.data.Posts[i], nil
}

// ListPosts returns all posts in insertion order.
func (s *Store) ListPosts(ctx context.Context) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.data.Posts), nil
}

func (s *Store) CountPostsBy(ctx context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.data.Posts {
		if p.UserID == userID {
			count++
		}
	}
	return count, nil
}

// ToggleLike removes the like if the (post, user) record exists and
// inserts it otherwise. On insert the optional notification is appended
// in the same commit; on removal it is ignored.
func (s *Store) ToggleLike(ctx context.Context, like model.Like, notif *model.Notification) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := likeKey{like.PostID, like.UserID}
	if _, ok := s.likeIdx[key]; ok {
		s.data.Likes = slices.DeleteFunc(s.data.Likes, func(l model.Like) bool {
			return l.PostID == like.PostID && l.UserID == like.UserID
		})
		delete(s.likeIdx, key)
		if err := s.persistLocked(); err != nil {
			return false, err
		}
		return false, nil
	}

	s.data.Likes = append(s.data.Likes, like)
	s.likeIdx[key] = struct{}{}
	if notif != nil {
		s.appendNotificationLocked(*notif)
	}

	if err := s.persistLocked(); err != nil {
		return false, err
	}

	return true, nil
}

func (s *Store) CountLikes(ctx context.Context, postID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, l := range s.data.Likes {
		if l.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (s *Store) HasLiked(ctx context.Context, postID, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.likeIdx[likeKey{postID, userID}]
	return ok, nil
}

// CreateComment appends a comment. The optional notification is stored
// in the same commit with its CommentID filled from the new comment.
func (s *Store) CreateComment(ctx context.Context, comment model.Comment, notif *model.Notification) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Counters.Comments++
	comment.ID = s.data.Counters.Comments
	s.data.Comments = append(s.data.Comments, comment)

	if notif != nil {
		n := *notif
		n.CommentID = comment.ID
		s.appendNotificationLocked(n)
	}

	if err := s.persistLocked(); err != nil {
		return model.Comment{}, err
	}

	return comment, nil
}

// CommentsForPost returns the post's comments in creation order.
func (s *Store) CommentsForPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var comments []model.Comment
	for _, c := range s.data.Comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	return comments, nil
}

func (s *Store) CountComments(ctx context.Context, postID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, c := range s.data.Comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}
