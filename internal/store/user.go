package store

import (
	"context"
	"strings"

	"github.com/dkovalev/sociable/internal/model"
)

var _ model.UserStore = (*Store)(nil)

// CreateUser inserts a user, enforcing email and username uniqueness
// atomically with the write.
func (s *Store) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userByEmail[user.Email]; ok {
		return model.User{}, model.NewErrEmailTaken()
	}
	if _, ok := s.userByName[user.Username]; ok {
		return model.User{}, model.NewErrUsernameTaken()
	}

	s.data.Counters.Users++
	user.ID = s.data.Counters.Users

	s.data.Users = append(s.data.Users, user)
	s.userIdx[user.ID] = len(s.data.Users) - 1
	s.userByEmail[user.Email] = user.ID
	s.userByName[user.Username] = user.ID

	if err := s.persistLocked(); err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.userIdx[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return s.data.Users[i], nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userByEmail[email]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return s.data.Users[s.userIdx[id]], nil
}

// UpdateUser replaces the stored record, re-checking username uniqueness
// against all other users.
func (s *Store) UpdateUser(ctx context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.userIdx[user.ID]
	if !ok {
		return model.User{}, model.ErrNotFound
	}

	prev := s.data.Users[i]
	if owner, ok := s.userByName[user.Username]; ok && owner != user.ID {
		return model.User{}, model.NewErrUsernameTaken()
	}
	if owner, ok := s.userByEmail[user.Email]; ok && owner != user.ID {
		return model.User{}, model.NewErrEmailTaken()
	}

	s.data.Users[i] = user
	if prev.Username != user.Username {
		delete(s.userByName, prev.Username)
		s.userByName[user.Username] = user.ID
	}
	if prev.Email != user.Email {
		delete(s.userByEmail, prev.Email)
		s.userByEmail[user.Email] = user.ID
	}

	if err := s.persistLocked(); err != nil {
		return model.User{}, err
	}

	return user, nil
}

// SearchUsers returns up to limit users whose username contains the
// query, case-insensitively, in insertion order.
func (s *Store) SearchUsers(ctx context.Context, query string, limit int) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(query)
	users := make([]model.User, 0, limit)
	for _, u := range s.data.Users {
		if !strings.Contains(strings.ToLower(u.Username), query) {
			continue
		}
		users = append(users, u)
		if len(users) == limit {
			break
		}
	}
	return users, nil
}
