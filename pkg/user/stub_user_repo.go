package user

import (
	"context"
)

type StubUserRepository struct {
	nextId int
	data   map[int]User
}

func NewStubUserRepository() *StubUserRepository {
	return &StubUserRepository{nextId: 0, data: map[int]User{}}
}

func (s *StubUserRepository) CreateUser(ctx context.Context, user User) (int, error) {
	if _, err := s.GetUserByGoogleId(ctx, user.GoogleId); err == nil {
		return 0, ErrUserAlreadyExists
	}
	s.nextId++
	user.Id = s.nextId
	s.data[s.nextId] = user
	return s.nextId, nil
}

func (s *StubUserRepository) GetUser(ctx context.Context, id int) (User, error) {
	user, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *StubUserRepository) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return s.find(func(u User) bool { return u.Uid == uid })
}

func (s *StubUserRepository) GetUserByGoogleId(ctx context.Context, googleId string) (User, error) {
	return s.find(func(u User) bool { return u.GoogleId == googleId })
}

func (s *StubUserRepository) find(match func(User) bool) (User, error) {
	for _, u := range s.data {
		if match(u) {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepository) UpdateProfile(ctx context.Context, userId int, identity Identity) (User, error) {
	u, ok := s.data[userId]
	if !ok {
		return User{}, ErrUserNotFound
	}
	u.GivenName = identity.GivenName
	u.FamilyName = identity.FamilyName
	u.PhotoUrl = identity.PhotoUrl
	s.data[userId] = u
	return u, nil
}

func (s *StubUserRepository) DeleteUser(ctx context.Context, id int) error {
	if _, ok := s.data[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.data, id)
	return nil
}
