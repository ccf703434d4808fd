package services

import (
	"errors"

	"fundraiser/internal/domain"
	"fundraiser/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid login or password")

// AuthService backs the route guard: it binds browser sessions to users.
type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, login, password string) (*domain.User, error) {
	u, err := s.Users.ByLogin(login)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
