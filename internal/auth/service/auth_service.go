package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/protodeck/protodeck-backend/internal/auth/domain"
)

// UserStore is implemented by repository.UserRepository.
type UserStore interface {
	GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error)
	EnsureUser(ctx context.Context, in domain.EnsureUserInput) (string, error)
	UpdateProfile(ctx context.Context, u *domain.User) error
	UpdateLastLogin(ctx context.Context, uid string) error
}

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// EnsureUser satisfies auth.UserEnsurer.
func (s *AuthService) EnsureUser(ctx context.Context, in domain.EnsureUserInput) (string, error) {
	return s.users.EnsureUser(ctx, in)
}

// GetProfile retrieves a user by Firebase UID
func (s *AuthService) GetProfile(ctx context.Context, uid string) (*domain.User, error) {
	return s.users.GetByFirebaseUID(ctx, uid)
}

// SyncUser applies profile data sent by the client after sign-in and
// records the login. Fields left nil keep their stored value.
func (s *AuthService) SyncUser(ctx context.Context, uid, tokenEmail string, req domain.UpdateProfileRequest) (*domain.User, error) {
	if _, err := s.users.EnsureUser(ctx, domain.EnsureUserInput{FirebaseUID: uid, Email: tokenEmail}); err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	user, err := s.users.GetByFirebaseUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	applyProfile(user, req)
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, uid); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	return user, nil
}

// UpdateProfile updates user information
func (s *AuthService) UpdateProfile(ctx context.Context, uid string, req domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.GetByFirebaseUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	applyProfile(user, req)
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func applyProfile(u *domain.User, req domain.UpdateProfileRequest) {
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		v := strings.TrimSpace(*req.Email)
		u.Email = &v
	}
	if req.DisplayName != nil {
		u.DisplayName = trimmedOrNil(*req.DisplayName)
	}
	if req.PhotoURL != nil {
		u.PhotoURL = trimmedOrNil(*req.PhotoURL)
	}
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
