package http

import (
	"context"

	"github.com/protodeck/protodeck-backend/internal/auth/domain"
)

// ProfileService is implemented by service.AuthService.
type ProfileService interface {
	GetProfile(ctx context.Context, uid string) (*domain.User, error)
	SyncUser(ctx context.Context, uid, tokenEmail string, req domain.UpdateProfileRequest) (*domain.User, error)
	UpdateProfile(ctx context.Context, uid string, req domain.UpdateProfileRequest) (*domain.User, error)
}

type Handler struct {
	authService ProfileService
}

func New(authService ProfileService) *Handler {
	return &Handler{
		authService: authService,
	}
}

type profileBody struct {
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}

func (b profileBody) toRequest() domain.UpdateProfileRequest {
	return domain.UpdateProfileRequest{
		Email:       b.Email,
		DisplayName: b.DisplayName,
		PhotoURL:    b.PhotoURL,
	}
}
