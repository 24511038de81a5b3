package client

import (
	"context"

	"github.com/dmitrijs2005/petalert/internal/client/models"
)

// Client is the API gateway: one method per remote operation. Implementations
// are stateless; authenticated calls receive the access token explicitly.
type Client interface {
	SignIn(ctx context.Context, req models.SignInRequest) (*models.SessionUser, error)
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.SessionUser, error)
	UpdateProfile(ctx context.Context, token, userID string, patch models.ProfilePatch) (*models.SessionUser, error)
	UserAlerts(ctx context.Context, token, owner string) ([]models.Alert, error)
	UserComments(ctx context.Context, token, userID string) ([]models.Comment, error)
}
