package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docshelf/internal/client/client"
	"github.com/dmitrijs2005/docshelf/internal/client/models"
	"github.com/dmitrijs2005/docshelf/internal/client/session"
	"github.com/dmitrijs2005/docshelf/internal/common"
	"github.com/dmitrijs2005/docshelf/internal/logging"
)

// ErrNotLoggedIn is returned by operations that need a session user.
var ErrNotLoggedIn = common.ErrNotLoggedIn

// RegisterRequest is what the signup form collects. Role defaults to
// models.RoleStudent.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the backend and start a session.
//   - Register: create an account; it does not log in.
//   - Logout: end the session.
type AuthService interface {
	Login(ctx context.Context, email, password string) (models.User, error)
	Register(ctx context.Context, req RegisterRequest) (models.User, error)
	Logout(ctx context.Context)
}

type authService struct {
	client  client.Client
	session *session.Manager
	logger  logging.Logger
}

func NewAuthService(c client.Client, sm *session.Manager, logger logging.Logger) AuthService {
	return &authService{client: c, session: sm, logger: logger.With("component", "auth")}
}

func (a *authService) Login(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: email and password are required", common.ErrInvalidInput)
	}

	u, err := a.client.Login(ctx, email, password)
	if err != nil {
		return models.User{}, err
	}

	a.session.Login(ctx, u)
	a.logger.Info(ctx, "logged in", "user_id", u.UserID)
	return u, nil
}

func (a *authService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Username == "" || req.Email == "" || req.Password == "" || req.FullName == "" {
		return models.User{}, fmt.Errorf("%w: all fields are required", common.ErrInvalidInput)
	}
	if req.Role == "" {
		req.Role = models.RoleStudent
	}

	u, err := a.client.Register(ctx, models.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: true,
	})
	if err != nil {
		return models.User{}, err
	}

	a.logger.Info(ctx, "registered", "username", req.Username)
	return u, nil
}

func (a *authService) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	a.logger.Info(ctx, "logged out")
}
