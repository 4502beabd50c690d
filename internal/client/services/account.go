package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/docshelf/internal/client/client"
	"github.com/dmitrijs2005/docshelf/internal/client/models"
	"github.com/dmitrijs2005/docshelf/internal/client/session"
	"github.com/dmitrijs2005/docshelf/internal/common"
	"github.com/dmitrijs2005/docshelf/internal/filex"
	"github.com/dmitrijs2005/docshelf/internal/logging"
)

// AccountService edits the logged-in user's account. Successful edits are
// written back to the session as profile updates.
type AccountService interface {
	UpdateProfile(ctx context.Context, upd models.UserUpdate) (models.User, error)
	ChangePassword(ctx context.Context, password string) error
	UploadAvatar(ctx context.Context, path string) (models.User, error)
}

type accountService struct {
	client  client.Client
	session *session.Manager
	logger  logging.Logger
}

func NewAccountService(c client.Client, sm *session.Manager, logger logging.Logger) AccountService {
	return &accountService{client: c, session: sm, logger: logger.With("component", "account")}
}

func (s *accountService) currentUser() (models.User, error) {
	st := s.session.State()
	if st.User == nil {
		return models.User{}, ErrNotLoggedIn
	}
	return *st.User, nil
}

// UpdateProfile sends the non-nil fields of upd. The session keeps its token
// and picks up whatever the backend echoed back.
func (s *accountService) UpdateProfile(ctx context.Context, upd models.UserUpdate) (models.User, error) {
	cur, err := s.currentUser()
	if err != nil {
		return models.User{}, err
	}
	upd.Password = nil

	echoed, err := s.client.UpdateUser(ctx, cur.UserID, upd)
	if err != nil {
		return models.User{}, err
	}

	next := cur.Apply(upd)
	if echoed.ProfilePicture != "" {
		next.ProfilePicture = echoed.ProfilePicture
	}
	s.session.SetUser(ctx, next)
	return next, nil
}

func (s *accountService) ChangePassword(ctx context.Context, password string) error {
	cur, err := s.currentUser()
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrInvalidInput)
	}

	if _, err := s.client.UpdateUser(ctx, cur.UserID, models.UserUpdate{Password: &password}); err != nil {
		return err
	}
	s.logger.Info(ctx, "password changed", "user_id", cur.UserID)
	return nil
}

func (s *accountService) UploadAvatar(ctx context.Context, path string) (models.User, error) {
	cur, err := s.currentUser()
	if err != nil {
		return models.User{}, err
	}

	ok, err := filex.Exists(path)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, fmt.Errorf("%w: %s is not a file", common.ErrInvalidInput, path)
	}

	url, err := s.client.UploadProfilePicture(ctx, cur.UserID, path)
	if err != nil {
		return models.User{}, err
	}

	cur.ProfilePicture = url
	s.session.SetUser(ctx, cur)
	return cur, nil
}
