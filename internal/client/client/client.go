package client

import (
	"context"

	"github.com/dmitrijs2005/docshelf/internal/client/models"
)

type Client interface {
	SetToken(token string)
	Login(ctx context.Context, email, password string) (models.User, error)
	Register(ctx context.Context, reg models.Registration) (models.User, error)
	UpdateUser(ctx context.Context, userID int64, upd models.UserUpdate) (models.User, error)
	UploadProfilePicture(ctx context.Context, userID int64, filePath string) (string, error)
	ListUserDocuments(ctx context.Context, userID int64) ([]models.Document, error)
	SearchDocuments(ctx context.Context, keyword string) ([]models.Document, error)
	UploadDocument(ctx context.Context, up models.Upload) (models.Document, error)
}
