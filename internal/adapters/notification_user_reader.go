package adapters

import (
	"context"

	identityrepo "travelquote_backend/internal/identity/repository"
	"travelquote_backend/internal/notification"

	"github.com/google/uuid"
)

// NotificationUserReader resolves notification recipients from the
// identity store.
type NotificationUserReader struct {
	repo *identityrepo.Repository
}

func NewNotificationUserReader(repo *identityrepo.Repository) *NotificationUserReader {
	return &NotificationUserReader{repo: repo}
}

func (a *NotificationUserReader) GetUserContact(ctx context.Context, userID uuid.UUID) (string, string, error) {
	user, err := a.repo.GetUser(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return user.Email, user.Name, nil
}

var _ notification.UserReader = (*NotificationUserReader)(nil)
