package notification

import (
	"context"

	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/Linn-Htet123/mini-gym-api/internal/user"
	"github.com/google/uuid"
)

// Sink is how the rest of the system emits notifications. Emission is
// best effort: failures are logged and never surface to the caller, so
// a broken queue cannot fail a check-in or an approval.
type Sink interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, typ Type, title, message string)
	NotifyAdmins(ctx context.Context, typ Type, title, message string)
	BroadcastAll(ctx context.Context, typ Type, title, message string)
}

type service struct {
	dispatcher *Dispatcher
	users      user.Repository
}

func NewService(dispatcher *Dispatcher, users user.Repository) Sink {
	return &service{dispatcher: dispatcher, users: users}
}

func (s *service) NotifyUser(ctx context.Context, userID uuid.UUID, typ Type, title, message string) {
	if err := s.dispatcher.Enqueue(ctx, Event{UserID: userID, Type: typ, Title: title, Message: message}); err != nil {
		logger.Errorf("Dropping %s notification for %s: %v", typ, userID, err)
	}
}

func (s *service) NotifyAdmins(ctx context.Context, typ Type, title, message string) {
	admins, err := s.users.ListByRole(ctx, "admin")
	if err != nil {
		logger.Errorf("Failed to resolve admins for %s notification: %v", typ, err)
		return
	}

	for _, admin := range admins {
		s.NotifyUser(ctx, admin.ID, typ, title, message)
	}
}

func (s *service) BroadcastAll(ctx context.Context, typ Type, title, message string) {
	for _, role := range []string{"member", "admin"} {
		users, err := s.users.ListByRole(ctx, role)
		if err != nil {
			logger.Errorf("Failed to resolve %s users for broadcast: %v", role, err)
			continue
		}
		for _, u := range users {
			s.NotifyUser(ctx, u.ID, typ, title, message)
		}
	}
}
