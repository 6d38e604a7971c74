package services

import (
	"context"
	"strings"

	"adminhub/internal/apperr"
	"adminhub/internal/domain"
	"adminhub/internal/repository"
)

type NotificationInput struct {
	UserID  uint64
	Title   string
	Message string
	Type    domain.NotificationType
	Link    string
}

type NotificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) *NotificationService {
	return &NotificationService{store: store}
}

// ListNotifications returns the caller's newest notifications.
func (s *NotificationService) ListNotifications(ctx context.Context, caller uint64) ([]domain.Notification, error) {
	out, err := s.store.Repos().Notifications.ListByUser(ctx, caller, domain.NotificationListLimit)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch notifications", err)
	}
	if out == nil {
		out = []domain.Notification{}
	}
	return out, nil
}

func (s *NotificationService) CreateNotification(ctx context.Context, in NotificationInput) (*domain.Notification, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Message) == "" || in.UserID == 0 {
		return nil, apperr.Validation("Missing required fields")
	}
	if in.Type == "" {
		in.Type = domain.NotifyInfo
	}
	if !in.Type.Valid() {
		return nil, apperr.Validation("Invalid notification type: %s", in.Type)
	}
	if _, err := s.store.Repos().Users.FindByID(ctx, in.UserID); err != nil {
		return nil, notFoundOr(err, apperr.NotFound("User not found"))
	}

	n := &domain.Notification{
		UserID:  in.UserID,
		Title:   strings.TrimSpace(in.Title),
		Message: strings.TrimSpace(in.Message),
		Type:    in.Type,
		Link:    strings.TrimSpace(in.Link),
	}
	if err := s.store.Repos().Notifications.Create(ctx, n); err != nil {
		return nil, apperr.Internal("Failed to create notification", err)
	}
	return n, nil
}

func (s *NotificationService) owned(ctx context.Context, caller, id uint64) (*domain.Notification, error) {
	n, err := s.store.Repos().Notifications.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.NotFound("Notification not found"))
	}
	if !n.OwnedBy(caller) {
		return nil, apperr.Forbidden("Unauthorized")
	}
	return n, nil
}

func (s *NotificationService) MarkNotification(ctx context.Context, caller, id uint64, isRead bool) (*domain.Notification, error) {
	n, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	n.IsRead = isRead
	if err := s.store.Repos().Notifications.Update(ctx, n); err != nil {
		return nil, notFoundOr(err, apperr.NotFound("Notification not found"))
	}
	return n, nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, caller, id uint64) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.store.Repos().Notifications.Delete(ctx, id); err != nil {
		return notFoundOr(err, apperr.NotFound("Notification not found"))
	}
	return nil
}
