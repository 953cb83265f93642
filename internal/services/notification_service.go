package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/repository"
	"github.com/google/uuid"
)

// EventNotification is emitted when a Notice carries no event of its own.
const EventNotification = "notification"

// Notice is one domain event addressed to one user.
type Notice struct {
	Recipient *models.User
	Type      models.NotificationType
	Title     string
	Message   string
	RelatedID *uuid.UUID
	OnModel   string

	// Event and Payload form the real-time push. Payload defaults to the stored notification.
	Event   string
	Payload any

	// Email replaces the default email rendered from Title and Message.
	Email   *mailer.Email
	NoEmail bool
}

type Notifier interface {
	Notify(ctx context.Context, n Notice) (*models.Notification, error)
}

type NotificationService struct {
	repo     repository.NotificationRepository
	emitter  Emitter
	emails   EmailQueue
	recorder metrics.Recorder
}

func NewNotificationService(repo repository.NotificationRepository, emitter Emitter, emails EmailQueue, recorder metrics.Recorder) *NotificationService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &NotificationService{repo: repo, emitter: emitter, emails: emails, recorder: recorder}
}

// Notify persists, pushes and emails n. Only the persist step can fail the call:
// an offline recipient or an email that cannot be queued is logged and dropped.
func (s *NotificationService) Notify(ctx context.Context, n Notice) (*models.Notification, error) {
	if n.Recipient == nil {
		return nil, errors.New("notify: nil recipient")
	}
	if !n.Type.Valid() {
		return nil, errors.New("notify: unknown notification type " + string(n.Type))
	}

	rec := &models.Notification{
		RecipientID: n.Recipient.ID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		RelatedID:   n.RelatedID,
		OnModel:     n.OnModel,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, wrap("persist notification", err)
	}
	s.recorder.RecordNotification(string(n.Type))

	event, payload := n.Event, n.Payload
	if event == "" {
		event = EventNotification
	}
	if payload == nil {
		payload = rec
	}
	s.emitter.Emit(n.Recipient.ID.String(), event, payload)

	if !n.NoEmail {
		s.enqueue(ctx, n)
	}
	return rec, nil
}

func (s *NotificationService) enqueue(ctx context.Context, n Notice) {
	var email mailer.Email
	if n.Email != nil {
		email = *n.Email
	} else {
		email = mailer.Compose(n.Recipient.Email, n.Title, mailer.Content{
			Heading:    n.Title,
			Greeting:   n.Recipient.Name,
			Paragraphs: []string{n.Message},
		})
	}
	if email.To == "" {
		email.To = n.Recipient.Email
	}

	if err := s.emails.Enqueue(ctx, email); err != nil {
		s.recorder.RecordEmailFailed("enqueue")
		slog.Error("failed to queue notification email",
			"recipient", n.Recipient.ID, "type", n.Type, "error", err)
	}
}

// List returns the caller's notifications newest first and how many are unread.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, int64, error) {
	list, err := s.repo.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if list == nil {
		list = []models.Notification{}
	}
	return list, unread, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}
