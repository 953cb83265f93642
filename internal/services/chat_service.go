package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const (
	EventNewMessage = "newMessage"

	chatHistoryLimit = 50
	maxMessageLength = 1000
)

type ChatService struct {
	messages repository.MessageRepository
	emitter  Emitter
	policy   *bluemonday.Policy
}

func NewChatService(messages repository.MessageRepository, emitter Emitter) *ChatService {
	return &ChatService{messages: messages, emitter: emitter, policy: bluemonday.StrictPolicy()}
}

func (s *ChatService) Recent(ctx context.Context) ([]models.Message, error) {
	msgs, err := s.messages.ListRecent(ctx, chatHistoryLimit)
	if err != nil {
		return nil, err
	}
	return nonNil(msgs), nil
}

// Send stores a plain-text message and broadcasts it to every connection.
func (s *ChatService) Send(ctx context.Context, senderID uuid.UUID, content string) (*models.Message, error) {
	content = strings.TrimSpace(s.policy.Sanitize(content))
	if content == "" {
		return nil, Validation("Message content is required")
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, Validation("Message must be at most 1000 characters")
	}

	msg := &models.Message{SenderID: senderID, Content: content}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, wrap("create message", err)
	}
	s.emitter.Broadcast(EventNewMessage, msg)
	return msg, nil
}
