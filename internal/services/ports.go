package services

import (
	"context"
	"io"
	"time"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/mailer"
)

// FileStore holds uploaded resumes.
type FileStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Emitter pushes a real-time event to one room or to every connection.
type Emitter interface {
	Emit(room, event string, data any)
	Broadcast(event string, data any)
}

// EmailQueue accepts email for asynchronous delivery.
type EmailQueue interface {
	Enqueue(ctx context.Context, e mailer.Email) error
}

// Upload is a file received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
