package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a community chat post.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"senderId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	Sender    *User     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
