package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrValidation is returned when a caller-supplied field is missing or malformed.
var ErrValidation = errors.New("validation failed")

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultChatTitle is the title given to a chat created without one.
const DefaultChatTitle = "محادثة جديدة"

type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // user or assistant
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMessage builds a message with a fresh id and timestamp. Role must be
// user or assistant and content must be non-empty.
func NewMessage(role, content string) (Message, error) {
	if role != RoleUser && role != RoleAssistant {
		return Message{}, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if content == "" {
		return Message{}, fmt.Errorf("%w: content is empty", ErrValidation)
	}
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}, nil
}

// NewChat builds an empty chat. An empty title falls back to the default.
// CreatedAt and UpdatedAt start equal.
func NewChat(title string) *Chat {
	if title == "" {
		title = DefaultChatTitle
	}
	now := time.Now().UTC()
	return &Chat{
		ID:        uuid.New().String(),
		Title:     title,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
