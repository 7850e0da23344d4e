// Package conversation orchestrates the chat lifecycle: it loads a chat,
// routes the user text to a persona, calls the completion service and persists
// the resulting turn pair with a full-record replace.
package conversation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ovn531/faisal/internal/models"
	"github.com/ovn531/faisal/internal/router"
)

// titleLimit is the number of runes of the first user message kept as the
// auto-derived chat title.
const titleLimit = 30

// ChatStore defines what the service needs from persistence.
type ChatStore interface {
	CreateChat(ctx context.Context, chat *models.Chat) error
	GetChat(ctx context.Context, id string) (*models.Chat, error)
	ListChats(ctx context.Context, limit int) ([]*models.Chat, error)
	ReplaceChat(ctx context.Context, id string, chat *models.Chat) error
	UpdateChatTitle(ctx context.Context, id, title string) error
	DeleteChat(ctx context.Context, id string) error
}

// Completer defines what the service needs from the completion providers.
type Completer interface {
	Complete(ctx context.Context, binding router.Binding, userText string) (string, error)
}

type Service struct {
	store     ChatStore
	completer Completer
	logger    *zap.Logger
}

func New(store ChatStore, completer Completer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		completer: completer,
		logger:    logger,
	}
}

// Create stores a fresh empty chat. An empty title gets the default.
func (s *Service) Create(ctx context.Context, title string) (*models.Chat, error) {
	chat := models.NewChat(title)
	if err := s.store.CreateChat(ctx, chat); err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}
	s.logger.Info("chat created", zap.String("chat_id", chat.ID))
	return chat, nil
}

// List returns chats ordered most-recently-updated first.
func (s *Service) List(ctx context.Context, limit int) ([]*models.Chat, error) {
	return s.store.ListChats(ctx, limit)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Chat, error) {
	return s.store.GetChat(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteChat(ctx, id); err != nil {
		return err
	}
	s.logger.Info("chat deleted", zap.String("chat_id", id))
	return nil
}

// Rename sets a new title without touching messages.
func (s *Service) Rename(ctx context.Context, id, title string) error {
	if title == "" {
		return fmt.Errorf("%w: title is empty", models.ErrValidation)
	}
	return s.store.UpdateChatTitle(ctx, id, title)
}

// Send appends a user turn, obtains the assistant reply and persists both with
// a single full-record replace. The completion call is attempted exactly once.
//
// Two concurrent Sends against the same chat each load-modify-replace the full
// record, so the later replace wins and silently drops the other turn pair.
// The record itself stays well-formed either way.
func (s *Service) Send(ctx context.Context, id, content string) (*models.Chat, error) {
	chat, err := s.store.GetChat(ctx, id)
	if err != nil {
		return nil, err
	}

	userMsg, err := models.NewMessage(models.RoleUser, content)
	if err != nil {
		return nil, err
	}
	chat.Messages = append(chat.Messages, userMsg)

	reply, err := s.reply(ctx, chat.ID, content)
	if err != nil {
		return nil, err
	}

	assistantMsg, err := models.NewMessage(models.RoleAssistant, reply)
	if err != nil {
		return nil, err
	}
	chat.Messages = append(chat.Messages, assistantMsg)

	// The first turn pair names the chat after the user's opening message.
	if len(chat.Messages) == 2 {
		chat.Title = deriveTitle(content)
	}
	chat.UpdatedAt = time.Now().UTC()

	if err := s.store.ReplaceChat(ctx, id, chat); err != nil {
		return nil, fmt.Errorf("persisting chat: %w", err)
	}

	s.logger.Debug("message pair persisted",
		zap.String("chat_id", chat.ID),
		zap.Int("messages", len(chat.Messages)))
	return chat, nil
}

// reply resolves the assistant reply for a user utterance: the credit trigger
// bypasses routing entirely, everything else goes through the classifier and
// the bound provider.
func (s *Service) reply(ctx context.Context, chatID, content string) (string, error) {
	if router.CreditShortCircuit(content) {
		return router.CreditReply, nil
	}

	category := router.Classify(content)
	binding := router.Select(category, chatID)
	s.logger.Debug("message routed",
		zap.String("chat_id", chatID),
		zap.String("category", string(category)),
		zap.String("provider", string(binding.Provider)),
		zap.String("model", binding.Model))

	reply, err := s.completer.Complete(ctx, binding, content)
	if err != nil {
		return "", fmt.Errorf("completing message: %w", err)
	}
	return reply, nil
}

func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return content
}
