package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"chat-relay/internal/auth"
	"chat-relay/internal/models"
	"chat-relay/internal/store"
	"chat-relay/internal/ws"
)

var (
	// ErrInvalidText rejects a message that is empty after trimming or longer
	// than maxTextLen characters.
	ErrInvalidText = errors.New("invalid message text")
)

const (
	maxTextLen          = 1000
	defaultHistoryLimit = 30
)

// ChatService is the request/response side of the relay: message ingestion
// plus the profile and history read paths.
type ChatService struct {
	extractor *auth.Extractor
	store     *store.Client
	hub       *ws.Hub
}

func NewChatService(extractor *auth.Extractor, st *store.Client, hub *ws.Hub) *ChatService {
	return &ChatService{extractor: extractor, store: st, hub: hub}
}

// SendMessage authenticates the caller from initData, validates the text,
// persists through the store, and fans the canonical stored message out to
// every connected user, sender included. Returns auth.ErrInvalidInitData,
// ErrInvalidText, or store.ErrUnavailable.
func (s *ChatService) SendMessage(ctx context.Context, initData, text string, replyToID *int64) (json.RawMessage, error) {
	userID, err := s.extractor.UserID(initData)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxTextLen {
		return nil, ErrInvalidText
	}

	message, err := s.store.SaveMessage(ctx, userID, text, replyToID)
	if err != nil {
		return nil, err
	}

	s.hub.Broadcast(ws.NewMessage(message), 0)
	return message, nil
}

// Profile fetches a user profile from the store.
func (s *ChatService) Profile(ctx context.Context, userID int64) (*models.Profile, error) {
	return s.store.UserProfile(ctx, userID)
}

// Messages lists persisted messages. A store failure degrades to an empty
// page, "no data yet" rather than an error.
func (s *ChatService) Messages(ctx context.Context, limit int, beforeID int64) *models.MessagesPage {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	page, err := s.store.Messages(ctx, limit, beforeID)
	if err != nil || page.Messages == nil {
		return &models.MessagesPage{Messages: []json.RawMessage{}, HasMore: false}
	}
	return page
}

// OnlineCount reports the number of users currently on the realtime channel.
func (s *ChatService) OnlineCount() int {
	return s.hub.Registry().Count()
}
