// Package session owns the support chat lifecycle: opening sessions,
// posting messages into them, and advancing their status.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"reliefline/internal/domain/chat"
	"reliefline/internal/protocol"
	"reliefline/internal/store"
)

// Notifier pushes an outbound event toward a user's live connection.
// Satisfied by *registry.Registry. Delivery is best-effort; there is no
// failure signal.
type Notifier interface {
	Send(userID int64, evt protocol.Event)
}

// Manager drives the chat state machine on top of the store and pushes
// reliever-directed notifications. Only the reliever side of a chat is
// ever notified; requesters poll history over HTTP. That asymmetry
// matches the current protocol and is covered by tests as documented
// behavior.
type Manager struct {
	store    store.Store
	notifier Notifier
}

// NewManager wires a session manager to its store and notifier.
func NewManager(st store.Store, notifier Notifier) *Manager {
	return &Manager{store: st, notifier: notifier}
}

// StartChat creates a chat with the given status taken verbatim. When a
// reliever is pre-assigned and exists, a chat_request event is pushed at
// their connection, fire-and-forget: no check that they are online or
// willing.
func (m *Manager) StartChat(ctx context.Context, relieverID *int64, userAlias string, status chat.Status) (*chat.Chat, error) {
	c, err := m.store.CreateChat(ctx, store.ChatDraft{
		RelieverID: relieverID,
		UserAlias:  userAlias,
		Status:     status,
	})
	if err != nil {
		return nil, fmt.Errorf("start chat: %w", err)
	}
	log.Printf("SESSION: Chat %d opened by '%s' (status '%s').", c.ID, c.UserAlias, c.Status)

	if c.RelieverID != nil {
		if _, err := m.store.GetUser(ctx, *c.RelieverID); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Printf("SESSION_ERROR: Looking up reliever %d for chat %d: %v", *c.RelieverID, c.ID, err)
			}
		} else {
			m.notifier.Send(*c.RelieverID, protocol.ChatRequestEvent(c))
		}
	}
	return c, nil
}

// PostMessage persists one utterance in an existing chat and, when the
// chat has an assigned reliever, pushes a new_message event at them.
// Referencing an unknown chat fails before anything is written.
func (m *Manager) PostMessage(ctx context.Context, chatID int64, sender chat.SenderID, content string) (*chat.Message, error) {
	c, err := m.store.GetChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}

	msg, err := m.store.CreateMessage(ctx, store.MessageDraft{
		ChatID:  chatID,
		Sender:  sender,
		Content: content,
	})
	if err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}

	if c.RelieverID != nil {
		m.notifier.Send(*c.RelieverID, protocol.NewMessageEvent(msg))
	}
	return msg, nil
}

// SetStatus advances a chat's status. It is a direct pass-through: the
// store rejects unknown chats, and no transition legality is enforced
// here or below.
func (m *Manager) SetStatus(ctx context.Context, chatID int64, status chat.Status) error {
	if err := m.store.UpdateChatStatus(ctx, chatID, status); err != nil {
		return fmt.Errorf("set chat status: %w", err)
	}
	return nil
}
