package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reliefline/internal/domain/chat"
)

func TestCreateUserAssignsSequentialIDsAndDefaults(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	first, err := s.CreateUser(ctx, UserDraft{Username: "Emma", Password: "pw"})
	require.NoError(t, err)
	second, err := s.CreateUser(ctx, UserDraft{Username: "David", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.Online, "new users start offline")
	assert.NotNil(t, first.Skills)
	assert.Empty(t, first.Skills)
	assert.NotNil(t, first.MoodExpertise)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	_, err := s.CreateUser(ctx, UserDraft{Username: "Emma", Password: "pw"})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, UserDraft{Username: "Emma", Password: "other"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	// The failed create must not have mutated anything.
	relievers, err := s.ListRelievers(ctx)
	require.NoError(t, err)
	assert.Empty(t, relievers)
	_, err = s.GetUser(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUserMergesOnlyProvidedFields(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, UserDraft{Username: "Emma", Password: "pw", Bio: "original bio"})
	require.NoError(t, err)

	online := true
	skills := []string{"Active Listening"}
	updated, err := s.UpdateUser(ctx, u.ID, UserPatch{Online: &online, Skills: &skills})
	require.NoError(t, err)

	assert.True(t, updated.Online)
	assert.Equal(t, skills, updated.Skills)
	assert.Equal(t, "original bio", updated.Bio, "untouched fields survive the merge")
	assert.Equal(t, "Emma", updated.Username)

	_, err = s.UpdateUser(ctx, 999, UserPatch{Online: &online})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindUserByName(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	created, err := s.CreateUser(ctx, UserDraft{Username: "Sarah", Password: "pw"})
	require.NoError(t, err)

	found, err := s.FindUserByName(ctx, "Sarah")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = s.FindUserByName(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRelieversFiltersAndKeepsInsertionOrder(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	_, err := s.CreateUser(ctx, UserDraft{Username: "requester-ish", Password: "pw"})
	require.NoError(t, err)
	emma, err := s.CreateUser(ctx, UserDraft{Username: "Emma", Password: "pw", IsReliever: true})
	require.NoError(t, err)
	sarah, err := s.CreateUser(ctx, UserDraft{Username: "Sarah", Password: "pw", IsReliever: true})
	require.NoError(t, err)

	relievers, err := s.ListRelievers(ctx)
	require.NoError(t, err)
	require.Len(t, relievers, 2)
	assert.Equal(t, emma.ID, relievers[0].ID)
	assert.Equal(t, sarah.ID, relievers[1].ID)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, UserDraft{Username: "Emma", Password: "pw", Skills: []string{"a"}})
	require.NoError(t, err)

	u.Username = "tampered"
	u.Skills[0] = "tampered"

	fresh, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Emma", fresh.Username)
	assert.Equal(t, []string{"a"}, fresh.Skills)
}

func TestChatCreateAndStatusUpdate(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	relieverID := int64(7)
	c, err := s.CreateChat(ctx, ChatDraft{RelieverID: &relieverID, UserAlias: "Anon42", Status: chat.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, chat.StatusActive, c.Status, "status is stored verbatim")

	require.NoError(t, s.UpdateChatStatus(ctx, c.ID, chat.StatusEnded))
	got, err := s.GetChat(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.StatusEnded, got.Status)

	assert.ErrorIs(t, s.UpdateChatStatus(ctx, 999, chat.StatusEnded), ErrNotFound)
	_, err = s.GetChat(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListChatsByReliever(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	one, two := int64(1), int64(2)
	_, err := s.CreateChat(ctx, ChatDraft{RelieverID: &one, UserAlias: "a", Status: chat.StatusActive})
	require.NoError(t, err)
	_, err = s.CreateChat(ctx, ChatDraft{RelieverID: &two, UserAlias: "b", Status: chat.StatusActive})
	require.NoError(t, err)
	_, err = s.CreateChat(ctx, ChatDraft{RelieverID: &one, UserAlias: "c", Status: chat.StatusQueued})
	require.NoError(t, err)
	_, err = s.CreateChat(ctx, ChatDraft{UserAlias: "unassigned", Status: chat.StatusQueued})
	require.NoError(t, err)

	chats, err := s.ListChatsByReliever(ctx, one)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "a", chats[0].UserAlias)
	assert.Equal(t, "c", chats[1].UserAlias)
}

func TestListChatMessagesOrderedByTimestampThenID(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	s.now = func() time.Time { return clock }

	c, err := s.CreateChat(ctx, ChatDraft{UserAlias: "Anon42", Status: chat.StatusActive})
	require.NoError(t, err)

	// Two messages share a timestamp; id order breaks the tie.
	first, err := s.CreateMessage(ctx, MessageDraft{ChatID: c.ID, Sender: chat.AliasSender("Anon42"), Content: "one"})
	require.NoError(t, err)
	second, err := s.CreateMessage(ctx, MessageDraft{ChatID: c.ID, Sender: chat.AliasSender("Anon42"), Content: "two"})
	require.NoError(t, err)

	clock = base.Add(time.Second)
	third, err := s.CreateMessage(ctx, MessageDraft{ChatID: c.ID, Sender: chat.UserSender(1), Content: "three"})
	require.NoError(t, err)

	// A message for another chat must not leak in.
	other, err := s.CreateChat(ctx, ChatDraft{UserAlias: "other", Status: chat.StatusActive})
	require.NoError(t, err)
	_, err = s.CreateMessage(ctx, MessageDraft{ChatID: other.ID, Sender: chat.AliasSender("other"), Content: "elsewhere"})
	require.NoError(t, err)

	messages, err := s.ListChatMessages(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, first.ID, messages[0].ID)
	assert.Equal(t, second.ID, messages[1].ID)
	assert.Equal(t, third.ID, messages[2].ID)

	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
}
