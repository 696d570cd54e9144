package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"reliefline/internal/domain/chat"
	"reliefline/internal/domain/user"
)

// UserDraft carries the caller-supplied fields for a new user. Online is
// deliberately absent: every account starts offline and flips online only
// through an explicit update.
type UserDraft struct {
	Username      string   `json:"username"`
	Password      string   `json:"password"`
	IsReliever    bool     `json:"isReliever"`
	Avatar        string   `json:"avatar"`
	Skills        []string `json:"skills"`
	Bio           string   `json:"bio"`
	MoodExpertise []string `json:"moodExpertise"`
}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	Username      *string   `json:"username"`
	Password      *string   `json:"password"`
	IsReliever    *bool     `json:"isReliever"`
	Avatar        *string   `json:"avatar"`
	Skills        *[]string `json:"skills"`
	Bio           *string   `json:"bio"`
	MoodExpertise *[]string `json:"moodExpertise"`
	Online        *bool     `json:"online"`
}

// ChatDraft carries the caller-supplied fields for a new chat. Status is
// stored verbatim; transition rules live with the session manager.
type ChatDraft struct {
	RelieverID *int64      `json:"relieverId"`
	UserAlias  string      `json:"userAlias"`
	Status     chat.Status `json:"status"`
}

// MessageDraft carries the caller-supplied fields for a new message.
type MessageDraft struct {
	ChatID  int64         `json:"chatId"`
	Sender  chat.SenderID `json:"senderId"`
	Content string        `json:"content"`
}

// Store is the authoritative repository for users, chats and messages.
// Each operation is atomic: it either fully succeeds and is immediately
// visible to subsequent calls, or fails without mutating state. Keeping
// this behind an interface lets a durable backend replace the in-memory
// implementation without touching the router or session manager.
type Store interface {
	CreateUser(ctx context.Context, draft UserDraft) (*user.User, error)
	GetUser(ctx context.Context, id int64) (*user.User, error)
	FindUserByName(ctx context.Context, username string) (*user.User, error)
	UpdateUser(ctx context.Context, id int64, patch UserPatch) (*user.User, error)
	ListRelievers(ctx context.Context) ([]*user.User, error)

	CreateChat(ctx context.Context, draft ChatDraft) (*chat.Chat, error)
	GetChat(ctx context.Context, id int64) (*chat.Chat, error)
	ListChatsByReliever(ctx context.Context, relieverID int64) ([]*chat.Chat, error)
	UpdateChatStatus(ctx context.Context, id int64, status chat.Status) error

	CreateMessage(ctx context.Context, draft MessageDraft) (*chat.Message, error)
	ListChatMessages(ctx context.Context, chatID int64) ([]*chat.Message, error)
}

// MemStore keeps every collection in process memory, guarded by one mutex
// per collection. Ids are assigned from independent monotonic counters and
// are never reused. All state is lost on restart; that is the intended
// scope of this backend, not an oversight.
type MemStore struct {
	usersMu    sync.RWMutex
	users      map[int64]*user.User
	nextUserID int64

	chatsMu    sync.RWMutex
	chats      map[int64]*chat.Chat
	nextChatID int64

	messagesMu    sync.RWMutex
	messages      map[int64]*chat.Message
	nextMessageID int64

	now func() time.Time // overridable in tests
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		users:    make(map[int64]*user.User),
		chats:    make(map[int64]*chat.Chat),
		messages: make(map[int64]*chat.Message),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ Store = (*MemStore)(nil)

// CreateUser assigns the next user id and stores the record. Unset
// optional fields default: Online=false, slices to empty. Fails with
// ErrUsernameTaken if the display name is already present.
func (s *MemStore) CreateUser(_ context.Context, draft UserDraft) (*user.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	for _, existing := range s.users {
		if existing.Username == draft.Username {
			return nil, fmt.Errorf("create user %q: %w", draft.Username, ErrUsernameTaken)
		}
	}

	s.nextUserID++
	u := &user.User{
		ID:            s.nextUserID,
		Username:      draft.Username,
		Password:      draft.Password,
		IsReliever:    draft.IsReliever,
		Avatar:        draft.Avatar,
		Skills:        draft.Skills,
		Bio:           draft.Bio,
		MoodExpertise: draft.MoodExpertise,
		Online:        false,
		CreatedAt:     s.now(),
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	if u.MoodExpertise == nil {
		u.MoodExpertise = []string{}
	}
	s.users[u.ID] = u
	return cloneUser(u), nil
}

// GetUser returns the user with the given id, or ErrNotFound.
func (s *MemStore) GetUser(_ context.Context, id int64) (*user.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return cloneUser(u), nil
}

// FindUserByName looks a user up by display name, or returns ErrNotFound.
func (s *MemStore) FindUserByName(_ context.Context, username string) (*user.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
}

// UpdateUser merges the provided fields into the existing record and
// returns the updated user. Fails with ErrNotFound for unknown ids.
func (s *MemStore) UpdateUser(_ context.Context, id int64, patch UserPatch) (*user.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("update user %d: %w", id, ErrNotFound)
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.IsReliever != nil {
		u.IsReliever = *patch.IsReliever
	}
	if patch.Avatar != nil {
		u.Avatar = *patch.Avatar
	}
	if patch.Skills != nil {
		u.Skills = *patch.Skills
	}
	if patch.Bio != nil {
		u.Bio = *patch.Bio
	}
	if patch.MoodExpertise != nil {
		u.MoodExpertise = *patch.MoodExpertise
	}
	if patch.Online != nil {
		u.Online = *patch.Online
	}
	return cloneUser(u), nil
}

// ListRelievers returns every user with the reliever flag set, in
// insertion (id) order. The order is stable for the process lifetime.
func (s *MemStore) ListRelievers(_ context.Context) ([]*user.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	relievers := make([]*user.User, 0)
	for _, u := range s.users {
		if u.IsReliever {
			relievers = append(relievers, cloneUser(u))
		}
	}
	sort.Slice(relievers, func(i, j int) bool { return relievers[i].ID < relievers[j].ID })
	return relievers, nil
}

// CreateChat assigns the next chat id and stores the record. The status
// is taken verbatim from the draft.
func (s *MemStore) CreateChat(_ context.Context, draft ChatDraft) (*chat.Chat, error) {
	s.chatsMu.Lock()
	defer s.chatsMu.Unlock()

	s.nextChatID++
	c := &chat.Chat{
		ID:         s.nextChatID,
		RelieverID: draft.RelieverID,
		UserAlias:  draft.UserAlias,
		Status:     draft.Status,
		CreatedAt:  s.now(),
	}
	s.chats[c.ID] = c
	return cloneChat(c), nil
}

// GetChat returns the chat with the given id, or ErrNotFound.
func (s *MemStore) GetChat(_ context.Context, id int64) (*chat.Chat, error) {
	s.chatsMu.RLock()
	defer s.chatsMu.RUnlock()
	c, ok := s.chats[id]
	if !ok {
		return nil, fmt.Errorf("chat %d: %w", id, ErrNotFound)
	}
	return cloneChat(c), nil
}

// ListChatsByReliever returns every chat assigned to the reliever, in
// insertion (id) order.
func (s *MemStore) ListChatsByReliever(_ context.Context, relieverID int64) ([]*chat.Chat, error) {
	s.chatsMu.RLock()
	defer s.chatsMu.RUnlock()

	chats := make([]*chat.Chat, 0)
	for _, c := range s.chats {
		if c.RelieverID != nil && *c.RelieverID == relieverID {
			chats = append(chats, cloneChat(c))
		}
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].ID < chats[j].ID })
	return chats, nil
}

// UpdateChatStatus overwrites the chat's status. It does not validate the
// transition; that responsibility stays with the session manager.
func (s *MemStore) UpdateChatStatus(_ context.Context, id int64, status chat.Status) error {
	s.chatsMu.Lock()
	defer s.chatsMu.Unlock()

	c, ok := s.chats[id]
	if !ok {
		return fmt.Errorf("update chat %d status: %w", id, ErrNotFound)
	}
	c.Status = status
	return nil
}

// CreateMessage assigns the next message id and stores the record.
// Messages are immutable once created.
func (s *MemStore) CreateMessage(_ context.Context, draft MessageDraft) (*chat.Message, error) {
	s.messagesMu.Lock()
	defer s.messagesMu.Unlock()

	s.nextMessageID++
	m := &chat.Message{
		ID:        s.nextMessageID,
		ChatID:    draft.ChatID,
		Sender:    draft.Sender,
		Content:   draft.Content,
		CreatedAt: s.now(),
	}
	s.messages[m.ID] = m
	return cloneMessage(m), nil
}

// ListChatMessages returns the chat's messages ordered by creation
// timestamp ascending; ties are broken by id ascending, which is the
// insertion order of record.
func (s *MemStore) ListChatMessages(_ context.Context, chatID int64) ([]*chat.Message, error) {
	s.messagesMu.RLock()
	defer s.messagesMu.RUnlock()

	messages := make([]*chat.Message, 0)
	for _, m := range s.messages {
		if m.ChatID == chatID {
			messages = append(messages, cloneMessage(m))
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

// The store is the single writer for all three collections; callers get
// copies so nothing they hold can drift from the authoritative record.

func cloneUser(u *user.User) *user.User {
	out := *u
	out.Skills = make([]string, len(u.Skills))
	copy(out.Skills, u.Skills)
	out.MoodExpertise = make([]string, len(u.MoodExpertise))
	copy(out.MoodExpertise, u.MoodExpertise)
	return &out
}

func cloneChat(c *chat.Chat) *chat.Chat {
	out := *c
	if c.RelieverID != nil {
		id := *c.RelieverID
		out.RelieverID = &id
	}
	return &out
}

func cloneMessage(m *chat.Message) *chat.Message {
	out := *m
	return &out
}
