package chat

import (
	"encoding/json"
	"strconv"
	"time"
)

// Status is the lifecycle state of a support chat.
type Status string

const (
	// StatusQueued means the requester is waiting for a reliever.
	StatusQueued Status = "queued"
	// StatusActive means a reliever is engaged with the requester.
	StatusActive Status = "active"
	// StatusEnded is terminal; no further messages are accepted.
	StatusEnded Status = "ended"
)

// Valid reports whether s is one of the known chat statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusActive, StatusEnded:
		return true
	}
	return false
}

// Chat is one support session between an anonymous requester and an
// optionally assigned reliever. RelieverID is nil until a reliever is
// attached to the session.
type Chat struct {
	ID         int64     `json:"id"`
	RelieverID *int64    `json:"relieverId"`
	UserAlias  string    `json:"userAlias"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SenderID identifies the author of a message: either a registered user
// (numeric id) or an anonymous requester known only by alias. On the wire
// it is a single string: decimal digits for a user id, anything else is
// an alias.
type SenderID struct {
	UserID int64
	Alias  string
}

// UserSender builds a SenderID for a registered user.
func UserSender(id int64) SenderID { return SenderID{UserID: id} }

// AliasSender builds a SenderID for an anonymous requester alias.
func AliasSender(alias string) SenderID { return SenderID{Alias: alias} }

// ParseSenderID interprets a raw wire identifier. Purely numeric strings
// are user ids; everything else is treated as a requester alias.
func ParseSenderID(raw string) SenderID {
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
		return SenderID{UserID: id}
	}
	return SenderID{Alias: raw}
}

// IsUser reports whether the sender is a registered user.
func (s SenderID) IsUser() bool { return s.UserID != 0 }

// String renders the wire form of the sender identifier.
func (s SenderID) String() string {
	if s.IsUser() {
		return strconv.FormatInt(s.UserID, 10)
	}
	return s.Alias
}

// MarshalJSON encodes the sender as the protocol's single string form.
func (s SenderID) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the protocol's single string form.
func (s *SenderID) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseSenderID(raw)
	return nil
}

// Message is one immutable chat utterance.
type Message struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chatId"`
	Sender    SenderID  `json:"senderId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
