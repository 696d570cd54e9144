// Package protocol defines the JSON frame format exchanged over a support
// chat connection and the decoding of inbound frames into a closed set of
// typed events.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"reliefline/internal/domain/chat"
)

// EventType is the discriminator carried in every frame.
type EventType string

const (
	// EventIdentify binds the connection to a user id. C2S, no reply.
	EventIdentify EventType = "identify"
	// EventStartChat opens a new support session. C2S.
	EventStartChat EventType = "start_chat"
	// EventSendMessage posts one utterance into an existing chat. C2S.
	EventSendMessage EventType = "send_message"

	// EventChatRequest notifies a reliever of a newly opened chat. S2C.
	EventChatRequest EventType = "chat_request"
	// EventNewMessage notifies a reliever of a new chat message. S2C.
	EventNewMessage EventType = "new_message"
	// EventError reports a validation or dispatch failure to the
	// originating connection. S2C.
	EventError EventType = "error"
)

// ErrInvalidPayload marks frames whose payload is missing required fields
// or carries the wrong types. The wrapped message is safe to echo back to
// the client.
var ErrInvalidPayload = errors.New("invalid payload")

// Event is one outbound JSON frame.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ChatRequestEvent builds the frame pushed to a reliever when a requester
// opens a chat with them.
func ChatRequestEvent(c *chat.Chat) Event {
	return Event{Type: EventChatRequest, Payload: c}
}

// NewMessageEvent builds the frame pushed to a reliever for each message
// posted into one of their chats.
func NewMessageEvent(m *chat.Message) Event {
	return Event{Type: EventNewMessage, Payload: m}
}

// ErrorEvent builds the frame answered on the originating connection when
// an inbound frame cannot be processed.
func ErrorEvent(message string) Event {
	return Event{Type: EventError, Payload: ErrorPayload{Message: message}}
}

// ErrorPayload is the payload of an EventError frame.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Inbound is the closed set of decoded client events. Exactly one of
// Identify, StartChat, SendMessage or Ignored comes out of Decode.
type Inbound interface {
	inbound()
}

// Identify binds the current connection to a user identity.
type Identify struct {
	UserID int64
}

// StartChat opens a support session, optionally pre-assigned to a
// reliever. Status is stored verbatim.
type StartChat struct {
	RelieverID *int64
	UserAlias  string
	Status     chat.Status
}

// SendMessage posts one utterance into an existing chat.
type SendMessage struct {
	ChatID  int64
	Sender  chat.SenderID
	Content string
}

// Ignored is the decoded form of a frame with an unrecognized type. The
// router drops it without an error; that permissive default is part of
// the protocol.
type Ignored struct {
	Type EventType
}

func (Identify) inbound()    {}
func (StartChat) inbound()   {}
func (SendMessage) inbound() {}
func (Ignored) inbound()     {}

// envelope is the raw shape of any inbound frame.
type envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type identifyPayload struct {
	UserID *int64 `json:"userId"`
}

type startChatPayload struct {
	RelieverID *int64       `json:"relieverId"`
	UserAlias  *string      `json:"userAlias"`
	Status     *chat.Status `json:"status"`
}

type sendMessagePayload struct {
	ChatID   *int64  `json:"chatId"`
	SenderID *string `json:"senderId"`
	Content  *string `json:"content"`
}

// Decode parses one raw frame into its typed event. Malformed JSON and
// payloads missing required fields (or carrying the wrong types) return
// an error wrapping ErrInvalidPayload; unknown frame types decode to
// Ignored rather than failing.
func Decode(raw []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON frame", ErrInvalidPayload)
	}

	switch env.Type {
	case EventIdentify:
		var p identifyPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: identify: %s", ErrInvalidPayload, payloadTypeHint(err))
		}
		if p.UserID == nil {
			return nil, fmt.Errorf("%w: identify: userId is required", ErrInvalidPayload)
		}
		return Identify{UserID: *p.UserID}, nil

	case EventStartChat:
		var p startChatPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: start_chat: %s", ErrInvalidPayload, payloadTypeHint(err))
		}
		if p.UserAlias == nil || *p.UserAlias == "" {
			return nil, fmt.Errorf("%w: start_chat: userAlias is required", ErrInvalidPayload)
		}
		if p.Status == nil || !p.Status.Valid() {
			return nil, fmt.Errorf("%w: start_chat: status must be one of queued, active, ended", ErrInvalidPayload)
		}
		return StartChat{RelieverID: p.RelieverID, UserAlias: *p.UserAlias, Status: *p.Status}, nil

	case EventSendMessage:
		var p sendMessagePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: send_message: %s", ErrInvalidPayload, payloadTypeHint(err))
		}
		if p.ChatID == nil {
			return nil, fmt.Errorf("%w: send_message: chatId is required", ErrInvalidPayload)
		}
		if p.SenderID == nil || *p.SenderID == "" {
			return nil, fmt.Errorf("%w: send_message: senderId is required", ErrInvalidPayload)
		}
		if p.Content == nil || *p.Content == "" {
			return nil, fmt.Errorf("%w: send_message: content is required", ErrInvalidPayload)
		}
		return SendMessage{ChatID: *p.ChatID, Sender: chat.ParseSenderID(*p.SenderID), Content: *p.Content}, nil

	default:
		return Ignored{Type: env.Type}, nil
	}
}

// payloadTypeHint turns a json unmarshal error into a short client-safe
// description without leaking Go type names verbatim for the common case.
func payloadTypeHint(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("field %s has the wrong type", typeErr.Field)
	}
	return "payload is malformed"
}
