package store

import (
	"time"

	"github.com/narender4sm/inspector-assistant/internal/model/contract"
	"github.com/oklog/ulid/v2"
)

// SessionMeta is one entry in the session index.
type SessionMeta struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Turns     int       `json:"turns"`
}

// SessionIndex is the registry of known sessions, persisted as index.json.
type SessionIndex struct {
	Sessions map[string]SessionMeta `json:"sessions"`
}

// Event is one transcript line. Every committed turn becomes exactly one
// event, identified by a ULID so the file orders chronologically.
type Event struct {
	ID         string               `json:"id"`
	Time       time.Time            `json:"time"`
	Role       string               `json:"role"`
	Content    string               `json:"content,omitempty"`
	ToolCallID string               `json:"tool_call_id,omitempty"`
	ToolName   string               `json:"tool_name,omitempty"`
	ToolCalls  []*contract.ToolCall `json:"tool_calls,omitempty"`
}

func NewEvent(msg contract.Message) Event {
	return Event{
		ID:         ulid.Make().String(),
		Time:       time.Now().UTC(),
		Role:       msg.Role,
		Content:    msg.Content,
		ToolCallID: msg.ToolCallID,
		ToolName:   msg.ToolName,
		ToolCalls:  msg.ToolCalls,
	}
}

// ToMessage converts a stored event back into a conversation turn.
func (e Event) ToMessage() contract.Message {
	return contract.Message{
		Role:       e.Role,
		Content:    e.Content,
		ToolCallID: e.ToolCallID,
		ToolName:   e.ToolName,
		ToolCalls:  e.ToolCalls,
	}
}
