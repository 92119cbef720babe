package chat

import (
	"github.com/narender4sm/inspector-assistant/internal/model/contract"
	"github.com/oklog/ulid/v2"
)

// Session is the append-only turn log for one conversation. Turns are never
// edited or removed once committed; discarding the whole session is the only
// reset.
type Session struct {
	id       string
	messages []contract.Message
}

func NewSession() *Session {
	return &Session{id: ulid.Make().String()}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Append(msg contract.Message) {
	s.messages = append(s.messages, msg)
}

// Messages returns a copy of the turn log so callers cannot mutate history.
func (s *Session) Messages() []contract.Message {
	out := make([]contract.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Len() int {
	return len(s.messages)
}
