package interview

import (
	"fmt"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one turn of a conversation.
type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is an append-only ordered sequence of turns. Role alternation is
// expected by convention, not enforced structurally.
type Transcript struct {
	messages []Message
}

func (t *Transcript) append(role, text string) {
	t.messages = append(t.messages, Message{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	})
}

// Messages returns a copy of the recorded turns.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

// Flatten serializes the whole transcript as "ROLE: text" lines, the form
// consumed exactly once by profile synthesis.
func (t *Transcript) Flatten() string {
	lines := make([]string, 0, len(t.messages))
	for _, m := range t.messages {
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(m.Role), m.Text))
	}
	return strings.Join(lines, "\n")
}
