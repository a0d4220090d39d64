package chat

import (
	"sync"

	"github.com/shohruz/portfolio-backend-go/internal/domain"
)

// Conversation is one session's append-only transcript. While a turn is in
// flight the conversation is busy and further submissions are rejected, so
// turns can never interleave or reorder.
type Conversation struct {
	mu    sync.Mutex
	id    string
	turns []domain.Turn
	busy  bool
}

func newConversation(id, greeting string) *Conversation {
	return &Conversation{
		id: id,
		turns: []domain.Turn{
			{Role: domain.RoleAssistant, Content: greeting},
		},
	}
}

func restoreConversation(id string, turns []domain.Turn) *Conversation {
	return &Conversation{id: id, turns: turns}
}

func (c *Conversation) ID() string {
	return c.id
}

// begin marks the conversation busy and optimistically appends the user turn.
// Reports false when another turn is already in flight.
func (c *Conversation) begin(utterance string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	c.turns = append(c.turns, domain.Turn{Role: domain.RoleUser, Content: utterance})
	return true
}

// finish appends the assistant reply and releases the busy gate.
func (c *Conversation) finish(reply string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, domain.Turn{Role: domain.RoleAssistant, Content: reply})
	c.busy = false
}

// Transcript returns a copy of the turns in submission order.
func (c *Conversation) Transcript() *domain.Transcript {
	c.mu.Lock()
	defer c.mu.Unlock()
	turns := make([]domain.Turn, len(c.turns))
	copy(turns, c.turns)
	return &domain.Transcript{SessionID: c.id, Turns: turns}
}
