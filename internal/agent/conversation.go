package agent

import (
	"sync"

	"github.com/cleberfarias/chatia-core/internal/models"
)

// WindowSize bounds each (persona, user) conversation window. Once full,
// the oldest turn is dropped for every turn appended.
const WindowSize = 10

type window struct {
	mu    sync.Mutex
	turns []models.Turn
}

func (w *window) snapshot() []models.Turn {
	return append([]models.Turn(nil), w.turns...)
}

func (w *window) append(turns ...models.Turn) {
	w.turns = append(w.turns, turns...)
	if n := len(w.turns); n > WindowSize {
		w.turns = w.turns[n-WindowSize:]
	}
}

// Conversations holds the in-memory history windows for every
// (persona, user) pair. Windows are independent: the same user talking to
// two personas has two histories, and clearing one leaves the other alone.
type Conversations struct {
	mu      sync.Mutex
	windows map[string]*window
}

func NewConversations() *Conversations {
	return &Conversations{windows: make(map[string]*window)}
}

func conversationKey(personaKey, userID string) string {
	return personaKey + "|" + userID
}

// acquire returns the window for a conversation, creating it on first use.
// The per-window mutex lets the manager serialize generation per
// conversation without blocking unrelated ones.
func (c *Conversations) acquire(personaKey, userID string) *window {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := conversationKey(personaKey, userID)
	w, ok := c.windows[key]
	if !ok {
		w = &window{}
		c.windows[key] = w
	}
	return w
}

// History returns a copy of the conversation window, oldest turn first.
func (c *Conversations) History(personaKey, userID string) []models.Turn {
	w := c.acquire(personaKey, userID)
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

// Len returns the number of turns currently held for a conversation.
func (c *Conversations) Len(personaKey, userID string) int {
	w := c.acquire(personaKey, userID)
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.turns)
}

// Reset discards the history of a single conversation.
func (c *Conversations) Reset(personaKey, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.windows, conversationKey(personaKey, userID))
}
