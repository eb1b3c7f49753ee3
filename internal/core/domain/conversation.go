package domain

import "time"

// Exchange is one question/answer turn in a conversation.
type Exchange struct {
	// Question is what the user asked.
	Question string

	// Answer is the generated response.
	Answer string

	// AskedAt is when the exchange happened.
	AskedAt time.Time
}

// Conversation holds recent question/answer exchanges. It lives in
// process memory only and is bounded by a maximum length; older
// exchanges fall off the front.
type Conversation struct {
	exchanges []Exchange
	max       int
}

// NewConversation creates a conversation retaining at most max exchanges.
// A non-positive max falls back to a single exchange.
func NewConversation(max int) *Conversation {
	if max <= 0 {
		max = 1
	}
	return &Conversation{max: max}
}

// Add appends an exchange, evicting the oldest when over capacity.
func (c *Conversation) Add(ex Exchange) {
	c.exchanges = append(c.exchanges, ex)
	if len(c.exchanges) > c.max {
		c.exchanges = c.exchanges[len(c.exchanges)-c.max:]
	}
}

// Recent returns up to n of the most recent exchanges, oldest first.
func (c *Conversation) Recent(n int) []Exchange {
	if n <= 0 || len(c.exchanges) == 0 {
		return nil
	}
	if n > len(c.exchanges) {
		n = len(c.exchanges)
	}
	out := make([]Exchange, n)
	copy(out, c.exchanges[len(c.exchanges)-n:])
	return out
}

// Len returns the number of retained exchanges.
func (c *Conversation) Len() int {
	return len(c.exchanges)
}

// Clear discards all exchanges.
func (c *Conversation) Clear() {
	c.exchanges = nil
}
