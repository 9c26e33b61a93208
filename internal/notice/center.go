package notice

import (
	"sync"
	"time"
)

// Kind is the flavor of a user-facing notice.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Notice is a short-lived human-readable message shown to one user.
// Every outcome of the mutation protocol, success or failure, is
// reported this way; nothing is thrown past the core.
type Notice struct {
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
}

// Center holds at most one current notice per user and expires it
// automatically. Posting a new notice replaces the previous one and
// restarts the clock.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notice
	shownAt time.Time
	now     func() time.Time
}

// DefaultTTL is how long a notice stays visible unless replaced.
const DefaultTTL = 3 * time.Second

// NewCenter creates a notice center with the given display window.
// A zero ttl falls back to DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		ttl: ttl,
		now: time.Now,
	}
}

// Post replaces the current notice.
func (c *Center) Post(text string, kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = &Notice{Text: text, Kind: kind}
	c.shownAt = c.now()
}

// Current returns the active notice, or nil once it has expired.
func (c *Center) Current() *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	if c.now().Sub(c.shownAt) >= c.ttl {
		c.current = nil
		return nil
	}
	return c.current
}
