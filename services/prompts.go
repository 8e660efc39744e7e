package services

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// PromptState is the step an interactive command is waiting on.
type PromptState int

const (
	AwaitingName PromptState = iota + 1
	AwaitingKeyCards
	AwaitingArchetypeChoice
)

func (s PromptState) String() string {
	switch s {
	case AwaitingName:
		return "awaiting_name"
	case AwaitingKeyCards:
		return "awaiting_key_cards"
	case AwaitingArchetypeChoice:
		return "awaiting_archetype_choice"
	}
	return "unknown"
}

const (
	ArchetypePromptTimeout = 10 * time.Minute
	MatchPromptTimeout     = 60 * time.Second
)

// PromptKey scopes a prompt to one user in one channel.
type PromptKey struct {
	UserID    string
	ChannelID string
}

// Prompt is a short-lived interactive session. Only the fields of its
// current flow are set.
type Prompt struct {
	Key      PromptKey
	State    PromptState
	Deadline time.Time

	ArchetypeName string        // add_archetype, set once the name is given
	Match         *PendingMatch // log_match
	Choices       []string      // log_match, archetype names in the order shown

	// OnExpire is called once when the deadline passes without a reply.
	OnExpire func()
}

// Choose resolves a numbered reply ("1".."n") against Choices.
func (p *Prompt) Choose(reply string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil || n < 1 || n > len(p.Choices) {
		return "", ErrInvalidSelection
	}
	return p.Choices[n-1], nil
}

// PromptTracker holds at most one prompt per (user, channel).
type PromptTracker struct {
	mu      sync.Mutex
	prompts map[PromptKey]*Prompt
	now     func() time.Time
}

func NewPromptTracker() *PromptTracker {
	return &PromptTracker{prompts: map[PromptKey]*Prompt{}, now: time.Now}
}

// Now is the tracker's clock.
func (t *PromptTracker) Now() time.Time {
	return t.now()
}

// SetClock replaces the clock; used by tests.
func (t *PromptTracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// Start registers p with a deadline of timeout from now, replacing any prompt
// already pending for the same key.
func (t *PromptTracker) Start(p *Prompt, timeout time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p.Deadline = t.now().Add(timeout)
	t.prompts[p.Key] = p
}

// Take removes and returns the pending prompt for key. An expired prompt is
// removed, its OnExpire fired, and ok is false.
func (t *PromptTracker) Take(key PromptKey) (*Prompt, bool) {
	t.mu.Lock()
	p, ok := t.prompts[key]
	if !ok {
		t.mu.Unlock()
		return nil, false
	}
	delete(t.prompts, key)
	expired := !t.now().Before(p.Deadline)
	t.mu.Unlock()

	if expired {
		if p.OnExpire != nil {
			p.OnExpire()
		}
		return nil, false
	}
	return p, true
}

// Cancel drops the pending prompt for key without firing OnExpire.
func (t *PromptTracker) Cancel(key PromptKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.prompts[key]
	delete(t.prompts, key)
	return ok
}

// Pending reports whether key has a live prompt.
func (t *PromptTracker) Pending(key PromptKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.prompts[key]
	return ok && t.now().Before(p.Deadline)
}

// Sweep removes every expired prompt and fires its OnExpire.
// It returns how many prompts expired.
func (t *PromptTracker) Sweep() int {
	t.mu.Lock()
	now := t.now()
	var expired []*Prompt
	for k, p := range t.prompts {
		if !now.Before(p.Deadline) {
			expired = append(expired, p)
			delete(t.prompts, k)
		}
	}
	t.mu.Unlock()

	for _, p := range expired {
		if p.OnExpire != nil {
			p.OnExpire()
		}
	}
	return len(expired)
}
