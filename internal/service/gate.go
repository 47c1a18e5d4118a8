package service

import (
	"regexp"
	"strings"
	"sync"

	"github.com/sumire/civic/internal/domain"
)

// Reply is a user's answer to a confirmation prompt.
type Reply int

const (
	ReplyUnclear Reply = iota
	ReplyYes
	ReplyNo
)

var (
	affirmativePattern = regexp.MustCompile(`^(yes|y|yeah|yep|confirm|ok|okay|sure|do it)$`)
	negativePattern    = regexp.MustCompile(`^(no|n|nope|cancel|stop|abort)$`)
)

// ParseReply interprets message as a yes/no answer.
func ParseReply(message string) Reply {
	msg := strings.ToLower(strings.TrimSpace(message))
	msg = strings.TrimRight(msg, ".!")
	switch {
	case affirmativePattern.MatchString(msg):
		return ReplyYes
	case negativePattern.MatchString(msg):
		return ReplyNo
	default:
		return ReplyUnclear
	}
}

// ConfirmationPrompt is appended to a reply that proposes an action.
func ConfirmationPrompt(action domain.ProposedAction) string {
	return "\n\n⚠️ Action detected: " + action.Describe() + "\nReply 'yes' to confirm or 'no' to cancel."
}

// CancelledMessage is the reply when a proposed action is declined.
const CancelledMessage = "Action cancelled. No changes were made."

// GateState is the confirmation state of one conversation.
type GateState int

const (
	GateIdle GateState = iota
	GateAwaitingConfirmation
)

func (s GateState) String() string {
	if s == GateAwaitingConfirmation {
		return "awaiting_confirmation"
	}
	return "idle"
}

// Gate holds at most one proposed action awaiting a yes/no answer.
type Gate struct {
	mu      sync.Mutex
	pending *domain.ProposedAction
}

// State returns the current gate state.
func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		return GateAwaitingConfirmation
	}
	return GateIdle
}

// Pending returns the action awaiting confirmation, if any.
func (g *Gate) Pending() *domain.ProposedAction {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return nil
	}
	a := *g.pending
	return &a
}

// Propose replaces any pending action with action.
func (g *Gate) Propose(action domain.ProposedAction) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = &action
}

// Resolve applies reply. On yes or no the pending action is returned and the
// gate returns to idle; confirmed reports which. An unclear reply, or no
// pending action, leaves the gate unchanged and returns nil.
func (g *Gate) Resolve(reply Reply) (action *domain.ProposedAction, confirmed bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil || reply == ReplyUnclear {
		return nil, false
	}
	action, g.pending = g.pending, nil
	return action, reply == ReplyYes
}
