// Package assistant composes the natural-language side of a chat turn: a
// snapshot of the current issues, an optional hosted model answer, and the
// deterministic templates used when no model answer is available.
package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sumire/civic/internal/domain"
)

// CompletionRequest is a single model call.
type CompletionRequest struct {
	System    string
	History   []domain.ChatMessage
	Message   string
	MaxTokens int64
}

// Completer is a hosted language model.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Reply is the composed answer for one turn.
type Reply struct {
	Text      string
	Suggested []domain.SuggestedAction
	Snapshot  Snapshot
	FromModel bool
}

// Composer produces the assistant's reply for a turn.
type Composer struct {
	model Completer
	now   func() time.Time
}

// Option configures a Composer.
type Option func(*Composer)

// WithClock overrides the time source used for "today" counts.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// NewComposer creates a Composer. model may be nil, in which case every reply
// comes from the fallback templates.
func NewComposer(model Completer, opts ...Option) *Composer {
	c := &Composer{model: model, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasModel reports whether a hosted model is configured.
func (c *Composer) HasModel() bool {
	return c.model != nil
}

// Compose answers message given the conversation so far and a fresh read of
// the issue list. Model failures are logged and answered from templates.
func (c *Composer) Compose(ctx context.Context, message string, history []domain.ChatMessage, issues []domain.Issue) Reply {
	snap := BuildSnapshot(issues, c.now())
	reply := Reply{
		Snapshot:  snap,
		Suggested: SuggestActions(snap),
	}

	if c.model != nil {
		text, err := c.model.Complete(ctx, CompletionRequest{
			System:    buildSystemPrompt(snap),
			History:   RecentHistory(history, HistoryLimit),
			Message:   message,
			MaxTokens: MaxReplyTokens,
		})
		text = strings.TrimSpace(text)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "language model unavailable, using fallback", "error", err)
		case text == "":
			slog.WarnContext(ctx, "language model returned empty reply, using fallback")
		default:
			reply.Text = text
			reply.FromModel = true
			return reply
		}
	}

	reply.Text = FallbackResponse(message, snap)
	return reply
}
