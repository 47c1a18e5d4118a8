package service

import (
	"context"

	"github.com/sumire/civic/internal/domain"
)

// Conversation is a single in-process chat session. Unlike HTTP turns, it
// keeps the history and the confirmation gate server-side.
type Conversation struct {
	chat    *ChatService
	gate    Gate
	history []domain.ChatMessage
}

// NewConversation starts an empty conversation.
func NewConversation(chat *ChatService) *Conversation {
	return &Conversation{chat: chat}
}

// State returns the confirmation state.
func (c *Conversation) State() GateState {
	return c.gate.State()
}

// Pending returns the action awaiting confirmation, if any.
func (c *Conversation) Pending() *domain.ProposedAction {
	return c.gate.Pending()
}

// History returns a copy of the conversation so far.
func (c *Conversation) History() []domain.ChatMessage {
	return append([]domain.ChatMessage(nil), c.history...)
}

// Send handles one user message. While an action awaits confirmation, a
// yes executes it and a no cancels it; any other message is answered
// normally and leaves the action pending unless a new one is proposed.
func (c *Conversation) Send(ctx context.Context, message string) (*domain.TurnResponse, error) {
	var resp *domain.TurnResponse
	if action, confirmed := c.gate.Resolve(ParseReply(message)); action != nil {
		if confirmed {
			resp = c.chat.execute(ctx, *action)
		} else {
			resp = c.chat.Cancel(ctx, *action)
		}
	} else {
		var err error
		resp, err = c.chat.HandleTurn(ctx, domain.TurnRequest{
			Message: message,
			Context: &domain.TurnContext{ConversationHistory: c.History()},
		})
		if err != nil {
			return nil, err
		}
		if resp.ActionRequired != nil {
			c.gate.Propose(*resp.ActionRequired)
		}
	}

	c.history = append(c.history,
		domain.ChatMessage{Role: domain.ChatRoleUser, Content: message},
		domain.ChatMessage{Role: domain.ChatRoleAssistant, Content: resp.Response},
	)
	return resp, nil
}
