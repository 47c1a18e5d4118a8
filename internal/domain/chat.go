package domain

// ChatRole identifies the author of a conversation entry.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleSystem    ChatRole = "system"
)

// ChatMessage is one entry of a conversation history.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// TurnContext is the client-held conversation state sent with each turn.
type TurnContext struct {
	ConversationHistory []ChatMessage   `json:"conversationHistory,omitempty"`
	PendingAction       *ProposedAction `json:"pendingAction,omitempty"`
}

// TurnRequest is a single chat turn.
type TurnRequest struct {
	Message       string          `json:"message"`
	Context       *TurnContext    `json:"context,omitempty"`
	ExecuteAction *ProposedAction `json:"executeAction,omitempty"`
}

// History returns the conversation history, or nil when none was sent.
func (r TurnRequest) History() []ChatMessage {
	if r.Context == nil {
		return nil
	}
	return r.Context.ConversationHistory
}

// SuggestedAction is a UI shortcut offered alongside a reply. It never mutates.
type SuggestedAction struct {
	Label  string `json:"label"`
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// TurnResponse is the assistant's reply to a turn.
type TurnResponse struct {
	Response         string            `json:"response"`
	SuggestedActions []SuggestedAction `json:"suggested_actions"`
	ActionRequired   *ProposedAction   `json:"action_required"`
	ContextUpdates   map[string]any    `json:"context_updates"`
}
