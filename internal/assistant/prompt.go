package assistant

import (
	"strings"

	"github.com/sumire/civic/internal/domain"
)

// HistoryLimit is the number of prior turns forwarded to the model.
const HistoryLimit = 10

// MaxReplyTokens bounds the length of model replies.
const MaxReplyTokens = 250

const systemPreamble = `You are the assistant of a municipal issue tracking dashboard used by city staff.
Answer questions about civic issues using only the data below. Keep answers short: two to four sentences.
You cannot change data yourself. When the user wants a change, tell them to phrase it as a command such as
"Mark \"<title>\" as resolved", "Assign \"<title>\" to <team>" or "Delete \"<title>\"", and that they will be asked to confirm.`

func buildSystemPrompt(s Snapshot) string {
	var sb strings.Builder
	sb.WriteString(systemPreamble)
	sb.WriteString("\n\nCurrent data:\n")
	sb.WriteString(s.Format())
	return sb.String()
}

// RecentHistory returns the last n entries of history, preserving order.
func RecentHistory(history []domain.ChatMessage, n int) []domain.ChatMessage {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// conversation builds the message sequence sent to the model: system entries
// are dropped (the system prompt is separate), the sequence starts with a
// user turn, and the current message comes last.
func conversation(history []domain.ChatMessage, message string) []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		if m.Role == domain.ChatRoleSystem || strings.TrimSpace(m.Content) == "" {
			continue
		}
		if len(out) == 0 && m.Role != domain.ChatRoleUser {
			continue
		}
		out = append(out, m)
	}
	return append(out, domain.ChatMessage{Role: domain.ChatRoleUser, Content: message})
}
