package assistant

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sumire/civic/internal/domain"
)

var greetingPattern = regexp.MustCompile(`\b(hello|hi|hey|good (morning|afternoon|evening))\b`)

// GreetingResponse is the fixed reply to a greeting.
const GreetingResponse = "Hello! I'm the civic issue assistant. Ask me for an overview, critical issues, or performance, or tell me to update, assign, resolve, or delete an issue."

// FallbackResponse picks a templated reply by keyword when no model answer
// is available. The first rule that matches wins.
func FallbackResponse(message string, s Snapshot) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "critical"):
		if s.Critical == 0 {
			return "There are no critical issues right now."
		}
		return fmt.Sprintf("There are currently %d critical issues that need immediate attention.", s.Critical)
	case strings.Contains(msg, "status"), strings.Contains(msg, "overview"):
		return fmt.Sprintf("Here's the current overview: %d total issues, %d pending, %d in progress, and %d resolved.",
			s.Total, s.Pending, s.InProgress, s.Resolved)
	case strings.Contains(msg, "performance"):
		return fmt.Sprintf("The current resolution rate is %.1f%% (%d of %d issues resolved).",
			s.ResolutionRate(), s.Resolved, s.Total)
	case greetingPattern.MatchString(msg):
		return GreetingResponse
	default:
		return fmt.Sprintf("There are %d issues in total: %d pending, %d in progress, and %d resolved. %d are marked critical.",
			s.Total, s.Pending, s.InProgress, s.Resolved, s.Critical)
	}
}

const pendingBacklogThreshold = 20

// SuggestActions derives UI shortcuts from the snapshot.
func SuggestActions(s Snapshot) []domain.SuggestedAction {
	actions := []domain.SuggestedAction{}
	if s.Critical > 0 {
		actions = append(actions, domain.SuggestedAction{
			Label:  fmt.Sprintf("View %d Critical Issues", s.Critical),
			Action: "filter_critical",
			Count:  s.Critical,
		})
	}
	if s.Pending > pendingBacklogThreshold {
		actions = append(actions, domain.SuggestedAction{
			Label:  fmt.Sprintf("Review %d Pending Issues", s.Pending),
			Action: "filter_pending",
			Count:  s.Pending,
		})
	}
	return actions
}
