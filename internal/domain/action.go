package domain

import "fmt"

// ActionKind discriminates the variants of ProposedAction.
type ActionKind string

const (
	ActionUpdateStatus   ActionKind = "update_status"
	ActionAssignIssue    ActionKind = "assign_issue"
	ActionUpdatePriority ActionKind = "update_priority"
	ActionDeleteIssue    ActionKind = "delete_issue"
)

// Valid reports whether k is a known action kind.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionUpdateStatus, ActionAssignIssue, ActionUpdatePriority, ActionDeleteIssue:
		return true
	}
	return false
}

// ActionPayload carries the kind-specific fields of a ProposedAction. Only the
// field belonging to the action's kind is set.
type ActionPayload struct {
	Status     IssueStatus   `json:"status,omitempty"`
	AssignedTo string        `json:"assignedTo,omitempty"`
	Priority   IssuePriority `json:"priority,omitempty"`
}

// ProposedAction is a mutation inferred from a chat message, pending
// confirmation. TargetIssueTitle is carried for display only.
type ProposedAction struct {
	Kind             ActionKind    `json:"kind"`
	TargetIssueID    string        `json:"targetIssueId"`
	TargetIssueTitle string        `json:"targetIssueTitle"`
	Payload          ActionPayload `json:"payload"`

	// Token is the signed form of the action issued by the server. Clients
	// echo it back unmodified to confirm.
	Token string `json:"token,omitempty"`
}

// Describe renders the action as a one-line, human-readable sentence.
func (a ProposedAction) Describe() string {
	switch a.Kind {
	case ActionUpdateStatus:
		return fmt.Sprintf("Update status of \"%s\" to %s", a.TargetIssueTitle, a.Payload.Status)
	case ActionAssignIssue:
		return fmt.Sprintf("Assign \"%s\" to %s", a.TargetIssueTitle, a.Payload.AssignedTo)
	case ActionUpdatePriority:
		return fmt.Sprintf("Change priority of \"%s\" to %s", a.TargetIssueTitle, a.Payload.Priority)
	case ActionDeleteIssue:
		return fmt.Sprintf("Delete \"%s\"", a.TargetIssueTitle)
	default:
		return fmt.Sprintf("Unknown action %q", a.Kind)
	}
}

// ActionResult is the outcome of executing an action against the store.
type ActionResult struct {
	Kind    ActionKind `json:"kind"`
	Issue   *Issue     `json:"issue,omitempty"`
	Message string     `json:"message"`
}
