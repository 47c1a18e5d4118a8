package domain

import "time"

// IssueStatus represents the lifecycle state of a civic issue.
type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "pending"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusClosed     IssueStatus = "closed"
)

// Valid reports whether s is one of the known statuses.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusPending, IssueStatusInProgress, IssueStatusResolved, IssueStatusClosed:
		return true
	}
	return false
}

// IssuePriority represents the urgency of a civic issue.
type IssuePriority string

const (
	IssuePriorityLow      IssuePriority = "low"
	IssuePriorityMedium   IssuePriority = "medium"
	IssuePriorityHigh     IssuePriority = "high"
	IssuePriorityCritical IssuePriority = "critical"
)

// Valid reports whether p is one of the known priorities.
func (p IssuePriority) Valid() bool {
	switch p {
	case IssuePriorityLow, IssuePriorityMedium, IssuePriorityHigh, IssuePriorityCritical:
		return true
	}
	return false
}

// DefaultCategory is used when an issue is reported without a category.
const DefaultCategory = "other"

// Issue represents a reported civic problem.
type Issue struct {
	ID           string        `json:"id" db:"id"`
	Title        string        `json:"title" db:"title"`
	Description  string        `json:"description" db:"description"`
	Category     string        `json:"category" db:"category"`
	Status       IssueStatus   `json:"status" db:"status"`
	Priority     IssuePriority `json:"priority" db:"priority"`
	AssignedTo   *string       `json:"assigned_to,omitempty" db:"assigned_to"`
	Upvotes      int           `json:"upvotes" db:"upvotes"`
	CommentCount int           `json:"comment_count" db:"comment_count"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// NewIssue holds the fields accepted when reporting an issue.
type NewIssue struct {
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Priority    IssuePriority `json:"priority"`
	AssignedTo  *string       `json:"assigned_to,omitempty"`
}
