package assistant

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sumire/civic/internal/domain"
)

// Snapshot is the aggregate view of the issue list handed to the model and
// to the fallback templates.
type Snapshot struct {
	Total      int
	Pending    int
	InProgress int
	Resolved   int
	Closed     int
	Critical   int
	Today      int

	Categories     []CategoryCount
	Recent         []domain.Issue
	MostCommented  []domain.Issue
	MostUpvoted    []domain.Issue
	RecentActivity []domain.Issue
}

// CategoryCount is the number of issues reported in one category.
type CategoryCount struct {
	Category string
	Count    int
}

const (
	recentLimit    = 5
	commentedLimit = 3
	upvotedLimit   = 3
	activityLimit  = 5
)

// BuildSnapshot summarises issues. "Today" is measured from midnight in
// now's location.
func BuildSnapshot(issues []domain.Issue, now time.Time) Snapshot {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	s := Snapshot{Total: len(issues)}
	categories := map[string]int{}
	for _, issue := range issues {
		switch issue.Status {
		case domain.IssueStatusPending:
			s.Pending++
		case domain.IssueStatusInProgress:
			s.InProgress++
		case domain.IssueStatusResolved:
			s.Resolved++
		case domain.IssueStatusClosed:
			s.Closed++
		}
		if issue.Priority == domain.IssuePriorityCritical {
			s.Critical++
		}
		if !issue.CreatedAt.Before(midnight) {
			s.Today++
		}
		category := issue.Category
		if category == "" {
			category = domain.DefaultCategory
		}
		categories[category]++
	}

	for name, count := range categories {
		s.Categories = append(s.Categories, CategoryCount{Category: name, Count: count})
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		if s.Categories[i].Count != s.Categories[j].Count {
			return s.Categories[i].Count > s.Categories[j].Count
		}
		return s.Categories[i].Category < s.Categories[j].Category
	})

	s.Recent = topN(issues, recentLimit, func(a, b domain.Issue) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	s.MostCommented = topN(issues, commentedLimit, func(a, b domain.Issue) bool {
		return a.CommentCount > b.CommentCount
	})
	s.MostUpvoted = topN(issues, upvotedLimit, func(a, b domain.Issue) bool {
		return a.Upvotes > b.Upvotes
	})
	s.RecentActivity = topN(issues, activityLimit, func(a, b domain.Issue) bool {
		return a.UpdatedAt.After(b.UpdatedAt)
	})
	return s
}

// topN returns up to n issues ordered by less. Ties keep store order.
func topN(issues []domain.Issue, n int, less func(a, b domain.Issue) bool) []domain.Issue {
	sorted := make([]domain.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ResolutionRate is the percentage of issues that are resolved.
func (s Snapshot) ResolutionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Resolved) / float64(s.Total) * 100
}

// Format renders the snapshot as the fixed-format block embedded in the
// model prompt.
func (s Snapshot) Format() string {
	var sb strings.Builder
	sb.WriteString("Issue statistics:\n")
	fmt.Fprintf(&sb, "- Total issues: %d\n", s.Total)
	fmt.Fprintf(&sb, "- Pending: %d\n", s.Pending)
	fmt.Fprintf(&sb, "- In progress: %d\n", s.InProgress)
	fmt.Fprintf(&sb, "- Resolved: %d\n", s.Resolved)
	fmt.Fprintf(&sb, "- Closed: %d\n", s.Closed)
	fmt.Fprintf(&sb, "- Critical priority: %d\n", s.Critical)
	fmt.Fprintf(&sb, "- Reported today: %d\n", s.Today)

	sb.WriteString("\nCategories:\n")
	for _, c := range s.Categories {
		fmt.Fprintf(&sb, "- %s: %d\n", c.Category, c.Count)
	}

	sb.WriteString("\nRecent issues:\n")
	for _, issue := range s.Recent {
		fmt.Fprintf(&sb, "- \"%s\" [%s, %s]\n", issue.Title, issue.Status, issue.Priority)
	}

	sb.WriteString("\nMost commented:\n")
	for _, issue := range s.MostCommented {
		fmt.Fprintf(&sb, "- \"%s\" (%d comments)\n", issue.Title, issue.CommentCount)
	}

	sb.WriteString("\nMost upvoted:\n")
	for _, issue := range s.MostUpvoted {
		fmt.Fprintf(&sb, "- \"%s\" (%d upvotes)\n", issue.Title, issue.Upvotes)
	}

	sb.WriteString("\nRecent activity:\n")
	for _, issue := range s.RecentActivity {
		fmt.Fprintf(&sb, "- %s → %s (%s)\n", issue.Title, issue.Status, issue.UpdatedAt.Format(time.RFC3339))
	}
	return sb.String()
}
