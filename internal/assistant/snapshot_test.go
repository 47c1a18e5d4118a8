package assistant

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/civic/internal/domain"
)

var testNow = time.Date(2026, 10, 15, 14, 0, 0, 0, time.UTC)

func fixtureIssues() []domain.Issue {
	return []domain.Issue{
		{ID: "1", Title: "Pothole on Main Street", Category: "roads", Status: domain.IssueStatusPending,
			Priority: domain.IssuePriorityCritical, Upvotes: 12, CommentCount: 4,
			CreatedAt: testNow.Add(-2 * time.Hour), UpdatedAt: testNow.Add(-time.Hour)},
		{ID: "2", Title: "Water Leak", Category: "water", Status: domain.IssueStatusInProgress,
			Priority: domain.IssuePriorityHigh, Upvotes: 3, CommentCount: 9,
			CreatedAt: testNow.Add(-26 * time.Hour), UpdatedAt: testNow.Add(-10 * time.Minute)},
		{ID: "3", Title: "Broken Streetlight", Category: "roads", Status: domain.IssueStatusResolved,
			Priority: domain.IssuePriorityLow, Upvotes: 7, CommentCount: 1,
			CreatedAt: testNow.Add(-72 * time.Hour), UpdatedAt: testNow.Add(-48 * time.Hour)},
		{ID: "4", Title: "Overflowing bin", Category: "", Status: domain.IssueStatusClosed,
			Priority:  domain.IssuePriorityMedium,
			CreatedAt: testNow.Add(-96 * time.Hour), UpdatedAt: testNow.Add(-90 * time.Hour)},
	}
}

func TestBuildSnapshot_Counts(t *testing.T) {
	s := BuildSnapshot(fixtureIssues(), testNow)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.InProgress)
	assert.Equal(t, 1, s.Resolved)
	assert.Equal(t, 1, s.Closed)
	assert.Equal(t, 1, s.Critical)
	assert.Equal(t, 1, s.Today)
	assert.Equal(t, []CategoryCount{
		{Category: "roads", Count: 2},
		{Category: "other", Count: 1},
		{Category: "water", Count: 1},
	}, s.Categories)
}

func TestBuildSnapshot_Rankings(t *testing.T) {
	s := BuildSnapshot(fixtureIssues(), testNow)

	require.Len(t, s.Recent, 4)
	assert.Equal(t, "1", s.Recent[0].ID)

	require.Len(t, s.MostCommented, 3)
	assert.Equal(t, []string{"2", "1", "3"}, ids(s.MostCommented))

	require.Len(t, s.MostUpvoted, 3)
	assert.Equal(t, []string{"1", "3", "2"}, ids(s.MostUpvoted))

	assert.Equal(t, []string{"2", "1", "3", "4"}, ids(s.RecentActivity))
}

func TestBuildSnapshot_Limits(t *testing.T) {
	var issues []domain.Issue
	for i := 0; i < 12; i++ {
		issues = append(issues, domain.Issue{
			ID:        fmt.Sprint(i),
			Title:     fmt.Sprintf("Issue %d", i),
			Status:    domain.IssueStatusPending,
			CreatedAt: testNow.Add(-time.Duration(i) * time.Minute),
			UpdatedAt: testNow.Add(-time.Duration(i) * time.Minute),
		})
	}

	s := BuildSnapshot(issues, testNow)
	assert.Len(t, s.Recent, 5)
	assert.Len(t, s.MostCommented, 3)
	assert.Len(t, s.MostUpvoted, 3)
	assert.Len(t, s.RecentActivity, 5)
	assert.Equal(t, "0", s.Recent[0].ID)
}

func TestBuildSnapshot_Empty(t *testing.T) {
	s := BuildSnapshot(nil, testNow)
	assert.Zero(t, s.Total)
	assert.Empty(t, s.Recent)
	assert.Zero(t, s.ResolutionRate())
}

func TestSnapshot_Format(t *testing.T) {
	out := BuildSnapshot(fixtureIssues(), testNow).Format()

	assert.Contains(t, out, "- Total issues: 4")
	assert.Contains(t, out, "- Critical priority: 1")
	assert.Contains(t, out, "- Reported today: 1")
	assert.Contains(t, out, "- roads: 2")
	assert.Contains(t, out, `- "Pothole on Main Street" [pending, critical]`)
	assert.Contains(t, out, `- "Water Leak" (9 comments)`)
	assert.Contains(t, out, `- "Pothole on Main Street" (12 upvotes)`)
	assert.Contains(t, out, "- Water Leak → in_progress")
}

func ids(issues []domain.Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.ID
	}
	return out
}
