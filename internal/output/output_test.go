package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/civic/internal/domain"
)

func newTestUI(t *testing.T) (*UI, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var out, errOut bytes.Buffer
	return &UI{Out: &out, ErrOut: &errOut}, &out, &errOut
}

func TestMessages(t *testing.T) {
	ui, out, errOut := newTestUI(t)

	ui.Info("loaded %d issues", 3)
	ui.Success("done")
	ui.Warning("careful")
	ui.Error("failed: %s", "boom")
	ui.VerboseLog("hidden")

	assert.Contains(t, out.String(), "loaded 3 issues")
	assert.Contains(t, out.String(), "done")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, errOut.String(), "careful")
	assert.Contains(t, errOut.String(), "failed: boom")

	ui.Verbose = true
	ui.VerboseLog("shown")
	assert.Contains(t, out.String(), "shown")
}

func TestIssueTable(t *testing.T) {
	ui, out, _ := newTestUI(t)
	team := "Team B"

	err := ui.IssueTable([]domain.Issue{
		{ID: "01J0", Title: "Water Leak near Library", Status: domain.IssueStatusInProgress,
			Priority: domain.IssuePriorityHigh, Category: "water", AssignedTo: &team, UpdatedAt: time.Now()},
		{ID: "01J1", Title: "Pothole on Main Street", Status: domain.IssueStatusPending,
			Priority: domain.IssuePriorityCritical, Category: "roads", UpdatedAt: time.Now()},
	})
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Water Leak near Library")
	assert.Contains(t, s, "Team B")
	assert.Contains(t, s, "in_progress")
	assert.Contains(t, s, "critical")
}

func TestIssueTable_Empty(t *testing.T) {
	ui, out, _ := newTestUI(t)
	require.NoError(t, ui.IssueTable(nil))
	assert.Contains(t, out.String(), "No issues.")
}

func TestAssistant(t *testing.T) {
	ui, out, _ := newTestUI(t)
	ui.Assistant(&domain.TurnResponse{
		Response:         "There are currently 2 critical issues that need immediate attention.",
		SuggestedActions: []domain.SuggestedAction{{Label: "View 2 Critical Issues", Action: "filter_critical", Count: 2}},
	})
	assert.Contains(t, out.String(), "assistant> There are currently 2 critical issues")
	assert.Contains(t, out.String(), "View 2 Critical Issues")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
