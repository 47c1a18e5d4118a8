// Package output renders CLI output: coloured status lines and issue tables.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sumire/civic/internal/domain"
)

// UI provides coloured output.
type UI struct {
	Verbose bool
	Out     io.Writer
	ErrOut  io.Writer
}

// New creates a UI with default stdout/stderr writers.
func New() *UI {
	return &UI{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

var (
	infoPrefix    = color.New(color.FgHiBlue).Sprint("i")
	successPrefix = color.New(color.FgHiGreen).Sprint("✓")
	warningPrefix = color.New(color.FgHiYellow).Sprint("⚠")
	errorPrefix   = color.New(color.FgHiRed).Sprint("✗")
	verbosePrefix = color.New(color.FgHiBlue).Sprint("  →")
	cyan          = color.New(color.FgHiCyan).SprintFunc()
	green         = color.New(color.FgHiGreen).SprintFunc()
	yellow        = color.New(color.FgHiYellow).SprintFunc()
	red           = color.New(color.FgHiRed).SprintFunc()
	bold          = color.New(color.Bold).SprintFunc()
)

// StatusColor returns the status coloured by lifecycle stage.
func StatusColor(status domain.IssueStatus) string {
	s := string(status)
	switch status {
	case domain.IssueStatusPending:
		return yellow(s)
	case domain.IssueStatusInProgress:
		return cyan(s)
	case domain.IssueStatusResolved:
		return green(s)
	case domain.IssueStatusClosed:
		return red(s)
	default:
		return s
	}
}

// PriorityColor returns the priority coloured by urgency.
func PriorityColor(priority domain.IssuePriority) string {
	s := string(priority)
	switch priority {
	case domain.IssuePriorityCritical:
		return red(s)
	case domain.IssuePriorityHigh:
		return yellow(s)
	default:
		return s
	}
}

func (u *UI) Info(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", infoPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Success(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", successPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Warning(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", warningPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Error(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", errorPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) VerboseLog(format string, a ...any) {
	if u.Verbose {
		fmt.Fprintf(u.Out, "%s %s\n", verbosePrefix, fmt.Sprintf(format, a...))
	}
}

// Assistant prints a chat reply and its suggested actions.
func (u *UI) Assistant(resp *domain.TurnResponse) {
	fmt.Fprintf(u.Out, "%s %s\n", bold("assistant>"), resp.Response)
	for _, s := range resp.SuggestedActions {
		fmt.Fprintf(u.Out, "  %s %s\n", cyan("•"), s.Label)
	}
}

// Table creates a new tablewriter configured with consistent styling.
func (u *UI) Table(headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(u.Out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}

// IssueTable prints issues one per row.
func (u *UI) IssueTable(issues []domain.Issue) error {
	if len(issues) == 0 {
		u.Info("No issues.")
		return nil
	}

	table := u.Table([]string{"ID", "Title", "Status", "Priority", "Category", "Assigned", "Updated"})
	for _, issue := range issues {
		assigned := "-"
		if issue.AssignedTo != nil && *issue.AssignedTo != "" {
			assigned = *issue.AssignedTo
		}
		if err := table.Append([]string{
			issue.ID,
			truncate(issue.Title, 40),
			StatusColor(issue.Status),
			PriorityColor(issue.Priority),
			issue.Category,
			assigned,
			issue.UpdatedAt.Local().Format(time.DateTime),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
