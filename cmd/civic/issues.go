package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sumire/civic/internal/domain"
)

var (
	issueStatus      string
	issueTitle       string
	issueDescription string
	issueCategory    string
	issuePriority    string
)

var issuesCmd = &cobra.Command{
	Use:     "issues",
	Aliases: []string{"issue"},
	Short:   "Inspect and report issues",
}

var issuesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List issues, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		issues, err := a.Issues.List(cmd.Context())
		if err != nil {
			return err
		}
		issues, err = filterByStatus(issues, issueStatus)
		if err != nil {
			return err
		}
		return ui.IssueTable(issues)
	},
}

var issuesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Report a new issue",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		issue, err := a.Issues.Create(cmd.Context(), domain.NewIssue{
			Title:       issueTitle,
			Description: issueDescription,
			Category:    issueCategory,
			Priority:    domain.IssuePriority(issuePriority),
		})
		if err != nil {
			return err
		}
		ui.Success("Created issue %s: %s", issue.ID, issue.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(issuesCmd)
	issuesCmd.AddCommand(issuesListCmd, issuesCreateCmd)

	issuesListCmd.Flags().StringVar(&issueStatus, "status", "", "only show issues with this status")

	issuesCreateCmd.Flags().StringVarP(&issueTitle, "title", "t", "", "issue title")
	issuesCreateCmd.Flags().StringVarP(&issueDescription, "description", "d", "", "issue description")
	issuesCreateCmd.Flags().StringVarP(&issueCategory, "category", "c", "", "issue category")
	issuesCreateCmd.Flags().StringVarP(&issuePriority, "priority", "p", "", "low, medium, high or critical")
	_ = issuesCreateCmd.MarkFlagRequired("title")
}

func filterByStatus(issues []domain.Issue, status string) ([]domain.Issue, error) {
	if status == "" {
		return issues, nil
	}
	want := domain.IssueStatus(status)
	if !want.Valid() {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	var out []domain.Issue
	for _, issue := range issues {
		if issue.Status == want {
			out = append(out, issue)
		}
	}
	return out, nil
}
