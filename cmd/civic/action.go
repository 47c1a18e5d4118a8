package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sumire/civic/internal/domain"
	"github.com/sumire/civic/internal/intent"
	"github.com/sumire/civic/internal/service"
)

var actionYes bool

var actionCmd = &cobra.Command{
	Use:   "action <kind> <issue-id> [value]",
	Short: "Apply a mutation directly",
	Long: `Apply a mutation to one issue without going through the assistant.

Kinds:
  update_status <issue-id> <pending|in_progress|resolved|closed>
  assign_issue <issue-id> <assignee>
  update_priority <issue-id> <low|medium|high|critical>
  delete_issue <issue-id>`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := buildAction(args)
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		issue, err := a.Issues.FindByID(cmd.Context(), action.TargetIssueID)
		if err != nil {
			return err
		}
		action.TargetIssueTitle = issue.Title

		if !actionYes {
			fmt.Fprintf(ui.Out, "%s? [yes/no] ", action.Describe())
			scanner := bufio.NewScanner(cmd.InOrStdin())
			if !scanner.Scan() || service.ParseReply(scanner.Text()) != service.ReplyYes {
				ui.Info("%s", service.CancelledMessage)
				return nil
			}
		}

		result, err := a.Issues.Execute(cmd.Context(), action)
		if err != nil {
			return err
		}
		ui.Success("%s", result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(actionCmd)
	actionCmd.Flags().BoolVarP(&actionYes, "yes", "y", false, "skip the confirmation prompt")
}

// buildAction parses positional arguments into an action. Value validation
// is left to the executor.
func buildAction(args []string) (domain.ProposedAction, error) {
	action := domain.ProposedAction{
		Kind:          domain.ActionKind(args[0]),
		TargetIssueID: args[1],
	}
	value := strings.TrimSpace(strings.Join(args[2:], " "))

	switch action.Kind {
	case domain.ActionUpdateStatus:
		action.Payload.Status = intent.NormalizeStatus(value)
	case domain.ActionAssignIssue:
		action.Payload.AssignedTo = value
	case domain.ActionUpdatePriority:
		action.Payload.Priority = domain.IssuePriority(strings.ToLower(value))
	case domain.ActionDeleteIssue:
		if value != "" {
			return domain.ProposedAction{}, fmt.Errorf("delete_issue takes no value")
		}
	default:
		return domain.ProposedAction{}, fmt.Errorf("unknown action kind %q", args[0])
	}
	return action, nil
}
