package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sumire/civic/internal/domain"
)

// IssueStore defines the issue data access interface consumed by the services.
type IssueStore interface {
	List(ctx context.Context) ([]domain.Issue, error)
	FindByID(ctx context.Context, id string) (*domain.Issue, error)
	Create(ctx context.Context, issue domain.Issue) (*domain.Issue, error)
	UpdateStatus(ctx context.Context, id string, status domain.IssueStatus, at time.Time) (*domain.Issue, error)
	UpdateAssignee(ctx context.Context, id, assignedTo string, at time.Time) (*domain.Issue, error)
	UpdatePriority(ctx context.Context, id string, priority domain.IssuePriority, at time.Time) (*domain.Issue, error)
	Delete(ctx context.Context, id string) (*domain.Issue, error)
}

// UpdateStatusCommand sets an issue's status.
type UpdateStatusCommand struct {
	IssueID string             `json:"issueId" validate:"required"`
	Status  domain.IssueStatus `json:"status" validate:"required,oneof=pending in_progress resolved closed"`
}

// AssignCommand sets an issue's assignee.
type AssignCommand struct {
	IssueID    string `json:"issueId" validate:"required"`
	AssignedTo string `json:"assignedTo" validate:"required"`
}

// UpdatePriorityCommand sets an issue's priority.
type UpdatePriorityCommand struct {
	IssueID  string               `json:"issueId" validate:"required"`
	Priority domain.IssuePriority `json:"priority" validate:"required,oneof=low medium high critical"`
}

// DeleteCommand removes an issue.
type DeleteCommand struct {
	IssueID string `json:"issueId" validate:"required"`
}

// IssueService applies mutations to the issue store. Every mutation is a
// single store write: no retries, no transaction, no read-back validation of
// the target beforehand.
type IssueService struct {
	store    IssueStore
	validate *Validator
	now      func() time.Time
}

// NewIssueService creates a new IssueService.
func NewIssueService(store IssueStore) *IssueService {
	return &IssueService{
		store:    store,
		validate: NewValidator(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns every issue, most recent first.
func (s *IssueService) List(ctx context.Context) ([]domain.Issue, error) {
	issues, err := s.store.List(ctx)
	if err != nil {
		return nil, &domain.StoreError{Op: "list", Err: err}
	}
	return issues, nil
}

// FindByID returns one issue.
func (s *IssueService) FindByID(ctx context.Context, id string) (*domain.Issue, error) {
	if id == "" {
		return nil, domain.MissingField("issueId")
	}
	issue, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, &domain.StoreError{Op: "find", Err: err}
	}
	return issue, nil
}

// Create reports a new issue. New issues start pending.
func (s *IssueService) Create(ctx context.Context, in domain.NewIssue) (*domain.Issue, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = domain.IssuePriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, &domain.ValidationError{Field: "priority", Message: fmt.Sprintf("Invalid priority %q", in.Priority)}
	}
	if in.Category == "" {
		in.Category = domain.DefaultCategory
	}

	now := s.now()
	issue, err := s.store.Create(ctx, domain.Issue{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      domain.IssueStatusPending,
		Priority:    in.Priority,
		AssignedTo:  in.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, &domain.StoreError{Op: "create", Err: err}
	}
	slog.InfoContext(ctx, "issue created", "issue_id", issue.ID, "title", issue.Title)
	return issue, nil
}

// UpdateStatus sets the status of an issue.
func (s *IssueService) UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) (*domain.ActionResult, error) {
	return s.mutate(ctx, domain.ActionUpdateStatus, cmd, func() (*domain.Issue, error) {
		return s.store.UpdateStatus(ctx, cmd.IssueID, cmd.Status, s.now())
	}, func(issue *domain.Issue) string {
		return fmt.Sprintf("Successfully updated issue \"%s\" to %s", issue.Title, cmd.Status)
	})
}

// Assign sets the assignee of an issue.
func (s *IssueService) Assign(ctx context.Context, cmd AssignCommand) (*domain.ActionResult, error) {
	return s.mutate(ctx, domain.ActionAssignIssue, cmd, func() (*domain.Issue, error) {
		return s.store.UpdateAssignee(ctx, cmd.IssueID, cmd.AssignedTo, s.now())
	}, func(issue *domain.Issue) string {
		return fmt.Sprintf("Successfully assigned issue \"%s\" to %s", issue.Title, cmd.AssignedTo)
	})
}

// UpdatePriority sets the priority of an issue.
func (s *IssueService) UpdatePriority(ctx context.Context, cmd UpdatePriorityCommand) (*domain.ActionResult, error) {
	return s.mutate(ctx, domain.ActionUpdatePriority, cmd, func() (*domain.Issue, error) {
		return s.store.UpdatePriority(ctx, cmd.IssueID, cmd.Priority, s.now())
	}, func(issue *domain.Issue) string {
		return fmt.Sprintf("Successfully updated priority of issue \"%s\" to %s", issue.Title, cmd.Priority)
	})
}

// Delete removes an issue.
func (s *IssueService) Delete(ctx context.Context, cmd DeleteCommand) (*domain.ActionResult, error) {
	return s.mutate(ctx, domain.ActionDeleteIssue, cmd, func() (*domain.Issue, error) {
		return s.store.Delete(ctx, cmd.IssueID)
	}, func(issue *domain.Issue) string {
		return fmt.Sprintf("Successfully deleted issue \"%s\"", issue.Title)
	})
}

// Execute applies a confirmed proposed action.
func (s *IssueService) Execute(ctx context.Context, action domain.ProposedAction) (*domain.ActionResult, error) {
	switch action.Kind {
	case domain.ActionUpdateStatus:
		return s.UpdateStatus(ctx, UpdateStatusCommand{IssueID: action.TargetIssueID, Status: action.Payload.Status})
	case domain.ActionAssignIssue:
		return s.Assign(ctx, AssignCommand{IssueID: action.TargetIssueID, AssignedTo: action.Payload.AssignedTo})
	case domain.ActionUpdatePriority:
		return s.UpdatePriority(ctx, UpdatePriorityCommand{IssueID: action.TargetIssueID, Priority: action.Payload.Priority})
	case domain.ActionDeleteIssue:
		return s.Delete(ctx, DeleteCommand{IssueID: action.TargetIssueID})
	default:
		return nil, &domain.ValidationError{Field: "kind", Message: fmt.Sprintf("Unsupported action %q", action.Kind)}
	}
}

func (s *IssueService) mutate(
	ctx context.Context,
	kind domain.ActionKind,
	cmd any,
	write func() (*domain.Issue, error),
	message func(*domain.Issue) string,
) (*domain.ActionResult, error) {
	if err := s.validate.Validate(cmd); err != nil {
		recordAction(ctx, kind, err)
		return nil, err
	}

	issue, err := write()
	if err != nil {
		err = &domain.StoreError{Op: string(kind), Err: err}
		recordAction(ctx, kind, err)
		slog.WarnContext(ctx, "issue mutation failed", "kind", kind, "error", err)
		return nil, err
	}

	recordAction(ctx, kind, nil)
	slog.InfoContext(ctx, "issue mutated", "kind", kind, "issue_id", issue.ID)
	return &domain.ActionResult{Kind: kind, Issue: issue, Message: message(issue)}, nil
}

// outcomeOf classifies err for metrics.
func outcomeOf(err error) string {
	var validationErr *domain.ValidationError
	var storeErr *domain.StoreError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &validationErr):
		return "validation_error"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.As(err, &storeErr):
		return "store_error"
	default:
		return "error"
	}
}
