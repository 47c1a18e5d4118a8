package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sumire/civic/internal/domain"
	"github.com/sumire/civic/internal/service"
)

// Direct action names accepted by POST /api/v1/actions.
const (
	directUpdateStatus   = "update_issue_status"
	directAssignIssue    = "assign_issue"
	directUpdatePriority = "update_priority"
	directDeleteIssue    = "delete_issue"
)

// ActionRequest is a direct mutation from a trusted caller.
type ActionRequest struct {
	Action string       `json:"action" validate:"required,oneof=update_issue_status assign_issue update_priority delete_issue"`
	Params ActionParams `json:"params"`
}

// ActionParams carries the fields of every direct action; each action reads
// only the ones it needs.
type ActionParams struct {
	IssueID    string               `json:"issueId"`
	Status     domain.IssueStatus   `json:"status"`
	AssignedTo string               `json:"assignedTo"`
	Priority   domain.IssuePriority `json:"priority"`
}

// ActionResponse is the outcome of a direct action.
type ActionResponse struct {
	Success bool          `json:"success"`
	Data    *domain.Issue `json:"data,omitempty"`
	Error   string        `json:"error,omitempty"`
	Message string        `json:"message,omitempty"`
}

// ActionHandler executes direct actions. These bypass the confirmation gate.
type ActionHandler struct {
	issues   *service.IssueService
	validate *service.Validator
}

// NewActionHandler creates a new ActionHandler.
func NewActionHandler(issues *service.IssueService) *ActionHandler {
	return &ActionHandler{issues: issues, validate: service.NewValidator()}
}

// Execute runs one direct action.
func (h *ActionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeActionError(w, err)
		return
	}
	if err := h.validate.Validate(req); err != nil {
		writeActionError(w, err)
		return
	}

	userID, _ := GetUserID(r.Context())
	slog.InfoContext(r.Context(), "direct action",
		"action", req.Action,
		"issue_id", req.Params.IssueID,
		"user_id", userID,
		"request_id", GetRequestID(r.Context()),
	)

	result, err := h.dispatch(r.Context(), req)
	if err != nil {
		writeActionError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, ActionResponse{
		Success: true,
		Data:    result.Issue,
		Message: result.Message,
	})
}

func (h *ActionHandler) dispatch(ctx context.Context, req ActionRequest) (*domain.ActionResult, error) {
	p := req.Params
	switch req.Action {
	case directUpdateStatus:
		return h.issues.UpdateStatus(ctx, service.UpdateStatusCommand{IssueID: p.IssueID, Status: p.Status})
	case directAssignIssue:
		return h.issues.Assign(ctx, service.AssignCommand{IssueID: p.IssueID, AssignedTo: p.AssignedTo})
	case directUpdatePriority:
		return h.issues.UpdatePriority(ctx, service.UpdatePriorityCommand{IssueID: p.IssueID, Priority: p.Priority})
	case directDeleteIssue:
		return h.issues.Delete(ctx, service.DeleteCommand{IssueID: p.IssueID})
	default:
		return nil, &domain.ValidationError{Field: "action", Message: fmt.Sprintf("Invalid action %q", req.Action)}
	}
}

// writeActionError reports err verbatim, with the status mapError assigns.
func writeActionError(w http.ResponseWriter, err error) {
	status, _ := mapError(err)
	WriteJSON(w, status, ActionResponse{Success: false, Error: err.Error()})
}
