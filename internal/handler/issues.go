package handler

import (
	"net/http"

	"github.com/sumire/civic/internal/domain"
	"github.com/sumire/civic/internal/service"
)

// IssueHandler serves the issue collection.
type IssueHandler struct {
	issues *service.IssueService
}

// NewIssueHandler creates a new IssueHandler.
func NewIssueHandler(issues *service.IssueService) *IssueHandler {
	return &IssueHandler{issues: issues}
}

// List returns every issue, most recent first.
func (h *IssueHandler) List(w http.ResponseWriter, r *http.Request) {
	issues, err := h.issues.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, issues)
}

// Create reports a new issue.
func (h *IssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.NewIssue
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, err)
		return
	}

	issue, err := h.issues.Create(r.Context(), in)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusCreated, issue)
}
