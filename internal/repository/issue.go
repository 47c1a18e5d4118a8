package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"

	"github.com/sumire/civic/internal/domain"
)

const issueColumns = `id, title, description, category, status, priority, assigned_to,
	upvotes, comment_count, created_at, updated_at`

// IssueRepository handles issue data access operations.
type IssueRepository struct {
	db *sqlx.DB
}

// NewIssueRepository creates a new IssueRepository.
func NewIssueRepository(db *sqlx.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// List returns every issue, most recently reported first.
func (r *IssueRepository) List(ctx context.Context) ([]domain.Issue, error) {
	issues := []domain.Issue{}
	err := r.db.SelectContext(ctx, &issues,
		`SELECT `+issueColumns+` FROM issues ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}

// FindByID retrieves an issue by its ID.
func (r *IssueRepository) FindByID(ctx context.Context, id string) (*domain.Issue, error) {
	var issue domain.Issue
	err := r.db.GetContext(ctx, &issue,
		r.db.Rebind(`SELECT `+issueColumns+` FROM issues WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: issue %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("find issue by id %s: %w", id, err)
	}
	return &issue, nil
}

// Create inserts a new issue. ID and timestamps are assigned when empty.
func (r *IssueRepository) Create(ctx context.Context, issue domain.Issue) (*domain.Issue, error) {
	if issue.ID == "" {
		issue.ID = ulid.Make().String()
	}
	now := time.Now().UTC()
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = now
	}
	if issue.UpdatedAt.IsZero() {
		issue.UpdatedAt = issue.CreatedAt
	}

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO issues (id, title, description, category, status, priority, assigned_to,
		                     upvotes, comment_count, created_at, updated_at)
		 VALUES (:id, :title, :description, :category, :status, :priority, :assigned_to,
		         :upvotes, :comment_count, :created_at, :updated_at)`, issue)
	if err != nil {
		return nil, fmt.Errorf("insert issue: %w", err)
	}
	return &issue, nil
}

// UpdateStatus sets the status of an issue.
func (r *IssueRepository) UpdateStatus(ctx context.Context, id string, status domain.IssueStatus, at time.Time) (*domain.Issue, error) {
	return r.update(ctx, id, "status", string(status), at)
}

// UpdateAssignee sets the assignee of an issue.
func (r *IssueRepository) UpdateAssignee(ctx context.Context, id, assignedTo string, at time.Time) (*domain.Issue, error) {
	return r.update(ctx, id, "assigned_to", assignedTo, at)
}

// UpdatePriority sets the priority of an issue.
func (r *IssueRepository) UpdatePriority(ctx context.Context, id string, priority domain.IssuePriority, at time.Time) (*domain.Issue, error) {
	return r.update(ctx, id, "priority", string(priority), at)
}

// column is always one of the literals passed by the exported setters.
func (r *IssueRepository) update(ctx context.Context, id, column string, value any, at time.Time) (*domain.Issue, error) {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE issues SET `+column+` = ?, updated_at = ? WHERE id = ?`),
		value, at, id)
	if err != nil {
		return nil, fmt.Errorf("update issue %s %s: %w", id, column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update issue %s %s: %w", id, column, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: issue %s", domain.ErrNotFound, id)
	}
	return r.FindByID(ctx, id)
}

// Delete removes an issue and returns the record as it was before removal.
func (r *IssueRepository) Delete(ctx context.Context, id string) (*domain.Issue, error) {
	issue, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM issues WHERE id = ?`), id)
	if err != nil {
		return nil, fmt.Errorf("delete issue %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("delete issue %s: %w", id, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: issue %s", domain.ErrNotFound, id)
	}
	return issue, nil
}
