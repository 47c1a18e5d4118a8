package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/civic/internal/domain"
	"github.com/sumire/civic/internal/repository"
)

func TestIssueService_Validation(t *testing.T) {
	store := newMemStore(sampleIssues()...)
	svc := NewIssueService(store)
	ctx := context.Background()

	tests := []struct {
		name    string
		run     func() error
		field   string
		message string
	}{
		{"status missing id", func() error {
			_, err := svc.UpdateStatus(ctx, UpdateStatusCommand{Status: domain.IssueStatusResolved})
			return err
		}, "issueId", "Missing issueId"},
		{"status missing status", func() error {
			_, err := svc.UpdateStatus(ctx, UpdateStatusCommand{IssueID: "pothole"})
			return err
		}, "status", "Missing status"},
		{"status invalid", func() error {
			_, err := svc.UpdateStatus(ctx, UpdateStatusCommand{IssueID: "pothole", Status: "done"})
			return err
		}, "status", `Invalid status "done"`},
		{"assign missing assignee", func() error {
			_, err := svc.Assign(ctx, AssignCommand{IssueID: "pothole"})
			return err
		}, "assignedTo", "Missing assignedTo"},
		{"priority missing priority", func() error {
			_, err := svc.UpdatePriority(ctx, UpdatePriorityCommand{IssueID: "pothole"})
			return err
		}, "priority", "Missing priority"},
		{"priority invalid", func() error {
			_, err := svc.UpdatePriority(ctx, UpdatePriorityCommand{IssueID: "pothole", Priority: "urgent"})
			return err
		}, "priority", `Invalid priority "urgent"`},
		{"delete missing id", func() error {
			_, err := svc.Delete(ctx, DeleteCommand{})
			return err
		}, "issueId", "Missing issueId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Equal(t, tt.message, validationErr.Message)
		})
	}

	assert.Zero(t, store.writes, "validation failures must not reach the store")
}

func TestIssueService_Mutations(t *testing.T) {
	store := newMemStore(sampleIssues()...)
	svc := NewIssueService(store)
	ctx := context.Background()

	res, err := svc.UpdateStatus(ctx, UpdateStatusCommand{IssueID: "pothole", Status: domain.IssueStatusResolved})
	require.NoError(t, err)
	assert.Equal(t, `Successfully updated issue "Pothole on Main Street" to resolved`, res.Message)
	assert.Equal(t, domain.IssueStatusResolved, res.Issue.Status)

	res, err = svc.Assign(ctx, AssignCommand{IssueID: "leak", AssignedTo: "Team B"})
	require.NoError(t, err)
	assert.Equal(t, `Successfully assigned issue "Water Leak near Library" to Team B`, res.Message)

	res, err = svc.UpdatePriority(ctx, UpdatePriorityCommand{IssueID: "leak", Priority: domain.IssuePriorityLow})
	require.NoError(t, err)
	assert.Equal(t, `Successfully updated priority of issue "Water Leak near Library" to low`, res.Message)

	res, err = svc.Delete(ctx, DeleteCommand{IssueID: "leak"})
	require.NoError(t, err)
	assert.Equal(t, `Successfully deleted issue "Water Leak near Library"`, res.Message)

	assert.Equal(t, 4, store.writes)
}

func TestIssueService_StoreErrorIsVerbatim(t *testing.T) {
	store := newMemStore(sampleIssues()...)
	store.failErr = errStoreDown
	svc := NewIssueService(store)

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusCommand{IssueID: "pothole", Status: domain.IssueStatusResolved})
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "connection to store lost", err.Error())
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 1, store.writes, "no retries")
}

func TestIssueService_UnknownIssue(t *testing.T) {
	svc := NewIssueService(newMemStore(sampleIssues()...))

	_, err := svc.Delete(context.Background(), DeleteCommand{IssueID: "X"})
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIssueService_FindByID(t *testing.T) {
	svc := NewIssueService(newMemStore(sampleIssues()...))
	ctx := context.Background()

	issue, err := svc.FindByID(ctx, "leak")
	require.NoError(t, err)
	assert.Equal(t, "Water Leak near Library", issue.Title)

	_, err = svc.FindByID(ctx, "X")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.FindByID(ctx, "")
	assert.EqualError(t, err, "Missing issueId")
}

func TestIssueService_Execute(t *testing.T) {
	store := newMemStore(sampleIssues()...)
	svc := NewIssueService(store)
	ctx := context.Background()

	res, err := svc.Execute(ctx, domain.ProposedAction{
		Kind:          domain.ActionUpdatePriority,
		TargetIssueID: "pothole",
		Payload:       domain.ActionPayload{Priority: domain.IssuePriorityMedium},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionUpdatePriority, res.Kind)
	assert.Equal(t, domain.IssuePriorityMedium, res.Issue.Priority)

	_, err = svc.Execute(ctx, domain.ProposedAction{Kind: "archive_issue", TargetIssueID: "pothole"})
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "kind", validationErr.Field)
}

func TestIssueService_Create(t *testing.T) {
	store := newMemStore()
	svc := NewIssueService(store)
	ctx := context.Background()

	issue, err := svc.Create(ctx, domain.NewIssue{Title: "Fallen tree"})
	require.NoError(t, err)
	assert.Equal(t, domain.IssueStatusPending, issue.Status)
	assert.Equal(t, domain.IssuePriorityMedium, issue.Priority)
	assert.Equal(t, domain.DefaultCategory, issue.Category)
	assert.False(t, issue.CreatedAt.IsZero())

	_, err = svc.Create(ctx, domain.NewIssue{})
	assert.EqualError(t, err, "Missing title")

	_, err = svc.Create(ctx, domain.NewIssue{Title: "x", Priority: "urgent"})
	assert.EqualError(t, err, `Invalid priority "urgent"`)
}

func TestIssueService_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := repository.Connect(ctx, repository.DriverSQLite, filepath.Join(t.TempDir(), "civic.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repository.Migrate(ctx, db))

	svc := NewIssueService(repository.NewIssueRepository(db))
	created, err := svc.Create(ctx, domain.NewIssue{Title: "Pothole on Main Street", Priority: domain.IssuePriorityHigh})
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	_, err = svc.UpdateStatus(ctx, UpdateStatusCommand{IssueID: created.ID, Status: domain.IssueStatusResolved})
	require.NoError(t, err)

	issues, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.IssueStatusResolved, issues[0].Status)
	assert.True(t, issues[0].UpdatedAt.After(created.UpdatedAt))

	_, err = svc.Delete(ctx, DeleteCommand{IssueID: created.ID})
	require.NoError(t, err)

	_, err = svc.Assign(ctx, AssignCommand{IssueID: created.ID, AssignedTo: "Team A"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Delete(ctx, DeleteCommand{IssueID: created.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
