package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/sumire/civic/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// memStore is an in-memory IssueStore that keeps insertion order.
type memStore struct {
	mu      sync.Mutex
	issues  []domain.Issue
	failErr error
	writes  int
}

func newMemStore(issues ...domain.Issue) *memStore {
	return &memStore{issues: issues}
}

func (m *memStore) List(_ context.Context) ([]domain.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return append([]domain.Issue(nil), m.issues...), nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*domain.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.issues {
		if m.issues[i].ID == id {
			issue := m.issues[i]
			return &issue, nil
		}
	}
	return nil, fmt.Errorf("%w: issue %s", domain.ErrNotFound, id)
}

func (m *memStore) Create(_ context.Context, issue domain.Issue) (*domain.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failErr != nil {
		return nil, m.failErr
	}
	if issue.ID == "" {
		issue.ID = fmt.Sprintf("issue-%d", len(m.issues)+1)
	}
	m.issues = append(m.issues, issue)
	return &issue, nil
}

func (m *memStore) apply(id string, at time.Time, fn func(*domain.Issue)) (*domain.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failErr != nil {
		return nil, m.failErr
	}
	for i := range m.issues {
		if m.issues[i].ID == id {
			fn(&m.issues[i])
			m.issues[i].UpdatedAt = at
			issue := m.issues[i]
			return &issue, nil
		}
	}
	return nil, fmt.Errorf("%w: issue %s", domain.ErrNotFound, id)
}

func (m *memStore) UpdateStatus(_ context.Context, id string, status domain.IssueStatus, at time.Time) (*domain.Issue, error) {
	return m.apply(id, at, func(i *domain.Issue) { i.Status = status })
}

func (m *memStore) UpdateAssignee(_ context.Context, id, assignedTo string, at time.Time) (*domain.Issue, error) {
	return m.apply(id, at, func(i *domain.Issue) { i.AssignedTo = &assignedTo })
}

func (m *memStore) UpdatePriority(_ context.Context, id string, priority domain.IssuePriority, at time.Time) (*domain.Issue, error) {
	return m.apply(id, at, func(i *domain.Issue) { i.Priority = priority })
}

func (m *memStore) Delete(_ context.Context, id string) (*domain.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failErr != nil {
		return nil, m.failErr
	}
	for i := range m.issues {
		if m.issues[i].ID == id {
			issue := m.issues[i]
			m.issues = append(m.issues[:i], m.issues[i+1:]...)
			return &issue, nil
		}
	}
	return nil, fmt.Errorf("%w: issue %s", domain.ErrNotFound, id)
}

var errStoreDown = errors.New("connection to store lost")

func sampleIssues() []domain.Issue {
	base := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	return []domain.Issue{
		{ID: "pothole", Title: "Pothole on Main Street", Category: "roads", Status: domain.IssueStatusPending,
			Priority: domain.IssuePriorityCritical, CreatedAt: base, UpdatedAt: base},
		{ID: "leak", Title: "Water Leak near Library", Category: "water", Status: domain.IssueStatusInProgress,
			Priority: domain.IssuePriorityHigh, CreatedAt: base, UpdatedAt: base},
	}
}
