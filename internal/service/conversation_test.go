package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/civic/internal/domain"
)

func TestConversation_ConfirmFlow(t *testing.T) {
	chat, store := newTestChat(t, true)
	conv := NewConversation(chat)
	ctx := context.Background()

	resp, err := conv.Send(ctx, `Mark "Pothole on Main Street" as in progress`)
	require.NoError(t, err)
	require.NotNil(t, resp.ActionRequired)
	assert.Equal(t, GateAwaitingConfirmation, conv.State())
	assert.Equal(t, domain.IssueStatusInProgress, conv.Pending().Payload.Status)

	_, err = conv.Send(ctx, "what is the overview?")
	require.NoError(t, err)
	assert.Equal(t, GateAwaitingConfirmation, conv.State(), "unrelated messages keep the proposal")

	resp, err = conv.Send(ctx, "yes")
	require.NoError(t, err)
	assert.Equal(t, "✅ Successfully updated issue \"Pothole on Main Street\" to in_progress", resp.Response)
	assert.Equal(t, GateIdle, conv.State())

	issue, err := store.FindByID(ctx, "pothole")
	require.NoError(t, err)
	assert.Equal(t, domain.IssueStatusInProgress, issue.Status)

	history := conv.History()
	require.Len(t, history, 6)
	assert.Equal(t, domain.ChatRoleUser, history[4].Role)
	assert.Equal(t, "yes", history[4].Content)
	assert.Equal(t, resp.Response, history[5].Content)
}

func TestConversation_Cancel(t *testing.T) {
	chat, store := newTestChat(t, true)
	conv := NewConversation(chat)
	ctx := context.Background()

	_, err := conv.Send(ctx, `delete "Pothole"`)
	require.NoError(t, err)
	require.Equal(t, GateAwaitingConfirmation, conv.State())

	resp, err := conv.Send(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, CancelledMessage, resp.Response)
	assert.Equal(t, GateIdle, conv.State())
	assert.Zero(t, store.writes)
}

func TestConversation_YesWithoutProposal(t *testing.T) {
	chat, store := newTestChat(t, true)
	conv := NewConversation(chat)

	resp, err := conv.Send(context.Background(), "yes")
	require.NoError(t, err)
	assert.Nil(t, resp.ActionRequired)
	assert.Zero(t, store.writes)
	assert.Equal(t, GateIdle, conv.State())
}
