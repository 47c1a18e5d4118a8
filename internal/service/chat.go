package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sumire/civic/internal/assistant"
	"github.com/sumire/civic/internal/domain"
	"github.com/sumire/civic/internal/intent"
)

const (
	successGlyph = "✅ "
	failureGlyph = "❌ "

	unverifiedActionMessage = failureGlyph + "This action could not be verified. Please ask again."
)

// ChatConfig controls how confirmations are trusted.
type ChatConfig struct {
	// RequireActionTokens makes confirmations execute only the action
	// encoded in a server-issued token. When false, the submitted action
	// fields are executed as given.
	RequireActionTokens bool
}

// ChatService handles chat turns: it detects mutation intents, composes the
// reply, and executes confirmed actions.
type ChatService struct {
	issues        *IssueService
	composer      *assistant.Composer
	tokens        *TokenService
	requireTokens bool
}

// NewChatService creates a new ChatService.
func NewChatService(issues *IssueService, composer *assistant.Composer, tokens *TokenService, cfg ChatConfig) *ChatService {
	return &ChatService{
		issues:        issues,
		composer:      composer,
		tokens:        tokens,
		requireTokens: cfg.RequireActionTokens,
	}
}

// HandleTurn answers one chat turn. Mutation failures are rendered into the
// reply; only a failure to read the issue list or sign a proposal is
// returned as an error.
func (s *ChatService) HandleTurn(ctx context.Context, req domain.TurnRequest) (*domain.TurnResponse, error) {
	if req.ExecuteAction != nil {
		return s.execute(ctx, *req.ExecuteAction), nil
	}

	if req.Context != nil && req.Context.PendingAction != nil {
		switch ParseReply(req.Message) {
		case ReplyYes:
			return s.execute(ctx, *req.Context.PendingAction), nil
		case ReplyNo:
			return s.Cancel(ctx, *req.Context.PendingAction), nil
		}
	}

	if strings.TrimSpace(req.Message) == "" {
		return nil, domain.MissingField("message")
	}

	issues, err := s.issues.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load issues: %w", err)
	}

	det := intent.Detect(req.Message, issues)
	reply := s.composer.Compose(ctx, req.Message, req.History(), issues)

	resp := &domain.TurnResponse{
		Response:         reply.Text,
		SuggestedActions: reply.Suggested,
		ContextUpdates: map[string]any{
			"last_intent": "none",
			"issue_count": reply.Snapshot.Total,
		},
	}

	outcome := "answered"
	switch det.Outcome {
	case intent.Matched:
		action := *det.Action
		token, err := s.tokens.SignAction(action)
		if err != nil {
			return nil, err
		}
		action.Token = token
		resp.Response += ConfirmationPrompt(action)
		resp.ActionRequired = &action
		resp.ContextUpdates["last_intent"] = string(action.Kind)
		outcome = "proposed"
		slog.InfoContext(ctx, "action proposed", "kind", action.Kind, "issue_id", action.TargetIssueID)
	case intent.TargetNotFound:
		resp.Response += fmt.Sprintf("\n\nI couldn't find an issue matching \"%s\".", det.Fragment)
		outcome = "target_not_found"
	}

	recordTurn(ctx, outcome)
	return resp, nil
}

// Cancel answers a declined proposal. Nothing is written.
func (s *ChatService) Cancel(ctx context.Context, action domain.ProposedAction) *domain.TurnResponse {
	recordTurn(ctx, "cancelled")
	slog.InfoContext(ctx, "action cancelled", "kind", action.Kind, "issue_id", action.TargetIssueID)
	return &domain.TurnResponse{
		Response:         CancelledMessage,
		SuggestedActions: []domain.SuggestedAction{},
		ContextUpdates: map[string]any{
			"last_intent":     string(action.Kind),
			"action_executed": false,
		},
	}
}

func (s *ChatService) execute(ctx context.Context, submitted domain.ProposedAction) *domain.TurnResponse {
	resp := &domain.TurnResponse{
		SuggestedActions: []domain.SuggestedAction{},
		ContextUpdates: map[string]any{
			"last_intent":     string(submitted.Kind),
			"action_executed": false,
		},
	}

	action, err := s.authorize(submitted)
	if err != nil {
		slog.WarnContext(ctx, "confirmation rejected", "error", err)
		recordTurn(ctx, "rejected")
		resp.Response = unverifiedActionMessage
		return resp
	}

	result, err := s.issues.Execute(ctx, action)
	if err != nil {
		recordTurn(ctx, "failed")
		resp.Response = failureGlyph + "Failed to execute action: " + err.Error()
		return resp
	}

	recordTurn(ctx, "executed")
	resp.Response = successGlyph + result.Message
	resp.ContextUpdates["action_executed"] = true
	return resp
}

// authorize returns the action to execute for a confirmation.
func (s *ChatService) authorize(submitted domain.ProposedAction) (domain.ProposedAction, error) {
	if !s.requireTokens {
		return submitted, nil
	}
	action, err := s.tokens.RedeemAction(submitted.Token)
	if err != nil {
		return domain.ProposedAction{}, err
	}
	return action, nil
}
