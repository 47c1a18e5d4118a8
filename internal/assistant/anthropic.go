package assistant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/sumire/civic/internal/domain"
	"github.com/sumire/civic/internal/telemetry"
)

const instrumentationName = "github.com/sumire/civic/assistant"

// AnthropicConfig configures the hosted model client.
type AnthropicConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string
}

// AnthropicClient answers chat turns with the Anthropic Messages API.
type AnthropicClient struct {
	api     anthropic.Client
	model   anthropic.Model
	timeout time.Duration
}

// NewAnthropicClient creates a client for the given key and model.
func NewAnthropicClient(cfg AnthropicConfig) *AnthropicClient {
	// A failed call falls back to templates instead of retrying.
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	modelMetricsOnce.Do(initModelMetrics)

	return &AnthropicClient{
		api:     anthropic.NewClient(opts...),
		model:   anthropic.Model(cfg.Model),
		timeout: cfg.Timeout,
	}
}

var modelMetrics struct {
	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
	duration     metric.Float64Histogram
}

var modelMetricsOnce sync.Once

func initModelMetrics() {
	m := telemetry.Meter(instrumentationName)
	modelMetrics.inputTokens, _ = m.Int64Counter("civic.assistant.input_tokens",
		metric.WithDescription("Language model input tokens consumed"),
		metric.WithUnit("{token}"),
	)
	modelMetrics.outputTokens, _ = m.Int64Counter("civic.assistant.output_tokens",
		metric.WithDescription("Language model output tokens generated"),
		metric.WithUnit("{token}"),
	)
	modelMetrics.duration, _ = m.Float64Histogram("civic.assistant.request.duration",
		metric.WithDescription("Language model request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
}

// Complete sends one chat turn to the model and returns the first text block.
func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, span := telemetry.Tracer(instrumentationName).Start(ctx, "anthropic.messages.new")
	defer span.End()
	modelAttr := attribute.String("civic.assistant.model", string(c.model))
	span.SetAttributes(modelAttr)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: req.MaxTokens,
		Messages:  messageParams(conversation(req.History, req.Message)),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	t0 := time.Now()
	msg, err := c.api.Messages.New(ctx, params)
	if modelMetrics.duration != nil {
		modelMetrics.duration.Record(ctx, float64(time.Since(t0).Milliseconds()), metric.WithAttributes(modelAttr))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	if modelMetrics.inputTokens != nil {
		modelMetrics.inputTokens.Add(ctx, msg.Usage.InputTokens, metric.WithAttributes(modelAttr))
		modelMetrics.outputTokens.Add(ctx, msg.Usage.OutputTokens, metric.WithAttributes(modelAttr))
	}
	span.SetAttributes(
		attribute.Int64("civic.assistant.input_tokens", msg.Usage.InputTokens),
		attribute.Int64("civic.assistant.output_tokens", msg.Usage.OutputTokens),
	)

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in API response")
}

func messageParams(msgs []domain.ChatMessage) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == domain.ChatRoleAssistant {
			params = append(params, anthropic.NewAssistantMessage(block))
			continue
		}
		params = append(params, anthropic.NewUserMessage(block))
	}
	return params
}
