package service

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/sumire/civic/internal/domain"
	"github.com/sumire/civic/internal/telemetry"
)

var serviceMetrics struct {
	actions metric.Int64Counter
	turns   metric.Int64Counter
}

var serviceMetricsOnce sync.Once

func initServiceMetrics() {
	m := telemetry.Meter("github.com/sumire/civic/service")
	serviceMetrics.actions, _ = m.Int64Counter("civic.actions",
		metric.WithDescription("Issue mutations attempted, by kind and outcome"),
		metric.WithUnit("{action}"),
	)
	serviceMetrics.turns, _ = m.Int64Counter("civic.chat.turns",
		metric.WithDescription("Chat turns handled, by outcome"),
		metric.WithUnit("{turn}"),
	)
}

func recordAction(ctx context.Context, kind domain.ActionKind, err error) {
	serviceMetricsOnce.Do(initServiceMetrics)
	if serviceMetrics.actions == nil {
		return
	}
	serviceMetrics.actions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("outcome", outcomeOf(err)),
	))
}

func recordTurn(ctx context.Context, outcome string) {
	serviceMetricsOnce.Do(initServiceMetrics)
	if serviceMetrics.turns == nil {
		return
	}
	serviceMetrics.turns.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
