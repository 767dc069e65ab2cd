// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ActionMetrics tracks marketplace action invocations and failures.
type ActionMetrics struct {
	invocations metric.Int64Counter
	failures    metric.Int64Counter
}

// NewActionMetrics creates the action counters on the global meter.
func NewActionMetrics() (*ActionMetrics, error) {
	meter := otel.Meter("veilmarket/actions")

	invocations, err := meter.Int64Counter(
		"veilmarket.actions.invocations",
		metric.WithDescription("Total action invocations by action name"),
	)
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter(
		"veilmarket.actions.failures",
		metric.WithDescription("Failed action invocations by action name and error code"),
	)
	if err != nil {
		return nil, err
	}
	return &ActionMetrics{invocations: invocations, failures: failures}, nil
}

// RecordInvocation counts one action call.
func (m *ActionMetrics) RecordInvocation(ctx context.Context, action string) {
	if m == nil {
		return
	}
	m.invocations.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}

// RecordFailure counts one failed action call with its error code.
func (m *ActionMetrics) RecordFailure(ctx context.Context, action, code string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("code", code),
	))
}
