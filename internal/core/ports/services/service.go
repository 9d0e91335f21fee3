package services

import "context"

// ServiceContainer holds instances of all the application services. This is
// the main entry point for accessing service functionality and is what the
// handlers are wired against.
type ServiceContainer struct {
	Job            JobSvcFacade
	Financial      FinancialSvcFacade
	VariationOrder VariationOrderSvcFacade
}

// EventPublisher emits financial domain events for downstream consumers
// (dashboards, notifications). Publishing is best-effort: implementations
// log failures but never propagate them, so eventing can never interrupt a
// financial mutation.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, jobID string, actorID string, payload map[string]any)
}
