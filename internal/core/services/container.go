package services

import (
	portsrepo "github.com/voltcraft/jobledger/internal/core/ports/repositories"
	portssvc "github.com/voltcraft/jobledger/internal/core/ports/services"
)

// NewServiceContainer creates the service container with properly
// initialized dependencies. The publisher may be nil, in which case no
// events are emitted.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, publisher portssvc.EventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Job = NewJobService(
		repos.JobRepo,
		WithJobEventPublisher(publisher),
	)

	container.Financial = NewFinancialService(
		repos.FinancialRepo,
		repos.VariationOrderRepo,
		WithFinancialEventPublisher(publisher),
	)

	container.VariationOrder = NewVariationOrderService(
		repos.VariationOrderRepo,
		repos.FinancialRepo,
		WithVariationOrderEventPublisher(publisher),
	)

	return container
}
