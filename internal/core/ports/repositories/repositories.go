package repositories

// RepositoryProvider aggregates all repository facades so the service layer
// can be wired from a single value.
type RepositoryProvider struct {
	JobRepo            JobRepositoryFacade
	FinancialRepo      FinancialRepositoryFacade
	VariationOrderRepo VariationOrderRepositoryFacade
}
