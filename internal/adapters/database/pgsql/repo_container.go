package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/voltcraft/jobledger/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository against one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		JobRepo:            newPgxJobRepository(dbPool),
		FinancialRepo:      newPgxFinancialRepository(dbPool),
		VariationOrderRepo: newPgxVariationOrderRepository(dbPool),
	}
}
