package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/killwatch/internal/admission"
	"github.com/osse101/killwatch/internal/alert"
	"github.com/osse101/killwatch/internal/database/postgres"
	"github.com/osse101/killwatch/internal/lifecycle"
)

// Repositories holds all repository implementations used by the application.
type Repositories struct {
	Killmail  admission.Repository
	Lifecycle lifecycle.Repository
	Alert     alert.Repository
}

// InitializeRepositories creates the Postgres-backed repositories
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Killmail:  postgres.NewKillmailRepository(dbPool),
		Lifecycle: postgres.NewLifecycleRepository(dbPool),
		Alert:     postgres.NewAlertRepository(dbPool),
	}
}
