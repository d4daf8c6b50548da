package components

import (
	"venuebook/internal/infra/readstore"
	"venuebook/internal/infra/repository"
	"venuebook/internal/usecase/commands"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewTxBeginner,
		repository.NewBookingRepository,
		repository.NewVenueRepository,
		repository.NewUserRepository,
		readstore.NewBookingReadStore,
		readstore.NewVenueReadStore,
		readstore.NewUserReadStore,
	),
)

func NewTxBeginner(pool *pgxpool.Pool) commands.TxBeginner {
	return pool
}
