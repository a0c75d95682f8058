package schedules

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s Schedule) error
	GetByID(ctx context.Context, id string) (Schedule, error)

	ListByProfile(ctx context.Context, profileID string) ([]Schedule, error)
	ListByMedicine(ctx context.Context, medicineID string) ([]Schedule, error)

	// ListByRange devuelve las tomas del perfil con hora en [from, to],
	// ambos extremos incluidos. El orden es arbitrario; el caller ordena.
	ListByRange(ctx context.Context, profileID string, from, to time.Time) ([]Schedule, error)

	Update(ctx context.Context, s Schedule) error
	Delete(ctx context.Context, id string) error

	DeleteByMedicine(ctx context.Context, medicineID string) error
	DeleteByProfile(ctx context.Context, profileID string) error

	// DeleteFuturePending borra las tomas de la medicina con hora
	// estrictamente posterior a `after` y estado pending (incluye las que se
	// verían overdue, porque overdue nunca se persiste). Que no haya nada
	// para borrar no es un error.
	DeleteFuturePending(ctx context.Context, medicineID string, after time.Time) error
}
