package repository

import (
	"context"
	"database/sql"
	"time"

	"vedic_counter/internal/models"
)

// Authorization stores the accounts behind the bearer tokens.
type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// StateRepo persists the counter session under the storage keys.
type StateRepo interface {
	Save(ctx context.Context, s models.CounterState) error
	Load(ctx context.Context) (models.CounterState, error)
	Clear(ctx context.Context) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.CounterEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.CounterEvent, error)
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
	Auth      Authorization
}

// NewRepository wires the SQL-backed repositories. Counter keys go to kv when
// given, otherwise to the counter_kv table of db.
func NewRepository(db *sql.DB, kv KVStore) *Repository {
	if kv == nil {
		kv = NewKVSQLite(db)
	}
	return &Repository{
		StateRepo: NewStateStore(kv),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
