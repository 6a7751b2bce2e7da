package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/frontdesk/internal/repository/base"
	"github.com/Freeeeeet/frontdesk/internal/store"
)

// Store хранилище PostgreSQL: набор репозиториев поверх пула или открытой транзакции
type Store struct {
	*RoomRepository
	*BookingRepository
	*LedgerRepository
	*AdvanceBookingRepository
	*PaymentRepository

	pool *pgxpool.Pool
	inTx bool
}

var _ store.Store = (*Store)(nil)

// NewStore создаёт хранилище поверх пула
func NewStore(pool *pgxpool.Pool) *Store {
	return newStore(pool, pool, false)
}

func newStore(pool *pgxpool.Pool, db base.DBTX, inTx bool) *Store {
	return &Store{
		RoomRepository:           NewRoomRepository(db),
		BookingRepository:        NewBookingRepository(db),
		LedgerRepository:         NewLedgerRepository(db),
		AdvanceBookingRepository: NewAdvanceBookingRepository(db),
		PaymentRepository:        NewPaymentRepository(db),
		pool:                     pool,
		inTx:                     inTx,
	}
}

// WithinTx выполняет fn в транзакции: COMMIT при nil, ROLLBACK при ошибке
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, newStore(s.pool, tx, true))
	})
}
