package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ryankolean/rarefindtalent/internal/entity"
)

// ErrAlreadySubscribed is returned when the email is already on the list.
var ErrAlreadySubscribed = errors.New("email already subscribed")

// SubscribersRepository persists newsletter signups.
type SubscribersRepository interface {
	Create(ctx context.Context, email string) (*entity.Subscriber, error)
	List(ctx context.Context) ([]entity.Subscriber, error)
}

// PGXSubscribersRepository implements SubscribersRepository with pgx.
type PGXSubscribersRepository struct {
	pool pgxPool
}

// NewPGXSubscribersRepository instantiates a subscribers repository.
func NewPGXSubscribersRepository(pool *pgxpool.Pool) *PGXSubscribersRepository {
	return &PGXSubscribersRepository{pool: pool}
}

// Create inserts a subscriber row. A unique violation on the email column
// maps to ErrAlreadySubscribed.
func (r *PGXSubscribersRepository) Create(ctx context.Context, email string) (*entity.Subscriber, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO newsletter_subscribers (email)
        VALUES ($1)
        RETURNING id, email, created_at
    `, email)

	var sub entity.Subscriber
	if err := row.Scan(&sub.ID, &sub.Email, &sub.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: %v", ErrAlreadySubscribed, pgErr)
		}
		return nil, fmt.Errorf("insert subscriber: %w", err)
	}

	return &sub, nil
}

// List returns all subscribers ordered by signup date (desc).
func (r *PGXSubscribersRepository) List(ctx context.Context) ([]entity.Subscriber, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, email, created_at FROM newsletter_subscribers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []entity.Subscriber
	for rows.Next() {
		var sub entity.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscriber row: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribers: %w", err)
	}
	return subs, nil
}
