package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGXSubscribersRepository_Create(t *testing.T) {
	repo := &PGXSubscribersRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			if args[0] != "reader@example.com" {
				t.Fatalf("unexpected args: %v", args)
			}
			return &stubRow{scan: func(dest ...any) error {
				*dest[0].(*uuid.UUID) = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
				*dest[1].(*string) = "reader@example.com"
				*dest[2].(*time.Time) = time.Now()
				return nil
			}}
		},
	}}

	sub, err := repo.Create(context.Background(), "reader@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Email != "reader@example.com" {
		t.Fatalf("unexpected subscriber: %+v", sub)
	}
}

func TestPGXSubscribersRepository_CreateDuplicate(t *testing.T) {
	repo := &PGXSubscribersRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error {
				return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
			}}
		},
	}}

	if _, err := repo.Create(context.Background(), "reader@example.com"); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}
}

func TestPGXSubscribersRepository_List(t *testing.T) {
	repo := &PGXSubscribersRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return &stubRows{
				scans: []func(dest ...any) error{
					func(dest ...any) error {
						*dest[0].(*uuid.UUID) = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
						*dest[1].(*string) = "reader@example.com"
						*dest[2].(*time.Time) = time.Now()
						return nil
					},
				},
			}, nil
		},
	}}

	subs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subs) != 1 || subs[0].Email != "reader@example.com" {
		t.Fatalf("unexpected subscribers: %+v", subs)
	}
}
