// Package repository holds the pgx backed persistence layer.
package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ryankolean/rarefindtalent/internal/dto"
	"github.com/ryankolean/rarefindtalent/internal/entity"
	"github.com/ryankolean/rarefindtalent/internal/store"
)

// pgxPool is the subset of pgxpool.Pool the repositories use, declared so
// tests can substitute a stub.
type pgxPool interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// InquiriesRepository persists contact inquiries.
type InquiriesRepository interface {
	CreateInquiry(ctx context.Context, req dto.InquiryRequest) (*entity.Inquiry, error)
	List(ctx context.Context, limit, offset int) ([]entity.Inquiry, error)
}

// PGXInquiriesRepository implements InquiriesRepository with pgx.
type PGXInquiriesRepository struct {
	pool pgxPool
}

// NewPGXInquiriesRepository instantiates an inquiries repository.
func NewPGXInquiriesRepository(pool *pgxpool.Pool) *PGXInquiriesRepository {
	return &PGXInquiriesRepository{pool: pool}
}

var _ store.Creator = (*PGXInquiriesRepository)(nil)

// CreateInquiry inserts a new inquiry row and returns the stored record.
// Failures are wrapped as *store.Error so callers can classify them:
// constraint violations are client errors, anything else is retryable.
func (r *PGXInquiriesRepository) CreateInquiry(ctx context.Context, req dto.InquiryRequest) (*entity.Inquiry, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO contact_inquiries (full_name, email, phone, company_name, job_title, inquiry_type, preferred_contact, urgency, message)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at
    `, req.FullName, req.Email, nullable(req.Phone), nullable(req.CompanyName), nullable(req.JobTitle),
		req.InquiryType, req.PreferredContact, req.Urgency, nullable(req.Message))

	inquiry := entity.Inquiry{
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            nullable(req.Phone),
		CompanyName:      nullable(req.CompanyName),
		JobTitle:         nullable(req.JobTitle),
		InquiryType:      req.InquiryType,
		PreferredContact: req.PreferredContact,
		Urgency:          req.Urgency,
		Message:          nullable(req.Message),
	}
	if err := row.Scan(&inquiry.ID, &inquiry.CreatedAt); err != nil {
		return nil, wrapInsertError(err)
	}

	return &inquiry, nil
}

// List returns inquiries ordered newest first. A non-positive limit falls
// back to 50.
func (r *PGXInquiriesRepository) List(ctx context.Context, limit, offset int) ([]entity.Inquiry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, full_name, email, phone, company_name, job_title, inquiry_type, preferred_contact, urgency, message, created_at
        FROM contact_inquiries
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []entity.Inquiry
	for rows.Next() {
		var inq entity.Inquiry
		if err := rows.Scan(&inq.ID, &inq.FullName, &inq.Email, &inq.Phone, &inq.CompanyName, &inq.JobTitle,
			&inq.InquiryType, &inq.PreferredContact, &inq.Urgency, &inq.Message, &inq.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inquiry row: %w", err)
		}
		inquiries = append(inquiries, inq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiries: %w", err)
	}
	return inquiries, nil
}

func wrapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502", "23514": // not-null / check constraint: bad input, not worth retrying
			return &store.Error{Status: http.StatusBadRequest, Code: pgErr.Code, Message: pgErr.Message}
		default:
			return &store.Error{Status: http.StatusInternalServerError, Code: pgErr.Code, Message: pgErr.Message}
		}
	}
	return fmt.Errorf("insert inquiry: %w", err)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
