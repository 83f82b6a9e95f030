package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/domain"
)

const uniqueViolation = "23505"

// AccountRepository defines persistence access for accounts. The unique
// constraint on external_id is the serialization point for concurrent
// first-time provisioning of the same identity.
type AccountRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, externalID string, profile domain.Profile) (*domain.Account, error)
	UpdateProfile(ctx context.Context, externalID string, profile domain.Profile) (*domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, external_id, email, first_name, last_name, phone, avatar, role, status, created_at, updated_at`

func (r *accountRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.Account, error) {
	const query = `
        SELECT ` + accountColumns + `
        FROM accounts WHERE external_id=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, externalID))
}

func (r *accountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT ` + accountColumns + `
        FROM accounts WHERE id=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// Create inserts a new account. Role is always CUSTOMER at creation; there
// is no code path here that accepts a caller-supplied role.
func (r *accountRepository) Create(ctx context.Context, externalID string, profile domain.Profile) (*domain.Account, error) {
	const query = `
        INSERT INTO accounts (external_id, email, first_name, last_name, phone, avatar, role, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + accountColumns

	account, err := r.scanOne(r.pool.QueryRow(ctx, query,
		externalID,
		profile.Email,
		profile.FirstName,
		profile.LastName,
		profile.Phone,
		profile.Avatar,
		domain.RoleCustomer,
		domain.AccountStatusActive,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateExternalID
		}
		return nil, err
	}
	return account, nil
}

// UpdateProfile overwrites the mutable profile fields. It never touches
// role or external_id.
func (r *accountRepository) UpdateProfile(ctx context.Context, externalID string, profile domain.Profile) (*domain.Account, error) {
	const query = `
        UPDATE accounts
        SET email=$1, first_name=$2, last_name=$3, phone=$4, avatar=$5, updated_at=NOW()
        WHERE external_id=$6
        RETURNING ` + accountColumns

	account, err := r.scanOne(r.pool.QueryRow(ctx, query,
		profile.Email,
		profile.FirstName,
		profile.LastName,
		profile.Phone,
		profile.Avatar,
		externalID,
	))
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) scanOne(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.ExternalID,
		&account.Email,
		&account.FirstName,
		&account.LastName,
		&account.Phone,
		&account.Avatar,
		&account.Role,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}
