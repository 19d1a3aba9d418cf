package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-accounts/app/entity"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

const userColumns = `id, email, password_hash, email_verified, customer_id, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		strings.ToLower(strings.TrimSpace(user.Email)),
		user.PasswordHash,
		user.EmailVerified,
		nullableStringValue(user.CustomerID),
		utc(user.CreatedAt),
		utc(user.UpdatedAt),
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.findOne(ctx, query, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ? LIMIT 1`
	return r.findOne(ctx, query, strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, id string, now time.Time) error {
	query := `UPDATE users SET email_verified = 1, updated_at = ? WHERE id = ?`
	return r.execOne(ctx, query, utc(now), id)
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string, now time.Time) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`
	return r.execOne(ctx, query, passwordHash, utc(now), id)
}

func (r *UserRepository) SetCustomerID(ctx context.Context, id, customerID string, now time.Time) error {
	query := `UPDATE users SET customer_id = ?, updated_at = ? WHERE id = ?`
	return r.execOne(ctx, query, customerID, utc(now), id)
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.User, error) {
	item := &entity.User{}
	if err := scanUser(r.db.QueryRowContext(ctx, query, args...), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *UserRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(scanner rowScanner, item *entity.User) error {
	var customerID sql.NullString
	err := scanner.Scan(
		&item.ID,
		&item.Email,
		&item.PasswordHash,
		&item.EmailVerified,
		&customerID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if customerID.Valid {
		item.CustomerID = &customerID.String
	} else {
		item.CustomerID = nil
	}
	return nil
}
