package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vibast-solutions/ms-go-accounts/app/entity"
)

type VerificationCodeRepository struct {
	db DBTX
}

func NewVerificationCodeRepository(db DBTX) *VerificationCodeRepository {
	return &VerificationCodeRepository{db: db}
}

// Replace deletes every stored code of the user and inserts code, atomically
// when the underlying handle supports transactions.
func (r *VerificationCodeRepository) Replace(ctx context.Context, code *entity.VerificationCode) error {
	return withTx(ctx, r.db, func(tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM verification_codes WHERE user_id = ?`, code.UserID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO verification_codes (user_id, code, expires_at, created_at)
			VALUES (?, ?, ?, ?)
		`, code.UserID, code.Code, utc(code.ExpiresAt), utc(code.CreatedAt))
		if err != nil {
			return err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		code.ID = uint64(id)
		return nil
	})
}

func (r *VerificationCodeRepository) FindByUserID(ctx context.Context, userID string) (*entity.VerificationCode, error) {
	query := `
		SELECT id, user_id, code, expires_at, created_at
		FROM verification_codes
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT 1
	`

	item := &entity.VerificationCode{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&item.ID,
		&item.UserID,
		&item.Code,
		&item.ExpiresAt,
		&item.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *VerificationCodeRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM verification_codes WHERE user_id = ?`, userID)
	return err
}

func (r *VerificationCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM verification_codes WHERE expires_at <= ?`, utc(now))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
