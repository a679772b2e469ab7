package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymledger/internal/common"
	"gymledger/internal/domain/model"
)

type ResetTokenRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*model.PasswordResetToken, error)
	Delete(ctx context.Context, token string) error
}

type pgResetTokenRepository struct {
	db *sql.DB
}

func NewPgResetTokenRepository(db *sql.DB) ResetTokenRepository {
	return &pgResetTokenRepository{db: db}
}

func (r *pgResetTokenRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	query := `INSERT INTO password_reset_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, token.Token, token.UserID, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("pgResetTokenRepository.Create: %w", err)
	}
	return nil
}

func (r *pgResetTokenRepository) FindByToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	query := `SELECT token, user_id, expires_at FROM password_reset_tokens WHERE token = $1`
	t := &model.PasswordResetToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&t.Token, &t.UserID, &t.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgResetTokenRepository.FindByToken: %w", err)
	}
	return t, nil
}

func (r *pgResetTokenRepository) Delete(ctx context.Context, token string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("pgResetTokenRepository.Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgResetTokenRepository.Delete: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
