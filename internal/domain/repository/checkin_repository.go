package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymledger/internal/common"
	"gymledger/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type CheckInRepository interface {
	// Create inserts the row directly; the UNIQUE (user_id, date) index is the
	// only duplicate guard, so a racing second insert loses at the store.
	Create(ctx context.Context, checkIn *model.CheckIn) error
	Delete(ctx context.Context, userID string, day time.Time) error
	FindInRange(ctx context.Context, from, to time.Time) ([]model.CheckIn, error)
}

type pgCheckInRepository struct {
	db *sql.DB
}

func NewPgCheckInRepository(db *sql.DB) CheckInRepository {
	return &pgCheckInRepository{db: db}
}

func (r *pgCheckInRepository) Create(ctx context.Context, checkIn *model.CheckIn) error {
	query := `INSERT INTO check_ins (id, user_id, date, workout_time)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		checkIn.ID, checkIn.UserID, checkIn.Date, checkIn.WorkoutTime,
	).Scan(&checkIn.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // (user_id, date) already taken
			return fmt.Errorf("check-in already exists for this day: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgCheckInRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCheckInRepository) Delete(ctx context.Context, userID string, day time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM check_ins WHERE user_id = $1 AND date = $2`, userID, day)
	if err != nil {
		return fmt.Errorf("pgCheckInRepository.Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgCheckInRepository.Delete: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCheckInRepository) FindInRange(ctx context.Context, from, to time.Time) ([]model.CheckIn, error) {
	query := `SELECT c.id, c.user_id, c.date, c.workout_time, c.created_at, COALESCE(u.name, '')
	          FROM check_ins c
	          JOIN users u ON u.id = c.user_id
	          WHERE c.date >= $1 AND c.date <= $2
	          ORDER BY c.date ASC`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("pgCheckInRepository.FindInRange: %w", err)
	}
	defer rows.Close()

	var checkIns []model.CheckIn
	for rows.Next() {
		var c model.CheckIn
		if err := rows.Scan(&c.ID, &c.UserID, &c.Date, &c.WorkoutTime, &c.CreatedAt, &c.UserName); err != nil {
			return nil, fmt.Errorf("pgCheckInRepository.FindInRange scan: %w", err)
		}
		checkIns = append(checkIns, c)
	}
	return checkIns, rows.Err()
}
