package capacity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	GetForResourceMonth(ctx context.Context, resourceID string, year, month int) (*Override, error)
	GetForResourceYear(ctx context.Context, resourceID string, year int) ([]Override, error)
	Upsert(ctx context.Context, override Override) error
	Delete(ctx context.Context, id string) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetForResourceMonth(ctx context.Context, resourceID string, year, month int) (*Override, error) {
	query := "SELECT id, resource_id, month, year, total_hours FROM capacity_overrides WHERE resource_id = ? AND year = ? AND month = ?"
	row := r.db.QueryRowContext(ctx, query, resourceID, year, month)

	override, err := scanOverride(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error(err)
		return nil, err
	}
	return &override, nil
}

func (r *RepositoryImpl) GetForResourceYear(ctx context.Context, resourceID string, year int) ([]Override, error) {
	query := "SELECT id, resource_id, month, year, total_hours FROM capacity_overrides WHERE resource_id = ? AND year = ? ORDER BY month"
	rows, err := r.db.QueryContext(ctx, query, resourceID, year)
	if err != nil {
		err := fmt.Errorf("could not query capacity overrides: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	overrides := make([]Override, 0, 12)
	for rows.Next() {
		override, err := scanOverride(rows.Scan)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		overrides = append(overrides, override)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return overrides, nil
}

func (r *RepositoryImpl) Upsert(ctx context.Context, override Override) error {
	query := `INSERT INTO capacity_overrides (id, resource_id, month, year, total_hours) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (resource_id, month, year) DO UPDATE SET total_hours = excluded.total_hours`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		override.ID,
		override.ResourceID,
		override.Month,
		override.Year,
		override.TotalHours.String(),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM capacity_overrides WHERE id = ?", id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not retrieve affected rows: %w", err)
		log.Error(err)
		return false, err
	}
	return affected > 0, nil
}

func scanOverride(scan func(dest ...any) error) (Override, error) {
	var override Override
	var hoursString string

	if err := scan(&override.ID, &override.ResourceID, &override.Month, &override.Year, &hoursString); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Override{}, err
		}
		return Override{}, fmt.Errorf("could not scan capacity override: %w", err)
	}

	hours, err := decimal.NewFromString(hoursString)
	if err != nil {
		return Override{}, fmt.Errorf("could not parse total hours from database: %w", err)
	}
	override.TotalHours = hours
	return override, nil
}
