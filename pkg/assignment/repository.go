package assignment

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/capaplan/capaplan/pkg/calendar"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	ListForResources(ctx context.Context, resourceIDs []string, from, to time.Time) ([]Assignment, error)
	ListForResourceDay(ctx context.Context, resourceID string, day time.Time) ([]Assignment, error)
	ListForResourceMonth(ctx context.Context, resourceID string, year int, month time.Month) ([]Assignment, error)
	Create(ctx context.Context, assignment Assignment) error
	Delete(ctx context.Context, id string) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const assignmentColumns = "id, resource_id, project_id, project_code, day, month, year, hours, team"

func (r *RepositoryImpl) ListForResources(ctx context.Context, resourceIDs []string, from, to time.Time) ([]Assignment, error) {
	if len(resourceIDs) == 0 {
		return []Assignment{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(resourceIDs)), ",")
	// Day rows are range-filtered in SQL; legacy month/year rows are
	// fetched by year and refined in Go via EffectiveDate.
	query := fmt.Sprintf(
		"SELECT %s FROM assignments WHERE resource_id IN (%s) AND ((day >= ? AND day <= ?) OR (day IS NULL AND year >= ? AND year <= ?))",
		assignmentColumns, placeholders)

	args := make([]any, 0, len(resourceIDs)+4)
	for _, id := range resourceIDs {
		args = append(args, id)
	}
	args = append(args, calendar.DayKey(from), calendar.DayKey(to), from.Year(), to.Year())

	assignments, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	filtered := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		effective := a.EffectiveDate()
		if effective.Before(calendar.Midnight(from)) || effective.After(calendar.Midnight(to)) {
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered, nil
}

func (r *RepositoryImpl) ListForResourceDay(ctx context.Context, resourceID string, day time.Time) ([]Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM assignments WHERE resource_id = ? AND day = ?", assignmentColumns)
	return r.query(ctx, query, resourceID, calendar.DayKey(day))
}

func (r *RepositoryImpl) ListForResourceMonth(ctx context.Context, resourceID string, year int, month time.Month) ([]Assignment, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM assignments WHERE resource_id = ? AND ((day >= ? AND day <= ?) OR (day IS NULL AND year = ? AND month = ?))",
		assignmentColumns)
	first, last := calendar.MonthBounds(year, month)
	return r.query(ctx, query, resourceID, calendar.DayKey(first), calendar.DayKey(last), year, int(month))
}

func (r *RepositoryImpl) Create(ctx context.Context, a Assignment) error {
	query := "INSERT INTO assignments (id, resource_id, project_id, project_code, day, month, year, hours, team) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	var resourceID *string
	if a.ResourceID != "" {
		resourceID = &a.ResourceID
	}
	var dayKey *string
	var month, year *int
	if a.Date != nil {
		key := calendar.DayKey(*a.Date)
		dayKey = &key
	} else {
		month = &a.Month
		year = &a.Year
	}

	_, err = stmt.ExecContext(ctx, a.ID, resourceID, a.ProjectID, a.ProjectCode, dayKey, month, year, a.Hours.String(), a.Team)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id)
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

func (r *RepositoryImpl) query(ctx context.Context, query string, args ...any) ([]Assignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query assignments: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	assignments := make([]Assignment, 0, 50)
	for rows.Next() {
		var a Assignment
		var resourceID sql.NullString
		var dayKey sql.NullString
		var month, year sql.NullInt64
		var hoursString string

		if err := rows.Scan(&a.ID, &resourceID, &a.ProjectID, &a.ProjectCode, &dayKey, &month, &year, &hoursString, &a.Team); err != nil {
			err := fmt.Errorf("could not scan assignment: %w", err)
			log.Error(err)
			return nil, err
		}

		a.ResourceID = resourceID.String
		if dayKey.Valid {
			day, err := calendar.ParseDayKey(dayKey.String)
			if err != nil {
				err := fmt.Errorf("could not parse assignment day from database: %w", err)
				log.Error(err)
				return nil, err
			}
			a.Date = &day
		} else {
			a.Month = int(month.Int64)
			a.Year = int(year.Int64)
		}
		hours, err := decimal.NewFromString(hoursString)
		if err != nil {
			err := fmt.Errorf("could not parse assignment hours from database: %w", err)
			log.Error(err)
			return nil, err
		}
		a.Hours = hours

		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return assignments, nil
}
