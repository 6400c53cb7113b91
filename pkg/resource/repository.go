package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	GetAll(ctx context.Context, team string, includeInactive bool) ([]Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	Create(ctx context.Context, resource Resource) error
	Update(ctx context.Context, resource Resource) (bool, error)
	SetActive(ctx context.Context, id string, active bool) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetAll(ctx context.Context, team string, includeInactive bool) ([]Resource, error) {
	query := "SELECT id, code, name, default_capacity, team, active, skills FROM resources"
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if team != "" {
		clauses = append(clauses, "team = ?")
		args = append(args, team)
	}
	if !includeInactive {
		clauses = append(clauses, "active = 1")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY code"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query resources: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	resources := make([]Resource, 0, 20)
	for rows.Next() {
		res, err := scanResource(rows.Scan)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return resources, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id string) (*Resource, error) {
	query := "SELECT id, code, name, default_capacity, team, active, skills FROM resources WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, id)

	res, err := scanResource(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error(err)
		return nil, err
	}
	return &res, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, resource Resource) error {
	query := "INSERT INTO resources (id, code, name, default_capacity, team, active, skills) VALUES (?, ?, ?, ?, ?, ?, ?)"

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		resource.ID,
		resource.Code,
		resource.Name,
		resource.DefaultCapacity.String(),
		resource.Team,
		boolToInt(resource.Active),
		strings.Join(resource.Skills, ","),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) Update(ctx context.Context, resource Resource) (bool, error) {
	query := "UPDATE resources SET code = ?, name = ?, default_capacity = ?, team = ?, skills = ? WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query,
		resource.Code,
		resource.Name,
		resource.DefaultCapacity.String(),
		resource.Team,
		strings.Join(resource.Skills, ","),
		resource.ID,
	)
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

func (r *RepositoryImpl) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	query := "UPDATE resources SET active = ? WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query, boolToInt(active), id)
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

func scanResource(scan func(dest ...any) error) (Resource, error) {
	var res Resource
	var capacityString string
	var active int
	var skillsString string

	if err := scan(&res.ID, &res.Code, &res.Name, &capacityString, &res.Team, &active, &skillsString); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resource{}, err
		}
		return Resource{}, fmt.Errorf("could not scan resource: %w", err)
	}

	capacity, err := parseHours(capacityString)
	if err != nil {
		return Resource{}, fmt.Errorf("could not parse default capacity from database: %w", err)
	}
	res.DefaultCapacity = capacity
	res.Active = active != 0
	if skillsString != "" {
		res.Skills = strings.Split(skillsString, ",")
	}
	return res, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
