package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/kartia-app/kartia-server/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamOwnerInvalid = errors.New("team owner conflict or invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)

	// FindForUser returns the team the user owns or rides for, or
	// ErrTeamNotFound when there is none.
	FindForUser(ctx context.Context, userID int) (*models.Team, error)

	UpdateRoster(ctx context.Context, id int, pilotos, joinRequests []int) error
	UpdateIcon(ctx context.Context, id int, icon string) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (nome, owner_id, icon, pilotos, join_requests)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.Nome,
		team.OwnerID,
		team.Icon,
		pq.Array(team.Pilotos),
		pq.Array(team.JoinRequests),
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" && pqErr.Constraint == "teams_owner_id_fkey" {
			return ErrTeamOwnerInvalid
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, nome, owner_id, icon, pilotos, join_requests, created_at
		FROM teams
		WHERE id = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `
		SELECT id, nome, owner_id, icon, pilotos, join_requests, created_at
		FROM teams
		ORDER BY nome ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		team, scanErr := scanTeamColumns(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, team)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *postgresTeamRepository) FindForUser(ctx context.Context, userID int) (*models.Team, error) {
	query := `
		SELECT id, nome, owner_id, icon, pilotos, join_requests, created_at
		FROM teams
		WHERE owner_id = $1 OR $1 = ANY(pilotos)
		LIMIT 1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, userID))
}

func (r *postgresTeamRepository) UpdateRoster(ctx context.Context, id int, pilotos, joinRequests []int) error {
	query := `UPDATE teams SET pilotos = $1, join_requests = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, pq.Array(pilotos), pq.Array(joinRequests), id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateIcon(ctx context.Context, id int, icon string) error {
	query := `UPDATE teams SET icon = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, icon, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM teams WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) scanTeam(row *sql.Row) (*models.Team, error) {
	team, err := scanTeamColumns(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func scanTeamColumns(scan func(dest ...interface{}) error) (*models.Team, error) {
	team := &models.Team{}
	var pilotos, requests pq.Int64Array

	err := scan(
		&team.ID,
		&team.Nome,
		&team.OwnerID,
		&team.Icon,
		&pilotos,
		&requests,
		&team.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	team.Pilotos = int64sToInts(pilotos)
	team.JoinRequests = int64sToInts(requests)
	return team, nil
}
