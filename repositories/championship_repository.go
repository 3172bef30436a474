package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/kartia-app/kartia-server/models"
)

var (
	ErrChampionshipNotFound     = errors.New("championship not found")
	ErrChampionshipCodeConflict = errors.New("championship code conflict")
	ErrChampionshipOwnerInvalid = errors.New("championship owner conflict or invalid")
)

// ChampionshipRepository persists championships. The scores column is
// stored and returned as raw text; decoding is the service layer's job.
type ChampionshipRepository interface {
	Create(ctx context.Context, champ *models.Championship) error
	GetByID(ctx context.Context, id int) (*models.Championship, error)
	GetByCode(ctx context.Context, code string) (*models.Championship, error)
	List(ctx context.Context) ([]*models.Championship, error)

	// UpdateMembers persists the players list and the scores text together.
	UpdateMembers(ctx context.Context, id int, players []int, scoresRaw string) error

	// UpdateScores persists only the scores text.
	UpdateScores(ctx context.Context, id int, scoresRaw string) error

	Delete(ctx context.Context, id int) error
}

type postgresChampionshipRepository struct {
	db *sql.DB
}

func NewPostgresChampionshipRepository(db *sql.DB) ChampionshipRepository {
	return &postgresChampionshipRepository{db: db}
}

func (r *postgresChampionshipRepository) Create(ctx context.Context, champ *models.Championship) error {
	query := `
		INSERT INTO championships (nome, owner_id, code, players, scores)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		champ.Nome,
		champ.OwnerID,
		champ.Code,
		pq.Array(champ.Players),
		champ.ScoresRaw,
	).Scan(&champ.ID, &champ.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "championships_code_key" {
					return ErrChampionshipCodeConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "championships_owner_id_fkey" {
					return ErrChampionshipOwnerInvalid
				}
			}
		}
		return err
	}

	return nil
}

func (r *postgresChampionshipRepository) GetByID(ctx context.Context, id int) (*models.Championship, error) {
	query := `
		SELECT id, nome, owner_id, code, players, scores, created_at
		FROM championships
		WHERE id = $1`
	return r.scanChampionship(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresChampionshipRepository) GetByCode(ctx context.Context, code string) (*models.Championship, error) {
	query := `
		SELECT id, nome, owner_id, code, players, scores, created_at
		FROM championships
		WHERE code = $1`
	return r.scanChampionship(r.db.QueryRowContext(ctx, query, code))
}

// List returns every championship. Filtering by membership happens in the
// service layer; there is no store-side filter.
func (r *postgresChampionshipRepository) List(ctx context.Context) ([]*models.Championship, error) {
	query := `
		SELECT id, nome, owner_id, code, players, scores, created_at
		FROM championships
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	champs := make([]*models.Championship, 0)
	for rows.Next() {
		var champ models.Championship
		var players pq.Int64Array
		if scanErr := rows.Scan(
			&champ.ID,
			&champ.Nome,
			&champ.OwnerID,
			&champ.Code,
			&players,
			&champ.ScoresRaw,
			&champ.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		champ.Players = int64sToInts(players)
		champs = append(champs, &champ)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return champs, nil
}

func (r *postgresChampionshipRepository) UpdateMembers(ctx context.Context, id int, players []int, scoresRaw string) error {
	query := `UPDATE championships SET players = $1, scores = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, pq.Array(players), scoresRaw, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrChampionshipNotFound)
}

func (r *postgresChampionshipRepository) UpdateScores(ctx context.Context, id int, scoresRaw string) error {
	query := `UPDATE championships SET scores = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, scoresRaw, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrChampionshipNotFound)
}

func (r *postgresChampionshipRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM championships WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrChampionshipNotFound)
}

func (r *postgresChampionshipRepository) scanChampionship(row *sql.Row) (*models.Championship, error) {
	champ := &models.Championship{}
	var players pq.Int64Array

	err := row.Scan(
		&champ.ID,
		&champ.Nome,
		&champ.OwnerID,
		&champ.Code,
		&players,
		&champ.ScoresRaw,
		&champ.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChampionshipNotFound
		}
		return nil, err
	}

	champ.Players = int64sToInts(players)
	return champ, nil
}

func int64sToInts(values pq.Int64Array) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}
