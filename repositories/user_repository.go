package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/kartia-app/kartia-server/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error)
	ListByIDs(ctx context.Context, ids []int) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int) error

	// IncrementStats bumps the lifetime race counter by one and the win
	// counter by wins in a single statement.
	IncrementStats(ctx context.Context, id int, wins int) error

	SetPasswordResetToken(ctx context.Context, id int, token string, expiresAt time.Time) error
	ClearExpiredResetTokens(ctx context.Context) (int64, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, nome, apelido, birthdate, idade, corridas, vitorias, email, password_hash,
	password_reset_token, password_reset_expires_at, avatar_key, created_at`

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (nome, apelido, birthdate, idade, corridas, vitorias, email, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Nome,
		user.Apelido,
		user.Birthdate,
		user.Idade,
		user.Corridas,
		user.Vitorias,
		user.Email,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "users_email_key" {
			return ErrUserEmailConflict
		}
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

func (r *postgresUserRepository) GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE password_reset_token = $1`
	return r.scanUser(ctx, query, token)
}

// ListByIDs returns the users whose ids appear in ids. Missing ids are
// simply absent from the result; callers decide whether that matters.
func (r *postgresUserRepository) ListByIDs(ctx context.Context, ids []int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1) ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0, len(ids))
	for rows.Next() {
		var user models.User
		if scanErr := scanUserRow(rows.Scan, &user); scanErr != nil {
			return nil, scanErr
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *postgresUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			nome = $1,
			apelido = $2,
			birthdate = $3,
			idade = $4,
			corridas = $5,
			vitorias = $6,
			email = $7,
			password_hash = $8,
			password_reset_token = $9,
			password_reset_expires_at = $10,
			avatar_key = $11
		WHERE id = $12`

	result, err := r.db.ExecContext(ctx, query,
		user.Nome,
		user.Apelido,
		user.Birthdate,
		user.Idade,
		user.Corridas,
		user.Vitorias,
		user.Email,
		user.PasswordHash,
		user.PasswordResetToken,
		user.PasswordResetExpiresAt,
		user.AvatarKey,
		user.ID,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "users_email_key" {
			return ErrUserEmailConflict
		}
		return err
	}

	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) IncrementStats(ctx context.Context, id int, wins int) error {
	query := `UPDATE users SET corridas = corridas + 1, vitorias = vitorias + $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, wins, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) SetPasswordResetToken(ctx context.Context, id int, token string, expiresAt time.Time) error {
	query := `UPDATE users SET password_reset_token = $1, password_reset_expires_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, token, expiresAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	query := `
		UPDATE users SET password_reset_token = NULL, password_reset_expires_at = NULL
		WHERE password_reset_expires_at IS NOT NULL AND password_reset_expires_at <= NOW()`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresUserRepository) scanUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	user := &models.User{}
	err := scanUserRow(r.db.QueryRowContext(ctx, query, args...).Scan, user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUserRow(scan func(dest ...interface{}) error, user *models.User) error {
	return scan(
		&user.ID,
		&user.Nome,
		&user.Apelido,
		&user.Birthdate,
		&user.Idade,
		&user.Corridas,
		&user.Vitorias,
		&user.Email,
		&user.PasswordHash,
		&user.PasswordResetToken,
		&user.PasswordResetExpiresAt,
		&user.AvatarKey,
		&user.CreatedAt,
	)
}
