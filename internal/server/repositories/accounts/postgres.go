package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/dbx"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
)

const accountColumns = `id, name, email, password_hash, username, date_of_birth, bio, location, website,
		avatar, cover_photo, verify, email_verify_token, forgot_password_token, created_at, updated_at`

// unique constraint name → reported field
var uniqueFields = map[string]string{
	"accounts_email_key":    "email",
	"accounts_username_key": "username",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*models.Account, error) {
	a := &models.Account{}
	var verify int
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Username, &a.DateOfBirth,
		&a.Bio, &a.Location, &a.Website, &a.Avatar, &a.CoverPhoto, &verify,
		&a.EmailVerifyToken, &a.ForgotPasswordToken, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.Verify = models.VerifyStatus(verify)
	return a, nil
}

func mapWriteError(err error) error {
	if constraint, ok := dbx.UniqueViolation(err); ok {
		if field, known := uniqueFields[constraint]; known {
			return &common.DuplicateError{Field: field}
		}
		return fmt.Errorf("db error: %w", common.ErrorAlreadyExists)
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) error {
	query :=
		`INSERT INTO accounts (id, name, email, password_hash, username, date_of_birth, verify, email_verify_token)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.Name, a.Email, a.PasswordHash, a.Username, a.DateOfBirth, int(a.Verify), a.EmailVerifyToken,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}

	return nil
}

func (r *PostgresRepository) findBy(ctx context.Context, column, value string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + column + ` = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, value))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findBy(ctx, "id", id)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findBy(ctx, "email", email)
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.findBy(ctx, "username", username)
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1 AND id::text <> $2)`
	if err := r.db.QueryRowContext(ctx, query, username, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// exec runs an UPDATE that must touch exactly one account.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) SetEmailVerifyToken(ctx context.Context, id, token string) error {
	query :=
		`UPDATE accounts SET email_verify_token = $2, updated_at = now()
		 WHERE id = $1
		 `
	return r.exec(ctx, query, id, token)
}

func (r *PostgresRepository) MarkEmailVerified(ctx context.Context, id string) error {
	query :=
		`UPDATE accounts SET email_verify_token = '', verify = $2, updated_at = now()
		 WHERE id = $1 AND verify = $3
		 `
	return r.exec(ctx, query, id, int(models.Verified), int(models.Unverified))
}

func (r *PostgresRepository) SetForgotPasswordToken(ctx context.Context, id, token string) error {
	query :=
		`UPDATE accounts SET forgot_password_token = $2, updated_at = now()
		 WHERE id = $1
		 `
	return r.exec(ctx, query, id, token)
}

func (r *PostgresRepository) ResetPassword(ctx context.Context, id, token, passwordHash string) error {
	query :=
		`UPDATE accounts SET password_hash = $3, forgot_password_token = '', updated_at = now()
		 WHERE id = $1 AND forgot_password_token = $2 AND forgot_password_token <> ''
		 `
	err := r.exec(ctx, query, id, token, passwordHash)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrStaleForgotPasswordToken
	}
	return err
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query :=
		`UPDATE accounts SET password_hash = $2, updated_at = now()
		 WHERE id = $1
		 `
	return r.exec(ctx, query, id, passwordHash)
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) (*models.Account, error) {
	if patch.Empty() {
		return r.FindByID(ctx, id)
	}

	sets := make([]string, 0, 9)
	args := []any{id}
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.DateOfBirth != nil {
		add("date_of_birth", *patch.DateOfBirth)
	}
	if patch.Bio != nil {
		add("bio", *patch.Bio)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Website != nil {
		add("website", *patch.Website)
	}
	if patch.Username != nil {
		add("username", *patch.Username)
	}
	if patch.Avatar != nil {
		add("avatar", *patch.Avatar)
	}
	if patch.CoverPhoto != nil {
		add("cover_photo", *patch.CoverPhoto)
	}
	sets = append(sets, "updated_at = now()")

	query := `UPDATE accounts SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + accountColumns

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if _, dup := dbx.UniqueViolation(err); dup {
			return nil, mapWriteError(err)
		}
		return nil, err
	}
	return a, nil
}
