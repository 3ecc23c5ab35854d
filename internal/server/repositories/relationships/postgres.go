package relationships

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/dbx"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, followerID, followedID string) (*models.Relationship, error) {
	query :=
		`INSERT INTO relationships (follower_id, followed_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	rel := &models.Relationship{FollowerID: followerID, FollowedID: followedID}
	err := r.db.QueryRowContext(ctx, query, followerID, followedID).Scan(&rel.ID, &rel.CreatedAt)
	if err != nil {
		if _, ok := dbx.UniqueViolation(err); ok {
			return nil, &common.DuplicateError{Field: "followed_user_id"}
		}
		if _, ok := dbx.CheckViolation(err); ok {
			return nil, common.ErrCannotFollowSelf
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rel, nil
}

func (r *PostgresRepository) Find(ctx context.Context, followerID, followedID string) (*models.Relationship, error) {
	query :=
		`SELECT id, follower_id, followed_id, created_at FROM relationships
		 WHERE follower_id = $1 AND followed_id = $2
		 `

	rel := &models.Relationship{}
	err := r.db.QueryRowContext(ctx, query, followerID, followedID).
		Scan(&rel.ID, &rel.FollowerID, &rel.FollowedID, &rel.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rel, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, followerID, followedID string) error {
	query :=
		`DELETE FROM relationships
		 WHERE follower_id = $1 AND followed_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
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
