package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	name, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, "accounts_email_key", name)

	_, ok = UniqueViolation(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok)

	_, ok = UniqueViolation(errors.New("boom"))
	assert.False(t, ok)
}

func TestCheckViolation(t *testing.T) {
	name, ok := CheckViolation(&pgconn.PgError{Code: "23514", ConstraintName: "relationships_no_self_follow"})
	assert.True(t, ok)
	assert.Equal(t, "relationships_no_self_follow", name)

	_, ok = CheckViolation(&pgconn.PgError{Code: "23505"})
	assert.False(t, ok)
}
