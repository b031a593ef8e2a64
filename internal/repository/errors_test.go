package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)

	dup := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"}
	err := translate(dup)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "users_email_key")

	assert.ErrorIs(t, translate(&pgconn.PgError{Code: pgInvalidTextRepresentation}), ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}

func TestMissingNames(t *testing.T) {
	missing := MissingNames(
		[]string{"billing", "ghost", "network", "ghost", "alien"},
		[]string{"network", "billing"},
	)
	assert.Equal(t, []string{"ghost", "alien"}, missing)
	assert.Empty(t, MissingNames([]string{"a"}, []string{"a"}))
	assert.Empty(t, MissingNames(nil, []string{"a"}))
}

func TestCheckID(t *testing.T) {
	assert.NoError(t, checkID(uuid.NewString()))
	for _, id := range []string{"", "abc", "123", "not-a-uuid-at-all"} {
		assert.ErrorIs(t, checkID(id), ErrNotFound, id)
	}
}
