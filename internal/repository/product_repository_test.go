package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderClause(t *testing.T) {
	t.Run("whitelisted keys map to their column", func(t *testing.T) {
		assert.Equal(t, "name ASC, id ASC", orderClause("name"))
		assert.Equal(t, "price ASC, id ASC", orderClause("price"))
		assert.Equal(t, "description ASC, id ASC", orderClause("description"))
		assert.Equal(t, "stock ASC, id ASC", orderClause("stock"))
	})

	t.Run("unknown keys fall back to the default", func(t *testing.T) {
		assert.Equal(t, "name ASC, id ASC", orderClause(""))
		assert.Equal(t, "name ASC, id ASC", orderClause("no_such_column"))
		// A hostile sort key must never reach the ORDER BY clause.
		assert.Equal(t, "name ASC, id ASC", orderClause("name; DROP TABLE products"))
	})
}

func TestFindPage_InvalidArguments(t *testing.T) {
	// Argument validation happens before any database access.
	repo := NewProductRepository(nil)

	_, _, err := repo.FindPage(-1, 10, "name")
	require.ErrorIs(t, err, ErrInvalidPage)

	_, _, err = repo.FindPage(0, 0, "name")
	require.ErrorIs(t, err, ErrInvalidPage)

	_, _, err = repo.FindPage(0, -5, "name")
	require.ErrorIs(t, err, ErrInvalidPage)
}
