package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/stretchr/testify/require"
)

func TestResolveConstraint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    store.Violation
		want store.Constraint
	}{
		{
			name: "named unique",
			v:    store.Violation{Kind: store.ViolationUnique, Table: "favorites", Constraint: "favorites_user_id_book_id_key"},
			want: store.Constraint{Field: "user_id,book_id"},
		},
		{
			name: "named foreign key",
			v:    store.Violation{Kind: store.ViolationForeignKey, Table: "author_book", Constraint: "author_book_author_id_fkey"},
			want: store.Constraint{Entity: "author"},
		},
		{
			name: "table default unique",
			v:    store.Violation{Kind: store.ViolationUnique, Table: "users"},
			want: store.Constraint{Field: "username"},
		},
		{
			name: "table default foreign key",
			v:    store.Violation{Kind: store.ViolationForeignKey, Table: "author_book"},
			want: store.Constraint{Entity: "author"},
		},
		{
			name: "delete reports the dependent",
			v:    store.Violation{Kind: store.ViolationForeignKey, Table: "genres", Op: store.OpDelete},
			want: store.Constraint{Entity: "book", Dependent: "book"},
		},
		{
			name: "named delete reports the dependent",
			v:    store.Violation{Kind: store.ViolationForeignKey, Table: "genres", Constraint: "books_genre_id_fkey", Op: store.OpDelete},
			want: store.Constraint{Entity: "book", Dependent: "book"},
		},
		{
			name: "insert keeps the referenced entity",
			v:    store.Violation{Kind: store.ViolationForeignKey, Table: "books", Constraint: "books_genre_id_fkey"},
			want: store.Constraint{Entity: "genre", Dependent: "book"},
		},
		{
			name: "category delete reports the dependent",
			v:    store.Violation{Kind: store.ViolationForeignKey, Table: "categories", Op: store.OpDelete},
			want: store.Constraint{Entity: "book", Dependent: "book"},
		},
		{
			name: "named category reference",
			v:    store.Violation{Kind: store.ViolationForeignKey, Table: "books", Constraint: "books_category_id_fkey"},
			want: store.Constraint{Entity: "category", Dependent: "book"},
		},
		{
			name: "category name taken",
			v:    store.Violation{Kind: store.ViolationUnique, Table: "categories"},
			want: store.Constraint{Field: "name"},
		},
		{
			name: "unknown falls back to the table",
			v:    store.Violation{Kind: store.ViolationUnique, Table: "shelves", Constraint: "shelves_name_key"},
			want: store.Constraint{Field: "shelves", Entity: "shelves"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, store.ResolveConstraint(&tt.v))
		})
	}
}

func TestMissingError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("load: %w", store.NotFound("book", "01J"))
	require.ErrorIs(t, err, store.ErrNotFound)

	var missing *store.MissingError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "book", missing.Entity)
	require.Equal(t, "01J", missing.Key)
}

func TestViolation_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("UNIQUE constraint failed")
	v := &store.Violation{Kind: store.ViolationUnique, Table: "genres", Err: cause}
	require.ErrorIs(t, v, cause)
	require.Contains(t, v.Error(), "unique violation on genres")
}
