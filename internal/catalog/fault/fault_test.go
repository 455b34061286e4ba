package fault_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/fault"
	"github.com/stretchr/testify/require"
)

func TestIs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same kind", fault.UniqueViolation("username"), fault.ErrUniqueViolation, true},
		{"matching field", fault.UniqueViolation("username"), fault.UniqueViolation("username"), true},
		{"other field", fault.UniqueViolation("username"), fault.UniqueViolation("name"), false},
		{"other kind", fault.UniqueViolation("username"), fault.ErrForeignKeyViolation, false},
		{"matching entity", fault.ForeignKeyViolation("author"), fault.ForeignKeyViolation("author"), true},
		{"other entity", fault.ForeignKeyViolation("author"), fault.ForeignKeyViolation("genre"), false},
		{"not found by kind", fault.NotFound("book", "01J"), fault.ErrRowNotFound, true},
		{"wrapped", fmt.Errorf("create book: %w", fault.ErrInsufficientRole), fault.ErrInsufficientRole, true},
		{"not a fault", errors.New("boom"), fault.ErrUnclassified, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestUnclassified_HidesCause(t *testing.T) {
	t.Parallel()

	err := fault.Unclassified(sql.ErrConnDone)
	require.ErrorIs(t, err, fault.ErrUnclassified)
	require.NotErrorIs(t, err, sql.ErrConnDone)
	require.Equal(t, sql.ErrConnDone, err.Cause())
	require.NotContains(t, err.Error(), sql.ErrConnDone.Error())
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, fault.KindAccountInactive, fault.KindOf(fault.ErrAccountInactive))
	require.Equal(t, fault.KindRowNotFound, fault.KindOf(fmt.Errorf("x: %w", fault.NotFound("review", "1"))))
	require.Equal(t, fault.KindUnclassified, fault.KindOf(errors.New("plain")))
	require.Equal(t, fault.KindUnclassified, fault.KindOf(nil))
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	require.Equal(t, `fault: unique_violation on "user_id,book_id"`, fault.UniqueViolation("user_id,book_id").Error())
	require.Equal(t, `fault: foreign_key_violation referencing "author"`, fault.ForeignKeyViolation("author").Error())
	require.Equal(t, `fault: not_found: book "abc"`, fault.NotFound("book", "abc").Error())
	require.Equal(t, "fault: unauthenticated", fault.ErrUnauthenticated.Error())
}
