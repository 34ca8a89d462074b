package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func TestMapWriteError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "UniqueViolation",
			err:  fmt.Errorf("inserting invoice: %w", &pgconn.PgError{Code: codeUniqueViolation}),
			want: invoice.ErrDuplicateNumber,
		},
		{
			name: "ForeignKeyViolation",
			err:  fmt.Errorf("inserting invoice: %w", &pgconn.PgError{Code: codeForeignKeyViolation}),
			want: invoice.ErrClientNotFound,
		},
		{
			name: "OtherPgError",
			err:  &pgconn.PgError{Code: "40001"},
		},
		{
			name: "NotPgError",
			err:  other,
			want: other,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapWriteError(tt.err)

			if tt.want == nil {
				assert.Equal(t, tt.err, got)
				return
			}

			assert.ErrorIs(t, got, tt.want)
		})
	}
}
