package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint bool
	}{
		{"mysql too long", &mysql.MySQLError{Number: 1406, Message: "Data too long"}, true},
		{"mysql wrapped check", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 3819}), true},
		{"mysql deadlock", &mysql.MySQLError{Number: 1213}, false},
		{"pg not null", &pgconn.PgError{Code: "23502"}, true},
		{"pg too long", &pgconn.PgError{Code: "22001"}, true},
		{"pg connection", &pgconn.PgError{Code: "08006"}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapWriteError(tt.err)
			assert.Equal(t, tt.constraint, errors.Is(err, ErrConstraintViolation))
		})
	}
}
