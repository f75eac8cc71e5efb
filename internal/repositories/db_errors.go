package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrConstraintViolation = errors.New("constraint violation")

// isConstraintError reports whether err is an integrity failure caused by
// the submitted values rather than by the database being unavailable.
func isConstraintError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1048, // column cannot be null
			1406, // data too long
			1452, // foreign key
			3819: // check constraint
			return true
		}
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 23 is integrity constraint violation, 22001 string too long
		return strings.HasPrefix(pgErr.Code, "23") || pgErr.Code == "22001"
	}
	return false
}

func wrapWriteError(err error) error {
	if isConstraintError(err) {
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}
	return err
}
