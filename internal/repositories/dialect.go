package repositories

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Dialect renders the parts of a listing query that differ between the
// supported SQL backends.
type Dialect interface {
	Name() string
	Placeholder(n int) string
	// MatchOperator is the case-insensitive LIKE operator.
	MatchOperator() string
	EscapeClause() string
	// Overlap renders "column shares at least one element with values".
	// next returns the placeholder for each bound argument in order.
	Overlap(column string, values []string, next func() string) (string, []any)
	ReturningID() bool
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "pgx", "postgres":
		return postgresDialect{}, nil
	case "mysql":
		return mysqlDialect{}, nil
	case "sqlite":
		return sqliteDialect{}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }
func (postgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }
func (postgresDialect) MatchOperator() string { return "ILIKE" }
func (postgresDialect) EscapeClause() string { return ` ESCAPE '\'` }
func (postgresDialect) ReturningID() bool { return true }

func (postgresDialect) Overlap(column string, values []string, next func() string) (string, []any) {
	return fmt.Sprintf("%s ?| %s", column, next()), []any{values}
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }
func (mysqlDialect) Placeholder(int) string { return "?" }
func (mysqlDialect) MatchOperator() string { return "LIKE" }
func (mysqlDialect) EscapeClause() string { return ` ESCAPE '\\'` }
func (mysqlDialect) ReturningID() bool { return false }

func (mysqlDialect) Overlap(column string, values []string, next func() string) (string, []any) {
	payload, _ := json.Marshal(values)
	return fmt.Sprintf("JSON_OVERLAPS(%s, %s)", column, next()), []any{string(payload)}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }
func (sqliteDialect) Placeholder(int) string { return "?" }
func (sqliteDialect) MatchOperator() string { return "LIKE" }
func (sqliteDialect) EscapeClause() string { return ` ESCAPE '\'` }
func (sqliteDialect) ReturningID() bool { return false }

func (sqliteDialect) Overlap(column string, values []string, next func() string) (string, []any) {
	placeholders := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = next()
		args[i] = v
	}
	return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value IN (%s))",
		column, strings.Join(placeholders, ", ")), args
}

// escapeLike makes user input literal inside a LIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
