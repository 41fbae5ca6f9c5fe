package storage

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/rl1809/icecream-stock/internal/core/domain"
)

var ErrItemNotFound = domain.ErrItemNotFound

const (
	postgresDuplicateTableErrorCode        = "42P07"
	postgresUniqueValueViolationErrorCode  = "23505"
	mysqlTableExistsErrorNumber     uint16 = 1050
)

// isErrorTableExists reports a CREATE TABLE that lost a race with another process.
// Postgres raises a unique violation on pg_type in that case instead of 42P07.
func isErrorTableExists(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == postgresDuplicateTableErrorCode || pqErr.Code == postgresUniqueValueViolationErrorCode
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlTableExistsErrorNumber
	}

	return false
}
