package errors

import (
	"context"
	stderrs "errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgCodes pins individual SQLSTATEs; anything else falls back to its class in pgClasses
var pgCodes = map[string]ErrorCode{
	"23505": ErrorCodeDuplicateKey,    // unique_violation
	"23503": ErrorCodeInvalidArgument, // foreign_key_violation
	"25006": ErrorCodeUnavailable,     // read_only_sql_transaction
}

var pgClasses = map[string]ErrorCode{
	"08": ErrorCodeUnavailable,     // connection exception
	"22": ErrorCodeInvalidArgument, // data exception
	"23": ErrorCodeValidation,      // integrity constraint violation
	"53": ErrorCodeUnavailable,     // insufficient resources
	"57": ErrorCodeUnavailable,     // operator intervention
}

// PgErrorOf returns the PgError wrapped anywhere in err
func PgErrorOf(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// DBErrorCode maps a Postgres failure to an ErrorCode
// !ok means err was neither a PgError nor a connection failure
func DBErrorCode(err error) (ErrorCode, bool) {
	var connErr *pgconn.ConnectError
	if stderrs.As(err, &connErr) || pgconn.Timeout(err) {
		return ErrorCodeUnavailable, true
	}
	pgErr, ok := PgErrorOf(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	if code, ok := pgCodes[pgErr.Code]; ok {
		return code, true
	}
	if len(pgErr.Code) == 5 {
		if code, ok := pgClasses[pgErr.Code[:2]]; ok {
			return code, true
		}
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with the mapped code; nil stays nil
// a canceled request context is a plain DB error, not an outage
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code := ErrorCodeDB
	if !stderrs.Is(err, context.Canceled) {
		if c, ok := DBErrorCode(err); ok {
			code = c
		}
	}
	return Wrap(err, code, msg)
}
