package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
)

// SQLSTATE codes shared by every store implementation.
const (
	// SerializationFailureCode and DeadlockDetectedCode mean another
	// transaction won a race for the same rows.
	SerializationFailureCode = "40001"
	DeadlockDetectedCode     = "40P01"

	// QueryCanceledCode is raised when statement_timeout fires.
	QueryCanceledCode = "57014"

	// Server-side availability failures.
	AdminShutdownCode      = "57P01"
	CannotConnectNowCode   = "57P03"
	TooManyConnectionsCode = "53300"

	// ConnectionExceptionClass prefixes all class 08 connection errors.
	ConnectionExceptionClass = "08"
)

// sqlStater is implemented by driver errors that carry a SQLSTATE code,
// such as *pgconn.PgError.
type sqlStater interface {
	SQLState() string
}

// SQLState returns the SQLSTATE code carried by err, or "" if there is none.
func SQLState(err error) string {
	var s sqlStater
	if errors.As(err, &s) {
		return s.SQLState()
	}
	return ""
}

// IsSerializationFailure reports whether err is a serialization failure or
// deadlock, meaning the transaction lost a race and may be retried.
func IsSerializationFailure(err error) bool {
	switch SQLState(err) {
	case SerializationFailureCode, DeadlockDetectedCode:
		return true
	}
	return errors.Is(err, ErrConcurrencyConflict)
}

// IsUnavailableError reports whether err means the database could not answer
// in time or could not be reached at all.
func IsUnavailableError(err error) bool {
	if errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}

	if code := SQLState(err); code != "" {
		switch code {
		case QueryCanceledCode, AdminShutdownCode, CannotConnectNowCode, TooManyConnectionsCode:
			return true
		}
		return strings.HasPrefix(code, ConnectionExceptionClass)
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
