package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestSQLState(t *testing.T) {
	assert.Equal(t, "40001", SQLState(fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"})))
	assert.Empty(t, SQLState(errors.New("plain")))
	assert.Empty(t, SQLState(nil))
}

func TestIsUnavailableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"store unavailable", fmt.Errorf("query: %w", ErrStoreUnavailable), true},
		{"deadline", fmt.Errorf("begin: %w", context.DeadlineExceeded), true},
		{"bad conn", driver.ErrBadConn, true},
		{"conn done", sql.ErrConnDone, true},
		{"net error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true},
		{"statement timeout", &pgconn.PgError{Code: QueryCanceledCode}, true},
		{"admin shutdown", &pgconn.PgError{Code: AdminShutdownCode}, true},
		{"cannot connect now", &pgconn.PgError{Code: CannotConnectNowCode}, true},
		{"too many connections", &pgconn.PgError{Code: TooManyConnectionsCode}, true},
		{"connection class", &pgconn.PgError{Code: "08001"}, true},
		{"syntax error", &pgconn.PgError{Code: "42601"}, false},
		{"serialization failure", &pgconn.PgError{Code: SerializationFailureCode}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnavailableError(tt.err))
		})
	}
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pgconn.PgError{Code: SerializationFailureCode}))
	assert.True(t, IsSerializationFailure(&pgconn.PgError{Code: DeadlockDetectedCode}))
	assert.True(t, IsSerializationFailure(fmt.Errorf("update: %w", ErrConcurrencyConflict)))
	assert.False(t, IsSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsSerializationFailure(context.DeadlineExceeded))
}
