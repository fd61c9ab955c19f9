// Package postgres implements the internal/store interfaces on PostgreSQL
// through database/sql and the pgx stdlib driver.
//
// Every store accepts a store.DBTX, so the same type serves both pooled
// queries and queries inside a transaction (see WithTx). Driver errors are
// translated with MapError so callers only ever match store sentinels.
// The schema lives in the embedded goose migrations (MigrationsFS).
package postgres
