//go:build integration

// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database.
//
// Tests are skipped unless DATABASE_URL is set. The schema is migrated once
// per test binary from the embedded goose migrations, and each test runs in
// its own transaction that is rolled back when the test finishes:
//
//	func TestCardStore(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			cards := postgres.NewPostgresCardStore(tx, nil)
//			...
//		})
//	}
package testdb
