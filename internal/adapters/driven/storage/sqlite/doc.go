// Package sqlite provides a SQLite-based implementation of the credential store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each applied version is recorded in schema_migrations.
// Credentials keep their list position in a dedicated column so that reads
// return them in insertion order.
//
// # Data Location
//
// By default, the database is stored at ~/.portal/data/credentials.db
//
// # Thread Safety
//
// All operations are thread-safe. Each Store call replaces the whole list
// inside a single transaction, so readers never observe a partial snapshot.
package sqlite
