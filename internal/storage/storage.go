// Package storage selects and seeds the persistent record store.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"riscore/internal/infra/persistence/memory"
	"riscore/internal/infra/persistence/postgres"
	"riscore/internal/infra/persistence/sqlite"
	"riscore/pkg/domain"
)

// Driver identifies a concrete persistent storage implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"   // in-memory only (tests / ephemeral)
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
	DriverPostgres Driver = "postgres" // PostgreSQL server
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	RISCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	RISCORE_SQLITE_PATH: path to sqlite file (default ./riscore.db)
//	RISCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore() (domain.PersistentStore, error) {
	driver := os.Getenv("RISCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(DriverSQLite)
	}
	return Open(driver, os.Getenv("RISCORE_SQLITE_PATH"), os.Getenv("RISCORE_POSTGRES_DSN"))
}

// Open constructs a persistent store for the given driver with explicit
// connection parameters.
func Open(driver, sqlitePath, postgresDSN string) (domain.PersistentStore, error) {
	switch Driver(driver) {
	case DriverMemory:
		return memory.NewStore(), nil
	case DriverSQLite:
		return sqlite.NewStore(sqlitePath)
	case DriverPostgres:
		return postgres.NewStore(postgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// LoadSeedFile reads a JSON snapshot file and replaces the store state with
// its contents. An empty path is a no-op.
func LoadSeedFile(ctx context.Context, store domain.PersistentStore, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("decode seed file: %w", err)
	}
	if err := store.ReplaceState(ctx, snapshot); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
