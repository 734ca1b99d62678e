package dbconfig

import (
	"context"
	"database/sql"

	"github.com/ClipFinance/rwa-bridge/common/errors"
	_ "github.com/lib/pq"
)

// DBConfig reads chain configuration and writes the transfer journal.
type DBConfig struct {
	db *sql.DB
}

// NewDBConfig creates a new DBConfig instance with the provided connection string.
// The connection is established lazily by database/sql.
//
// Parameters:
// - connStr: the database connection string.
//
// Returns:
// - *DBConfig: a pointer to the newly created DBConfig instance.
// - error: an error if the creation of the DBConfig instance fails.
func NewDBConfig(connStr string) (*DBConfig, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, errors.ErrDatabaseConnect
	}

	return &DBConfig{
		db: db,
	}, nil
}

// Ping verifies that the database is reachable.
func (r *DBConfig) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return errors.ErrDatabaseConnect
	}
	return nil
}

// Close releases the connection pool.
func (r *DBConfig) Close() error {
	return r.db.Close()
}
