package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musescore/internal/config"

	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *Database {
	t.Helper()
	db, err := Open(context.Background(), config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    "file::memory:",
	})
	require.NoError(t, err)
	// a single connection keeps the in-memory schema visible
	db.db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestQueryAreaRows(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	_, err := db.db.ExecContext(ctx, `
CREATE TABLE areas (zip TEXT, state_id TEXT, COLI REAL, PCPI INTEGER, lat REAL);
INSERT INTO areas VALUES ('10001', 'NY', 120.5, 80000, 40.75);
INSERT INTO areas VALUES ('02139', 'MA', NULL, 75000, NULL);`)
	require.NoError(t, err)

	rows, err := db.QueryAreaRows(ctx, "areas")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "10001", rows[0]["zip"])
	assert.Equal(t, "120.5", rows[0]["COLI"])
	assert.Equal(t, "80000", rows[0]["PCPI"])
	assert.Equal(t, "02139", rows[1]["zip"])
	assert.Equal(t, "", rows[1]["COLI"])
	assert.Equal(t, "", rows[1]["lat"])
}

func TestQueryAreaRows_RejectsBadTableName(t *testing.T) {
	db := openMemory(t)
	for _, name := range []string{"", "areas; DROP TABLE x", "a b", "1areas", "x--"} {
		_, err := db.QueryAreaRows(context.Background(), name)
		assert.Error(t, err, name)
	}
}

func TestQueryAreaRows_MissingTable(t *testing.T) {
	db := openMemory(t)
	_, err := db.QueryAreaRows(context.Background(), "nope")
	assert.Error(t, err)
}

func TestDriverAndDSN(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.DatabaseConfig
		wantDriver string
		wantDSN    string
	}{
		{
			name:       "oracle without wallet",
			cfg:        config.DatabaseConfig{Driver: config.DriverOracle, Host: "db", Port: "1522", Service: "muse_high", Username: "u", Password: "p@ss"},
			wantDriver: "oracle",
			wantDSN:    "oracle://u:p%40ss@db:1522/muse_high?ssl=true",
		},
		{
			name:       "oracle with wallet",
			cfg:        config.DatabaseConfig{Driver: config.DriverOracle, Host: "db", Port: "1522", Service: "s", Username: "u", Password: "p", WalletLocation: "/w"},
			wantDriver: "oracle",
			wantDSN:    "oracle://u:p@db:1522/s?ssl=true&wallet_location=%2Fw",
		},
		{
			name:       "postgres",
			cfg:        config.DatabaseConfig{Driver: config.DriverPostgres, Host: "pg", Port: "5432", Service: "muse", Username: "u", Password: "p"},
			wantDriver: "pgx",
			wantDSN:    "postgres://u:p@pg:5432/muse?sslmode=disable",
		},
		{
			name:       "explicit dsn",
			cfg:        config.DatabaseConfig{Driver: config.DriverSQLite, DSN: "file:x.db"},
			wantDriver: "sqlite",
			wantDSN:    "file:x.db",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := driverAndDSN(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}

	_, _, err := driverAndDSN(config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	raw, err := sql.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	db := New(raw)
	assert.NoError(t, db.Close())
}
