package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"musescore/internal/config"
	"musescore/internal/types"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "github.com/sijms/go-ora/v2"     // driver: oracle
	_ "modernc.org/sqlite"             // driver: sqlite
)

const pingTimeout = 10 * time.Second

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*)?$`)

// oracleDSN builds a properly encoded connection string for Oracle Autonomous Database
func oracleDSN(cfg config.DatabaseConfig) string {
	if cfg.WalletLocation != "" {
		// Use wallet-based mTLS connection
		return fmt.Sprintf(
			"oracle://%s:%s@%s:%s/%s?ssl=true&wallet_location=%s",
			url.PathEscape(cfg.Username), url.PathEscape(cfg.Password), cfg.Host, cfg.Port, cfg.Service,
			url.PathEscape(cfg.WalletLocation))
	}

	return (&url.URL{
		Scheme:   "oracle",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     cfg.Host + ":" + cfg.Port,
		Path:     "/" + cfg.Service,
		RawQuery: "ssl=true", // ADB requires TCPS
	}).String()
}

func postgresDSN(cfg config.DatabaseConfig) string {
	u := &url.URL{
		Scheme:   "postgres",
		Host:     cfg.Host + ":" + cfg.Port,
		Path:     "/" + cfg.Service,
		RawQuery: "sslmode=disable",
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	return u.String()
}

// driverAndDSN maps the configured driver to a registered database/sql
// driver name and a connection string. An explicit DSN always wins.
func driverAndDSN(cfg config.DatabaseConfig) (string, string, error) {
	switch cfg.Driver {
	case config.DriverOracle:
		if cfg.DSN != "" {
			return "oracle", cfg.DSN, nil
		}
		return "oracle", oracleDSN(cfg), nil
	case config.DriverPostgres:
		if cfg.DSN != "" {
			return "pgx", cfg.DSN, nil
		}
		return "pgx", postgresDSN(cfg), nil
	case config.DriverSQLite:
		if cfg.DSN != "" {
			return "sqlite", cfg.DSN, nil
		}
		return "sqlite", "file:muse.db?mode=ro", nil
	default:
		return "", "", fmt.Errorf("unsupported driver: %q", cfg.Driver)
	}
}

// Database wraps a pooled connection to the area indicator store.
type Database struct {
	db *sql.DB
}

// Open connects using cfg and verifies the connection with a ping.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	driver, dsn, err := driverAndDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	return &Database{db: db}, nil
}

// New wraps an already opened handle.
func New(db *sql.DB) *Database {
	return &Database{db: db}
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// QueryAreaRows returns every row of table as column name to text value.
// NULL columns come back as empty strings.
func (d *Database) QueryAreaRows(ctx context.Context, table string) ([]types.RawRow, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	rows, err := d.db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	values := make([]sql.NullString, len(cols))
	dest := make([]interface{}, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	var out []types.RawRow
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row %d: %w", table, len(out)+1, err)
		}
		row := make(types.RawRow, len(cols))
		for i, c := range cols {
			row[strings.TrimSpace(c)] = values[i].String
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}

	return out, nil
}
