package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// DB is the process-wide connection pool together with a statement builder
// using the placeholder format of its driver.
type DB struct {
	*sql.DB

	driver  string
	builder squirrel.StatementBuilderType
}

// Open connects to the database. SQLite connections enforce foreign keys
// unless the DSN already sets the pragma.
func Open(driver, dsn string) (*DB, error) {
	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", driver)
	}

	db, err := New(conn, driver)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func New(conn *sql.DB, driver string) (*DB, error) {
	var placeholder squirrel.PlaceholderFormat
	switch driver {
	case DriverSQLite:
		placeholder = squirrel.Question
		// sqlite allows a single writer; one connection also keeps an
		// in-memory database alive for the lifetime of the pool.
		conn.SetMaxOpenConns(1)
	case DriverPostgres:
		placeholder = squirrel.Dollar
	default:
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}

	return &DB{
		DB:      conn,
		driver:  driver,
		builder: squirrel.StatementBuilder.PlaceholderFormat(placeholder).RunWith(conn),
	}, nil
}

func (db *DB) DriverName() string {
	return db.driver
}

func (db *DB) Builder() squirrel.StatementBuilderType {
	return db.builder
}

// Migrate executes the statements in order, stopping at the first failure.
func (db *DB) Migrate(ctx context.Context, statements ...string) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "migrate %q", stmt)
		}
	}

	return nil
}

// Insert writes one row and returns the id the store assigned to it.
func (db *DB) Insert(ctx context.Context, table string, values map[string]any) (int64, error) {
	var id int64
	err := db.builder.Insert(table).
		SetMap(values).
		Suffix("RETURNING id").
		QueryRowContext(ctx).
		Scan(&id)
	if err != nil {
		return 0, errors.Wrapf(err, "insert into %s", table)
	}

	return id, nil
}

// Update applies values to the row with the given id and reports how many
// rows matched.
func (db *DB) Update(ctx context.Context, table string, id int64, values map[string]any) (int64, error) {
	res, err := db.builder.Update(table).
		SetMap(values).
		Where(squirrel.Eq{"id": id}).
		ExecContext(ctx)
	if err != nil {
		return 0, errors.Wrapf(err, "update %s %d", table, id)
	}

	return rowsAffected(res)
}

// Delete removes the row with the given id and reports how many rows went.
func (db *DB) Delete(ctx context.Context, table string, id int64) (int64, error) {
	res, err := db.builder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ExecContext(ctx)
	if err != nil {
		return 0, errors.Wrapf(err, "delete from %s %d", table, id)
	}

	return rowsAffected(res)
}

// Count returns the number of rows in table matching where.
func (db *DB) Count(ctx context.Context, table string, where squirrel.Eq) (int64, error) {
	var n int64
	err := db.builder.Select("count(*)").
		From(table).
		Where(where).
		QueryRowContext(ctx).
		Scan(&n)
	if err != nil {
		return 0, errors.Wrapf(err, "count %s", table)
	}

	return n, nil
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected")
	}

	return n, nil
}
