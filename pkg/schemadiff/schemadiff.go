// Package schemadiff compares the structure of two databases
package schemadiff

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	"github.com/pkg/errors"

	"github.com/supporttools/GoSQLDev/pkg/config"
	"github.com/supporttools/GoSQLDev/pkg/engine"
)

// Connection is a live comparison connection to one database. The party
// that created the enclosing Result owns closing it.
type Connection struct {
	DB       *sql.DB
	Database string
	engine   config.EngineType
}

// Close releases the underlying connection.
func (c *Connection) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Open establishes a comparison connection to the named database using
// the compare credentials from settings.
func Open(settings *config.Settings, dbName string) (*Connection, error) {
	impl, err := engine.Get(settings.Engine)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(impl.DriverName(), impl.CompareDSN(settings, dbName))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open comparison connection to %s", dbName)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to ping %s", dbName)
	}

	return &Connection{DB: db, Database: dbName, engine: settings.Engine}, nil
}

// Column describes one table column.
type Column struct {
	Name     string
	DataType string
	Nullable string
	Default  sql.NullString
}

// Index describes one index. Definition is the engine's rendering of the
// indexed columns; it is only compared between snapshots of the same
// engine.
type Index struct {
	Name       string
	Definition string
	Unique     bool
}

// Table describes one table's structure.
type Table struct {
	Name    string
	Columns []Column
	Indexes []Index
}

// Snapshot is the structural state of one database.
type Snapshot struct {
	Database string
	Tables   map[string]*Table
}

// TableNames returns the snapshot's table names in sorted order.
func (s *Snapshot) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Take reads the structural snapshot of the connected database.
func Take(conn *Connection) (*Snapshot, error) {
	snapshot := &Snapshot{
		Database: conn.Database,
		Tables:   make(map[string]*Table),
	}

	if err := collectColumns(conn, snapshot); err != nil {
		return nil, err
	}
	if err := collectIndexes(conn, snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func columnQuery(engineType config.EngineType) (string, bool) {
	switch engineType {
	case config.EngineMySQL:
		return `SELECT table_name, column_name, data_type, is_nullable, column_default
			FROM information_schema.columns
			WHERE table_schema = ?
			ORDER BY table_name, ordinal_position`, true
	case config.EnginePostgreSQL:
		return `SELECT table_name, column_name, data_type, is_nullable, column_default
			FROM information_schema.columns
			WHERE table_catalog = $1 AND table_schema = 'public'
			ORDER BY table_name, ordinal_position`, true
	}
	return "", false
}

func collectColumns(conn *Connection, snapshot *Snapshot) error {
	query, ok := columnQuery(conn.engine)
	if !ok {
		return &config.UnsupportedEngineError{Value: string(conn.engine)}
	}

	rows, err := conn.DB.Query(query, conn.Database)
	if err != nil {
		return errors.Wrapf(err, "failed to read columns of %s", conn.Database)
	}
	defer rows.Close()

	for rows.Next() {
		var tableName string
		var column Column
		if err := rows.Scan(&tableName, &column.Name, &column.DataType,
			&column.Nullable, &column.Default); err != nil {
			return errors.Wrap(err, "failed to scan column row")
		}

		table, exists := snapshot.Tables[tableName]
		if !exists {
			table = &Table{Name: tableName}
			snapshot.Tables[tableName] = table
		}
		table.Columns = append(table.Columns, column)
	}

	return errors.Wrap(rows.Err(), "error iterating column rows")
}

func collectIndexes(conn *Connection, snapshot *Snapshot) error {
	switch conn.engine {
	case config.EngineMySQL:
		return collectMySQLIndexes(conn, snapshot)
	case config.EnginePostgreSQL:
		return collectPostgresIndexes(conn, snapshot)
	}
	return &config.UnsupportedEngineError{Value: string(conn.engine)}
}

func collectMySQLIndexes(conn *Connection, snapshot *Snapshot) error {
	query := `SELECT table_name, index_name, column_name, non_unique
		FROM information_schema.statistics
		WHERE table_schema = ?
		ORDER BY table_name, index_name, seq_in_index`

	rows, err := conn.DB.Query(query, conn.Database)
	if err != nil {
		return errors.Wrapf(err, "failed to read indexes of %s", conn.Database)
	}
	defer rows.Close()

	// column lists are accumulated per (table, index) in scan order
	type indexKey struct{ table, index string }
	columns := make(map[indexKey][]string)
	unique := make(map[indexKey]bool)
	var order []indexKey

	for rows.Next() {
		var tableName, indexName, columnName string
		var nonUnique int
		if err := rows.Scan(&tableName, &indexName, &columnName, &nonUnique); err != nil {
			return errors.Wrap(err, "failed to scan index row")
		}

		key := indexKey{tableName, indexName}
		if _, seen := columns[key]; !seen {
			order = append(order, key)
			unique[key] = nonUnique == 0
		}
		columns[key] = append(columns[key], columnName)
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "error iterating index rows")
	}

	for _, key := range order {
		table, exists := snapshot.Tables[key.table]
		if !exists {
			continue
		}
		table.Indexes = append(table.Indexes, Index{
			Name:       key.index,
			Definition: strings.Join(columns[key], ","),
			Unique:     unique[key],
		})
	}

	return nil
}

func collectPostgresIndexes(conn *Connection, snapshot *Snapshot) error {
	query := `SELECT tablename, indexname, indexdef
		FROM pg_indexes
		WHERE schemaname = 'public'
		ORDER BY tablename, indexname`

	rows, err := conn.DB.Query(query)
	if err != nil {
		return errors.Wrapf(err, "failed to read indexes of %s", conn.Database)
	}
	defer rows.Close()

	for rows.Next() {
		var tableName, indexName, indexDef string
		if err := rows.Scan(&tableName, &indexName, &indexDef); err != nil {
			return errors.Wrap(err, "failed to scan index row")
		}

		table, exists := snapshot.Tables[tableName]
		if !exists {
			continue
		}
		table.Indexes = append(table.Indexes, Index{
			Name:       indexName,
			Definition: indexDef,
			Unique:     strings.HasPrefix(indexDef, "CREATE UNIQUE"),
		})
	}

	return errors.Wrap(rows.Err(), "error iterating index rows")
}

// defaultString renders a nullable column default for diagnostics.
func defaultString(value sql.NullString) string {
	if !value.Valid {
		return "<null>"
	}
	return value.String
}

func fmtColumn(c Column) string {
	return fmt.Sprintf("%s %s nullable=%s default=%s",
		c.Name, c.DataType, c.Nullable, defaultString(c.Default))
}
