package schemadiff

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supporttools/GoSQLDev/pkg/config"
)

// mockConnection builds a comparison connection backed by sqlmock.
func mockConnection(t *testing.T, dbName string) (*Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return &Connection{DB: db, Database: dbName, engine: config.EngineMySQL}, mock
}

func columnRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"table_name", "column_name", "data_type", "is_nullable", "column_default",
	})
}

func indexRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"table_name", "index_name", "column_name", "non_unique",
	})
}

func expectSnapshot(mock sqlmock.Sqlmock, dbName string, columns, indexes *sqlmock.Rows) {
	mock.ExpectQuery("SELECT table_name, column_name, data_type").
		WithArgs(dbName).
		WillReturnRows(columns)
	mock.ExpectQuery("SELECT table_name, index_name, column_name").
		WithArgs(dbName).
		WillReturnRows(indexes)
}

func TestTakeSnapshot(t *testing.T) {
	conn, mock := mockConnection(t, "app_db")
	defer conn.Close()

	expectSnapshot(mock, "app_db",
		columnRows().
			AddRow("users", "id", "int", "NO", nil).
			AddRow("users", "email", "varchar", "NO", nil).
			AddRow("posts", "id", "int", "NO", nil),
		indexRows().
			AddRow("users", "PRIMARY", "id", 0).
			AddRow("users", "idx_email", "email", 1),
	)

	snapshot, err := Take(conn)
	require.NoError(t, err)

	assert.Equal(t, []string{"posts", "users"}, snapshot.TableNames())
	require.Contains(t, snapshot.Tables, "users")
	assert.Len(t, snapshot.Tables["users"].Columns, 2)
	require.Len(t, snapshot.Tables["users"].Indexes, 2)
	assert.True(t, snapshot.Tables["users"].Indexes[0].Unique)
	assert.Equal(t, "email", snapshot.Tables["users"].Indexes[1].Definition)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompareEqualSchemas(t *testing.T) {
	left, leftMock := mockConnection(t, "app_a")
	right, rightMock := mockConnection(t, "app_b")

	for _, fixture := range []struct {
		mock sqlmock.Sqlmock
		name string
	}{{leftMock, "app_a"}, {rightMock, "app_b"}} {
		expectSnapshot(fixture.mock, fixture.name,
			columnRows().AddRow("users", "id", "int", "NO", nil),
			indexRows().AddRow("users", "PRIMARY", "id", 0),
		)
	}

	result, err := Compare(left, right)
	require.NoError(t, err)

	assert.True(t, result.Equal())
	assert.Empty(t, result.Report())

	leftMock.ExpectClose()
	rightMock.ExpectClose()
	assert.NoError(t, result.Close())
	assert.NoError(t, leftMock.ExpectationsWereMet())
	assert.NoError(t, rightMock.ExpectationsWereMet())
}

func TestCompareDifferentSchemas(t *testing.T) {
	left, leftMock := mockConnection(t, "app_a")
	right, rightMock := mockConnection(t, "app_b")
	defer left.Close()
	defer right.Close()

	expectSnapshot(leftMock, "app_a",
		columnRows().
			AddRow("users", "id", "int", "NO", nil).
			AddRow("users", "email", "varchar", "NO", nil),
		indexRows().AddRow("users", "PRIMARY", "id", 0),
	)
	expectSnapshot(rightMock, "app_b",
		columnRows().
			AddRow("users", "id", "bigint", "NO", nil).
			AddRow("orders", "id", "int", "NO", nil),
		indexRows().AddRow("users", "PRIMARY", "id", 0),
	)

	result, err := Compare(left, right)
	require.NoError(t, err)

	assert.False(t, result.Equal())
	report := result.Report()
	assert.Contains(t, report, "table orders exists only in app_b")
	assert.Contains(t, report, "column users.id differs")
	assert.Contains(t, report, "column users.email exists only in app_a")
}

func TestSchemaMismatchError(t *testing.T) {
	err := &SchemaMismatchError{
		Left:   "app_a",
		Right:  "app_b",
		Report: "table orders exists only in app_b",
	}

	assert.Contains(t, err.Error(), "app_a")
	assert.Contains(t, err.Error(), "app_b")
	assert.Contains(t, err.Error(), "table orders exists only in app_b")
}
