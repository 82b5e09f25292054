package client

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newMockProvider(t *testing.T) (*SQLConnectionProvider, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	provider := NewSQLConnectionProviderFunc(func(ctx context.Context) (*sql.DB, error) {
		return db, nil
	})
	return provider, mock
}

func TestSQLConnectionProvider_ExecuteWithBindings(t *testing.T) {
	ctx := context.Background()
	provider, mock := newMockProvider(t)

	statement := "CREATE FILE FORMAT DB1.PUBLIC.FF\nTYPE = CSV\nCOMMENT = ?"
	mock.ExpectExec(statement).WithArgs("it's mine").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	conn, err := provider.Get(ctx)
	require.NoError(t, err)

	cursor := conn.Cursor()
	require.NoError(t, cursor.Execute(ctx, statement, "it's mine"))
	require.NoError(t, cursor.Close())
	require.NoError(t, conn.Close())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLConnectionProvider_ExecuteWithoutBindings(t *testing.T) {
	ctx := context.Background()
	provider, mock := newMockProvider(t)

	mock.ExpectExec("DROP USER JDOE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	conn, err := provider.Get(ctx)
	require.NoError(t, err)

	cursor := conn.Cursor()
	require.NoError(t, cursor.Execute(ctx, "DROP USER JDOE"))
	require.NoError(t, cursor.Close())
	require.NoError(t, conn.Close())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLConnectionProvider_ExecutionError(t *testing.T) {
	ctx := context.Background()
	provider, mock := newMockProvider(t)

	driverErr := errors.New("SQL compilation error: Object 'FF' already exists.")
	mock.ExpectExec("CREATE FILE FORMAT FF").WillReturnError(driverErr)
	mock.ExpectClose()

	conn, err := provider.Get(ctx)
	require.NoError(t, err)

	err = conn.Cursor().Execute(ctx, "CREATE FILE FORMAT FF")
	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "CREATE FILE FORMAT FF", execErr.Statement)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, ErrorCategoryConflict, ClassifyError(err))

	require.NoError(t, conn.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLConnection_CloseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	provider, mock := newMockProvider(t)
	mock.ExpectClose()

	conn, err := provider.Get(ctx)
	require.NoError(t, err)

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCursor_ClosedRejectsExecute(t *testing.T) {
	ctx := context.Background()
	provider, mock := newMockProvider(t)
	mock.ExpectClose()

	conn, err := provider.Get(ctx)
	require.NoError(t, err)
	defer conn.Close()

	cursor := conn.Cursor()
	require.NoError(t, cursor.Close())
	assert.Error(t, cursor.Execute(ctx, "DROP USER JDOE"))
}

func TestSQLConnectionProvider_OpenFailure(t *testing.T) {
	provider := NewSQLConnectionProviderFunc(func(ctx context.Context) (*sql.DB, error) {
		return nil, errors.New("no route to account")
	})

	conn, err := provider.Get(context.Background())
	assert.Nil(t, conn)
	assert.ErrorContains(t, err, "failed to open warehouse connection")
}

func TestNewSQLConnectionProvider_Validation(t *testing.T) {
	_, err := NewSQLConnectionProvider("", "file.db")
	assert.Error(t, err)

	_, err = NewSQLConnectionProvider("sqlite", "")
	assert.Error(t, err)
}

// Drives a real database/sql driver end to end: statements and bindings executed
// through one connection must be visible to a separate handle afterwards.
func TestSQLConnectionProvider_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "objects.db")

	provider, err := NewSQLConnectionProvider("sqlite", path)
	require.NoError(t, err)

	conn, err := provider.Get(ctx)
	require.NoError(t, err)

	cursor := conn.Cursor()
	require.NoError(t, cursor.Execute(ctx, "CREATE TABLE objects (name TEXT NOT NULL, comment TEXT)"))
	require.NoError(t, cursor.Execute(ctx, "INSERT INTO objects (name, comment) VALUES (?, ?)", "FF", "it's mine"))
	require.NoError(t, cursor.Close())
	require.NoError(t, conn.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var name, comment string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT name, comment FROM objects").Scan(&name, &comment))
	assert.Equal(t, "FF", name)
	assert.Equal(t, "it's mine", comment)

	// Each Get opens a fresh handle.
	conn, err = provider.Get(ctx)
	require.NoError(t, err)
	err = conn.Cursor().Execute(ctx, "INSERT INTO missing (name) VALUES (?)", "X")
	var execErr *ExecutionError
	assert.ErrorAs(t, err, &execErr)
	require.NoError(t, conn.Close())
}
