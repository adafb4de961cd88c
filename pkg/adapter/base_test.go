package adapter

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/shiftsql/internal/testutil"
	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const copySQL = "COPY sales FROM 's3://b/k' WITH CREDENTIALS AS 'aws_iam_role=arn:aws:iam::000123456789:role/load'"

func TestBaseSQLAdapter_NotConnected(t *testing.T) {
	base := &BaseSQLAdapter{}

	assert.False(t, base.IsConnected())
	assert.NoError(t, base.Close())
	assert.ErrorIs(t, base.Exec(context.Background(), copySQL), ErrNotConnected)

	_, err := base.Query(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	base := &BaseSQLAdapter{DB: db, Logger: testutil.NewTestLogger(t)}
	mock.ExpectExec(copySQL).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("REFRESH MATERIALIZED VIEW mv").WillReturnError(assert.AnError)
	mock.ExpectClose()

	require.NoError(t, base.Exec(context.Background(), copySQL))

	err = base.Exec(context.Background(), "REFRESH MATERIALIZED VIEW mv")
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to execute SQL")

	require.NoError(t, base.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	base := &BaseSQLAdapter{DB: db}
	mock.ExpectQuery("SELECT current_schema").
		WillReturnRows(sqlmock.NewRows([]string{"current_schema"}).AddRow("public"))
	mock.ExpectQuery("SELECT broken").WillReturnError(assert.AnError)

	rows, err := base.Query(context.Background(), "SELECT current_schema()")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	require.True(t, rows.Next())
	var schema string
	require.NoError(t, rows.Scan(&schema))
	assert.Equal(t, "public", schema)
	assert.False(t, rows.Next())
	require.NoError(t, rows.Err())

	_, err = base.Query(context.Background(), "SELECT broken")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBaseSQLAdapter_ScanRows(t *testing.T) {
	errScan := errors.New("bad row")

	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		scanErr   error
		wantNames []string
		wantErr   error
	}{
		{
			name:    "not connected",
			wantErr: ErrNotConnected,
		},
		{
			name:    "rows scanned in order",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT relname").
					WithArgs("public").
					WillReturnRows(sqlmock.NewRows([]string{"relname"}).AddRow("orders").AddRow("customers"))
			},
			wantNames: []string{"orders", "customers"},
		},
		{
			name:    "query error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT relname").WillReturnError(assert.AnError)
			},
			wantErr: assert.AnError,
		},
		{
			name:    "scan error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT relname").
					WillReturnRows(sqlmock.NewRows([]string{"relname"}).AddRow("orders"))
			},
			scanErr: errScan,
			wantErr: errScan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{Logger: testutil.NewTestLogger(t)}
			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()
				tt.setupMock(mock)
				base.DB = db
			}

			var names []string
			err := base.ScanRows(context.Background(), "relations", "SELECT relname FROM pg_class WHERE nspname = $1",
				func(rows *sql.Rows) error {
					if tt.scanErr != nil {
						return tt.scanErr
					}
					var name string
					if err := rows.Scan(&name); err != nil {
						return err
					}
					names = append(names, name)
					return nil
				}, "public")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, core.ErrCatalogQuery)
				var qerr *core.CatalogQueryError
				require.ErrorAs(t, err, &qerr)
				assert.Equal(t, "relations", qerr.Query)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, names)
		})
	}
}
