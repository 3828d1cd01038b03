package source

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	db.MustExec(`CREATE TABLE icd10cmtoicd9gem (icd10cm TEXT, icd9cm TEXT, flags INTEGER)`)
	db.MustExec(`INSERT INTO icd10cmtoicd9gem VALUES ('A000', '0010', 0), ('I10', '4019', 10000), ('Z999', NULL, 1)`)
	return db
}

func TestSQLOpen(t *testing.T) {
	src := NewSQL(newTestDB(t), zerolog.Nop())

	records, err := src.Open(context.Background(), "icd10cmtoicd9gem")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"icd10cm", "icd9cm", "flags"},
		{"A000", "0010", "0"},
		{"I10", "4019", "10000"},
		{"Z999", "", "1"},
	}, readAll(t, records))
	assert.Equal(t, "sqlite", src.String())
}

func TestSQLOpenMissingTable(t *testing.T) {
	src := NewSQL(newTestDB(t), zerolog.Nop())
	_, err := src.Open(context.Background(), "dxref2015")
	assert.Error(t, err)
}

func TestSQLOpenInvalidTable(t *testing.T) {
	src := NewSQL(newTestDB(t), zerolog.Nop())
	_, err := src.Open(context.Background(), "x; DROP TABLE icd10cmtoicd9gem")
	assert.ErrorIs(t, err, ErrInvalidTable)
}
