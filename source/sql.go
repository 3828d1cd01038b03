package source

import (
	"context"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// SQL reads reference tables from database tables of the same name. The
// column names form the header record.
type SQL struct {
	db  *sqlx.DB
	log zerolog.Logger
}

// NewSQL creates a source backed by db.
func NewSQL(db *sqlx.DB, log zerolog.Logger) *SQL {
	return &SQL{
		db:  db,
		log: log,
	}
}

func (s *SQL) Open(ctx context.Context, table string) (Records, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	// table is a validated identifier, it cannot be bound as a parameter
	query := fmt.Sprintf("SELECT * FROM %s", table)
	s.log.Debug().Str("query", query).Msg("Querying reference table")

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	return &sqlRecords{rows: rows, header: columns}, nil
}

func (s *SQL) String() string {
	return s.db.DriverName()
}

type sqlRecords struct {
	rows   *sqlx.Rows
	header []string
}

func (r *sqlRecords) Read() ([]string, error) {
	if r.header != nil {
		header := r.header
		r.header = nil
		return header, nil
	}
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	values, err := r.rows.SliceScan()
	if err != nil {
		return nil, err
	}
	record := make([]string, len(values))
	for i, v := range values {
		record[i] = asString(v)
	}
	return record, nil
}

func (r *sqlRecords) Close() error {
	return r.rows.Close()
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
