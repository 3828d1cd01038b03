// Package source resolves reference table names to record streams. The
// mappers only ever see records; where they come from (the files bundled
// with the module, a directory, a web server or a database) is decided here.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
)

// ErrInvalidTable is returned for table names that are not plain lower case
// identifiers.
var ErrInvalidTable = errors.New("invalid table name")

var tableName = regexp.MustCompile(`^[a-z0-9_]+$`)

// Records is a stream of delimited records. The first record is the header.
// Read returns io.EOF after the last record.
type Records interface {
	Read() ([]string, error)
	Close() error
}

// LineReporter is implemented by records read from text, where a record may
// span several lines. Line returns the line the last record read, or failed
// to parse, starts on.
type LineReporter interface {
	Line() int
}

// Source opens reference tables by name.
type Source interface {
	Open(ctx context.Context, table string) (Records, error)
}

// FileName returns the file a table is stored in.
func FileName(table string) string {
	return table + ".csv"
}

func checkTable(table string) error {
	if !tableName.MatchString(table) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	return nil
}

// csvRecords reads comma separated, double quoted records. Field counts are
// not enforced here, the loader compares every row against its header.
type csvRecords struct {
	reader *csv.Reader
	closer io.Closer
	line   int
}

// NewCSVRecords wraps rc in a CSV reader using the reference file dialect.
func NewCSVRecords(rc io.ReadCloser) Records {
	reader := csv.NewReader(rc)
	reader.Comma = ','
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	return &csvRecords{reader: reader, closer: rc}
}

func (r *csvRecords) Read() ([]string, error) {
	record, err := r.reader.Read()
	var parseErr *csv.ParseError
	switch {
	case err == nil:
		r.line, _ = r.reader.FieldPos(0)
	case errors.As(err, &parseErr):
		r.line = parseErr.StartLine
	}
	return record, err
}

func (r *csvRecords) Line() int {
	return r.line
}

func (r *csvRecords) Close() error {
	return r.closer.Close()
}
