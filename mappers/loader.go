package mappers

import (
	"errors"
	"fmt"
	"io"

	"github.com/SanteonNL/icdmappings/source"
	"github.com/rs/zerolog"
)

// loadTable reads a header and then every data row of records into a map.
// Any row that does not match the header width fails the whole table. Errors
// carry the physical line when records can report it and the record number
// otherwise.
func loadTable[V any](records source.Records, layout Layout[V], log zerolog.Logger) (map[string]V, error) {
	lines, _ := records.(source.LineReporter)
	line := 0
	read := func() ([]string, error) {
		line++
		record, err := records.Read()
		if lines != nil && lines.Line() > 0 {
			line = lines.Line()
		}
		return record, err
	}
	fail := func(err error) error {
		return &ResourceError{Table: layout.Table, Line: line, Err: err}
	}

	for i := 0; i < layout.SkipLines; i++ {
		if _, err := read(); err != nil {
			return nil, fail(fmt.Errorf("failed to skip preamble: %w", err))
		}
	}

	header, err := read()
	if errors.Is(err, io.EOF) {
		return nil, fail(errors.New("missing header"))
	}
	if err != nil {
		return nil, fail(fmt.Errorf("failed to read header: %w", err))
	}
	if len(header) <= layout.maxColumn() {
		return nil, fail(fmt.Errorf("header has %d columns, need at least %d", len(header), layout.maxColumn()+1))
	}

	table := make(map[string]V)
	rows, duplicates := 0, 0
	for {
		row, err := read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fail(fmt.Errorf("failed to read row: %w", err))
		}
		if len(row) != len(header) {
			return nil, fail(fmt.Errorf("%w: got %d fields, want %d", ErrMalformedRow, len(row), len(header)))
		}

		key := layout.key(row[layout.Source])
		if key == "" {
			return nil, fail(fmt.Errorf("%w: empty source code", ErrMalformedRow))
		}
		prev, seen := table[key]
		if seen {
			duplicates++
		}
		table[key] = layout.Accumulate(prev, layout.value(row[layout.Target]))
		rows++
	}

	log.Debug().
		Str("table", layout.Table).
		Int("rows", rows).
		Int("codes", len(table)).
		Int("duplicates", duplicates).
		Msg("Loaded reference table")

	return table, nil
}
