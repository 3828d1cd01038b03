package mappers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/SanteonNL/icdmappings/source"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/slices"
)

// Registry holds loaded mappers by name. It is built once and only read
// afterwards.
type Registry map[string]CodeMapper

// Get returns the mapper registered under name.
func (r Registry) Get(name string) (CodeMapper, bool) {
	m, ok := r[name]
	return m, ok
}

// Names returns the registered mapper names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Map looks name up and maps input with it.
func (r Registry) Map(name string, input any) (any, error) {
	m, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("unknown mapper %q", name)
	}
	return m.Map(input)
}

// builder creates one mapper from the records of its table.
type builder struct {
	table string
	build func(source.Records) (CodeMapper, error)
}

func builderFor[V any](layout Layout[V], o options) builder {
	return builder{
		table: layout.Table,
		build: func(records source.Records) (CodeMapper, error) {
			return build(records, layout, o.log)
		},
	}
}

// LoadAll loads every mapper from the same options. Each table is opened once
// even when several mappers read it. Tables that fail to load are all
// reported in the returned error; the registry is only returned when every
// table loaded.
func LoadAll(ctx context.Context, opts ...Option) (Registry, error) {
	o := newOptions(opts)
	o.warnIfBundled()

	builders := []builder{
		builderFor(icd9toCCSLayout(), o),
		builderFor(icd9toChaptersLayout(), o),
		builderFor(icd9toCCILayout(), o),
		builderFor(gemLayout(ICD9toICD10Name, ICD9toICD10GEMTable), o),
		builderFor(gemLayout(ICD10toICD9Name, ICD10toICD9GEMTable), o),
		builderFor(icd10toChaptersLayout(), o),
		builderFor(gemAllLayout(ICD9toICD10AllName, ICD9toICD10GEMTable), o),
		builderFor(gemAllLayout(ICD10toICD9AllName, ICD10toICD9GEMTable), o),
	}

	var tables []string
	byTable := make(map[string][]builder)
	for _, b := range builders {
		if _, ok := byTable[b.table]; !ok {
			tables = append(tables, b.table)
		}
		byTable[b.table] = append(byTable[b.table], b)
	}

	var result *multierror.Error
	registry := make(Registry, len(builders))
	for _, table := range tables {
		recorded, err := record(ctx, o.source, table)
		for _, b := range byTable[table] {
			if err != nil {
				result = multierror.Append(result, &ResourceError{Table: table, Err: err})
				continue
			}
			m, err := b.build(recorded.reader())
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			registry[m.Name()] = m
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return registry, nil
}

// recording is a table read into memory so several layouts can be built from
// one download. A read error is kept and replayed at the record it hit.
type recording struct {
	records [][]string
	lines   []int
	err     error
	errLine int
}

func record(ctx context.Context, src source.Source, table string) (*recording, error) {
	records, err := src.Open(ctx, table)
	if err != nil {
		return nil, err
	}
	defer records.Close()

	lines, _ := records.(source.LineReporter)
	rec := &recording{}
	for {
		r, err := records.Read()
		line := len(rec.records) + 1
		if lines != nil && lines.Line() > 0 {
			line = lines.Line()
		}
		if errors.Is(err, io.EOF) {
			return rec, nil
		}
		if err != nil {
			rec.err, rec.errLine = err, line
			return rec, nil
		}
		rec.records = append(rec.records, r)
		rec.lines = append(rec.lines, line)
	}
}

func (r *recording) reader() *replay {
	return &replay{recording: r}
}

// replay reads a recording from the start.
type replay struct {
	*recording
	pos  int
	line int
}

func (r *replay) Read() ([]string, error) {
	if r.pos < len(r.records) {
		record := r.records[r.pos]
		r.line = r.lines[r.pos]
		r.pos++
		return record, nil
	}
	if r.err != nil {
		r.line = r.errLine
		return nil, r.err
	}
	return nil, io.EOF
}

func (r *replay) Line() int {
	return r.line
}

func (r *replay) Close() error {
	return nil
}
