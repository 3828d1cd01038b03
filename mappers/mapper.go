// Package mappers translates codes between medical classification systems
// (ICD-9, ICD-10, CCS, CCI and chapter groupings) using static reference
// tables loaded into memory.
//
// A Mapper is built once, reading its whole table eagerly, and is read-only
// afterwards so it can be shared between goroutines.
//
// Without WithSource the mappers read the sample tables bundled in
// source.Embedded, which only cover a handful of codes per table. Production
// use passes the full HCUP and NBER files through source.Dir, source.HTTP or
// source.SQL; config.Config.OpenSource builds the right one from the
// environment. Codes missing from a
// table are not errors: single lookups give nil and batch lookups give nil
// in the matching position.
package mappers

import (
	"context"
	"fmt"
	"reflect"

	"github.com/SanteonNL/icdmappings/source"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// CodeMapper is the behaviour shared by every mapper regardless of its value
// type.
type CodeMapper interface {
	Name() string
	Len() int
	Map(input any) (any, error)
}

// Mapper answers lookups against one loaded reference table.
type Mapper[V any] struct {
	name  string
	table map[string]V
	clone func(V) V
}

// Load builds a mapper from layout. All I/O and parse errors surface here as
// a *ResourceError.
func Load[V any](ctx context.Context, layout Layout[V], opts ...Option) (*Mapper[V], error) {
	if err := layout.validate(); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	o.warnIfBundled()

	records, err := o.source.Open(ctx, layout.Table)
	if err != nil {
		return nil, &ResourceError{Table: layout.Table, Err: err}
	}
	defer records.Close()

	return build(records, layout, o.log)
}

// build reads records into a mapper for layout. The caller owns records.
func build[V any](records source.Records, layout Layout[V], log zerolog.Logger) (*Mapper[V], error) {
	if err := layout.validate(); err != nil {
		return nil, err
	}
	log = log.With().Str("mapper", layout.Name).Logger()

	table, err := loadTable(records, layout, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load reference table")
		return nil, err
	}

	return &Mapper[V]{
		name:  layout.Name,
		table: table,
		clone: layout.Clone,
	}, nil
}

func (m *Mapper[V]) Name() string {
	return m.name
}

// Len returns the number of distinct source codes.
func (m *Mapper[V]) Len() int {
	return len(m.table)
}

// Codes returns the source codes in sorted order.
func (m *Mapper[V]) Codes() []string {
	codes := make([]string, 0, len(m.table))
	for code := range m.table {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Get looks up a single code.
func (m *Mapper[V]) Get(code string) (V, bool) {
	v, ok := m.table[code]
	if ok && m.clone != nil {
		v = m.clone(v)
	}
	return v, ok
}

// MapCode returns the mapped value of code, or nil when the table does not
// know it.
func (m *Mapper[V]) MapCode(code string) *V {
	v, ok := m.Get(code)
	if !ok {
		return nil
	}
	return &v
}

// MapCodes maps every code, keeping order. Unknown codes give nil entries.
func (m *Mapper[V]) MapCodes(codes []string) []*V {
	out := make([]*V, len(codes))
	for i, code := range codes {
		out[i] = m.MapCode(code)
	}
	return out
}

// Map accepts a single code or an iterable of codes (a slice or array of
// strings, a []any holding strings, or a receive channel of strings). A
// single code yields a *V, an iterable yields a []*V of the same length.
// Any other input fails with a *TypeError and nothing is mapped.
func (m *Mapper[V]) Map(input any) (any, error) {
	switch in := input.(type) {
	case string:
		return m.MapCode(in), nil
	case []string:
		return m.MapCodes(in), nil
	}
	if code, ok := codeOf(reflect.ValueOf(input)); ok {
		return m.MapCode(code), nil
	}
	codes, err := codesOf(input)
	if err != nil {
		return nil, err
	}
	return m.MapCodes(codes), nil
}

func codesOf(input any) ([]string, error) {
	if input == nil {
		return nil, typeErrorOf(nil)
	}
	v := reflect.ValueOf(input)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		codes := make([]string, v.Len())
		for i := range codes {
			code, ok := codeOf(v.Index(i))
			if !ok {
				return nil, elementTypeError(input, v.Index(i))
			}
			codes[i] = code
		}
		return codes, nil
	case reflect.Chan:
		if v.Type().ChanDir()&reflect.RecvDir == 0 {
			return nil, typeErrorOf(input)
		}
		var codes []string
		if v.IsNil() {
			return codes, nil
		}
		for {
			elem, ok := v.Recv()
			if !ok {
				return codes, nil
			}
			code, ok := codeOf(elem)
			if !ok {
				return nil, elementTypeError(input, elem)
			}
			codes = append(codes, code)
		}
	}
	return nil, typeErrorOf(input)
}

func codeOf(v reflect.Value) (string, bool) {
	if !v.IsValid() {
		return "", false
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.String {
		return "", false
	}
	return v.String(), true
}

func elementTypeError(input any, elem reflect.Value) *TypeError {
	got := "nil"
	if elem.Kind() == reflect.Interface && !elem.IsNil() {
		got = elem.Elem().Type().String()
	} else if elem.Kind() != reflect.Interface {
		got = elem.Type().String()
	}
	return &TypeError{Got: fmt.Sprintf("%T with %s element", input, got)}
}
