package mappers

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Layout describes how one reference table is turned into a mapping: where
// the codes are, how fields are cleaned up and how rows sharing a source code
// are combined.
type Layout[V any] struct {
	Name      string // mapper name
	Table     string // reference table the rows are read from
	SkipLines int    // lines before the header, e.g. a title line
	Source    int    // column holding the source code
	Target    int    // column holding the target code

	// Key and Value normalize the trimmed source and target fields.
	Key   func(string) string
	Value func(string) string

	// Accumulate folds a target code into the value already stored for the
	// source code. prev is the zero value on first sight.
	Accumulate func(prev V, target string) V

	// Clone copies values handed out to callers. Nil for immutable values.
	Clone func(V) V
}

func (l Layout[V]) validate() error {
	if l.Table == "" {
		return fmt.Errorf("layout %s has no table", l.Name)
	}
	if l.Source < 0 || l.Target < 0 || l.SkipLines < 0 {
		return fmt.Errorf("layout %s has negative column or line settings", l.Name)
	}
	if l.Accumulate == nil {
		return fmt.Errorf("layout %s has no accumulation strategy", l.Name)
	}
	return nil
}

func (l Layout[V]) maxColumn() int {
	if l.Source > l.Target {
		return l.Source
	}
	return l.Target
}

func (l Layout[V]) key(field string) string {
	field = strings.TrimSpace(field)
	if l.Key != nil {
		return l.Key(field)
	}
	return field
}

func (l Layout[V]) value(field string) string {
	field = strings.TrimSpace(field)
	if l.Value != nil {
		return l.Value(field)
	}
	return field
}

// Overwrite keeps the last target seen for a source code.
func Overwrite(_ string, target string) string {
	return target
}

// Collect keeps every distinct target for a source code in file order.
func Collect(prev []string, target string) []string {
	if slices.Contains(prev, target) {
		return prev
	}
	return append(prev, target)
}

// TrimQuotes removes the single quotes the HCUP files put around codes,
// together with the padding inside them.
func TrimQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(s, "'"))
}

// StripDots removes decimal points so dotted codes match the undotted form
// used by the claims tables.
func StripDots(s string) string {
	return strings.ReplaceAll(s, ".", "")
}
