package mappers

import (
	"github.com/SanteonNL/icdmappings/source"
	"github.com/rs/zerolog"
)

type options struct {
	source  source.Source
	log     zerolog.Logger
	bundled bool // no source given, reading source.Embedded
}

// Option configures how a mapper loads its table.
type Option func(*options)

// WithSource reads reference tables from src instead of the bundled files.
func WithSource(src source.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithLogger sets the logger used while loading.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func newOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.source == nil {
		o.source = source.Embedded()
		o.bundled = true
	}
	return o
}

func (o options) warnIfBundled() {
	if o.bundled {
		o.log.Warn().Msg("Using bundled sample reference tables, most codes will not map; pass WithSource for the full tables")
	}
}
