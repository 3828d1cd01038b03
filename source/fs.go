package source

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/SanteonNL/icdmappings/util"
)

//go:embed data/*.csv
var bundled embed.FS

// FS serves tables stored as <table>.csv files in a file system.
type FS struct {
	fsys fs.FS
	name string
}

// NewFS creates a source over fsys. name is only used for logging.
func NewFS(fsys fs.FS, name string) *FS {
	return &FS{fsys: fsys, name: name}
}

// Embedded returns the sample reference tables shipped with the module. They
// hold a few rows per table; the full HCUP and NBER files are served with Dir,
// HTTP or SQL.
func Embedded() *FS {
	sub, err := fs.Sub(bundled, "data")
	if err != nil {
		// data is a literal, valid directory name
		panic(err)
	}
	return NewFS(sub, "embedded")
}

// Dir serves tables from a directory on disk. Relative paths are resolved
// against the working directory.
func Dir(path string) (*FS, error) {
	absPath, err := util.AbsolutePath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data directory %s is not a directory", absPath)
	}
	return NewFS(os.DirFS(absPath), absPath), nil
}

func (s *FS) Open(ctx context.Context, table string) (Records, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fsys.Open(FileName(table))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", FileName(table), err)
	}
	return NewCSVRecords(f), nil
}

func (s *FS) String() string {
	return s.name
}
