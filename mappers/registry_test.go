package mappers

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/SanteonNL/icdmappings/source"
	"github.com/SanteonNL/icdmappings/util"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAll(t *testing.T) {
	registry, err := LoadAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		ICD10toChaptersName,
		ICD10toICD9Name,
		ICD10toICD9AllName,
		ICD9toCCIName,
		ICD9toCCSName,
		ICD9toChaptersName,
		ICD9toICD10Name,
		ICD9toICD10AllName,
	}, registry.Names())

	m, ok := registry.Get(ICD10toICD9Name)
	require.True(t, ok)
	assert.Positive(t, m.Len())

	got, err := registry.Map(ICD9toCCSName, "4019")
	require.NoError(t, err)
	assert.Equal(t, util.StringPtr("98"), got)

	_, err = registry.Map("icd11_to_icd10", "4019")
	assert.Error(t, err)

	_, err = registry.Map(ICD9toCCSName, 42)
	var typeErr *TypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestLoadAllReportsEveryBrokenTable(t *testing.T) {
	src := source.NewFS(fstest.MapFS{
		source.FileName(ICD10toICD9GEMTable): {Data: []byte("icd10,icd9\nA000,0010\n")},
	}, "partial")

	registry, err := LoadAll(context.Background(), WithSource(src))
	assert.Nil(t, registry)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	// every table but the ICD-10 to ICD-9 crosswalk is missing, and two
	// mappers read the ICD-9 to ICD-10 one
	assert.Len(t, merr.Errors, 6)
	for _, e := range merr.Errors {
		var resErr *ResourceError
		assert.ErrorAs(t, e, &resErr)
	}
}

// countingSource records how often each table is opened.
type countingSource struct {
	source.Source
	opens map[string]int
}

func (s *countingSource) Open(ctx context.Context, table string) (source.Records, error) {
	s.opens[table]++
	return s.Source.Open(ctx, table)
}

func TestLoadAllOpensEachTableOnce(t *testing.T) {
	src := &countingSource{Source: source.Embedded(), opens: map[string]int{}}

	registry, err := LoadAll(context.Background(), WithSource(src))
	require.NoError(t, err)
	assert.Len(t, registry, 8)

	assert.Equal(t, map[string]int{
		CCSTable:            1,
		CCITable:            1,
		ICD9ChaptersTable:   1,
		ICD10ChaptersTable:  1,
		ICD9toICD10GEMTable: 1,
		ICD10toICD9GEMTable: 1,
	}, src.opens)

	one, err := registry.Map(ICD9toICD10Name, "2724")
	require.NoError(t, err)
	assert.Equal(t, util.StringPtr("E785"), one)

	all, err := registry.Map(ICD9toICD10AllName, "2724")
	require.NoError(t, err)
	assert.Equal(t, &[]string{"E784", "E785"}, all)
}

func TestLoadAllReportsLineOfSharedTable(t *testing.T) {
	src := &countingSource{Source: source.Embedded(), opens: map[string]int{}}
	broken := source.NewFS(fstest.MapFS{
		source.FileName(ICD9toICD10GEMTable): {Data: []byte("icd9,icd10\n0010,\"A\nB\"\n0011\n")},
	}, "broken")

	_, err := LoadAll(context.Background(), WithSource(overlay{broken: broken, fallback: src}))

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	// both crosswalk mappers over the broken table fail on the same line
	require.Len(t, merr.Errors, 2)
	for _, e := range merr.Errors {
		var resErr *ResourceError
		require.ErrorAs(t, e, &resErr)
		assert.Equal(t, ICD9toICD10GEMTable, resErr.Table)
		assert.Equal(t, 4, resErr.Line)
		assert.ErrorIs(t, e, ErrMalformedRow)
	}
}

// overlay serves the broken crosswalk and everything else from fallback.
type overlay struct {
	broken   source.Source
	fallback source.Source
}

func (o overlay) Open(ctx context.Context, table string) (source.Records, error) {
	if table == ICD9toICD10GEMTable {
		return o.broken.Open(ctx, table)
	}
	return o.fallback.Open(ctx, table)
}
