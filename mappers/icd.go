package mappers

import (
	"context"

	"golang.org/x/exp/slices"
)

// Mapper names, also used as Registry keys.
const (
	ICD9toCCSName       = "icd9_to_ccs"
	ICD9toChaptersName  = "icd9_to_chapters"
	ICD9toCCIName       = "icd9_to_cci"
	ICD9toICD10Name     = "icd9_to_icd10"
	ICD10toICD9Name     = "icd10_to_icd9"
	ICD10toChaptersName = "icd10_to_chapters"
	ICD9toICD10AllName  = "icd9_to_icd10_all"
	ICD10toICD9AllName  = "icd10_to_icd9_all"
)

// Reference tables.
const (
	// HCUP Clinical Classifications Software, $DXREF 2015
	CCSTable = "dxref2015"
	// HCUP Chronic Condition Indicator 2015
	CCITable = "cci2015"
	// NBER General Equivalence Mappings
	ICD9toICD10GEMTable = "icd9toicd10cmgem"
	ICD10toICD9GEMTable = "icd10cmtoicd9gem"

	ICD9ChaptersTable  = "icd9_chapters"
	ICD10ChaptersTable = "icd10_chapters"
)

func icd9toCCSLayout() Layout[string] {
	return Layout[string]{
		Name:       ICD9toCCSName,
		Table:      CCSTable,
		SkipLines:  1,
		Source:     0,
		Target:     1,
		Key:        TrimQuotes,
		Value:      TrimQuotes,
		Accumulate: Overwrite,
	}
}

func icd9toChaptersLayout() Layout[string] {
	return Layout[string]{
		Name:       ICD9toChaptersName,
		Table:      ICD9ChaptersTable,
		Source:     0,
		Target:     1,
		Key:        StripDots,
		Accumulate: Overwrite,
	}
}

func icd9toCCILayout() Layout[string] {
	return Layout[string]{
		Name:       ICD9toCCIName,
		Table:      CCITable,
		Source:     0,
		Target:     2,
		Key:        TrimQuotes,
		Value:      TrimQuotes,
		Accumulate: Overwrite,
	}
}

func gemLayout(name, table string) Layout[string] {
	return Layout[string]{
		Name:       name,
		Table:      table,
		Source:     0,
		Target:     1,
		Accumulate: Overwrite,
	}
}

func gemAllLayout(name, table string) Layout[[]string] {
	return Layout[[]string]{
		Name:       name,
		Table:      table,
		Source:     0,
		Target:     1,
		Accumulate: Collect,
		Clone:      slices.Clone[[]string],
	}
}

func icd10toChaptersLayout() Layout[string] {
	return Layout[string]{
		Name:       ICD10toChaptersName,
		Table:      ICD10ChaptersTable,
		Source:     0,
		Target:     1,
		Key:        StripDots,
		Accumulate: Overwrite,
	}
}

// NewICD9toCCS maps ICD-9-CM diagnosis codes to CCS categories.
// Without WithSource it reads the bundled sample table.
func NewICD9toCCS(opts ...Option) (*Mapper[string], error) {
	return Load(context.Background(), icd9toCCSLayout(), opts...)
}

// NewICD9toChapters maps ICD-9-CM codes to the chapter they belong to.
// Without WithSource it reads the bundled sample table.
func NewICD9toChapters(opts ...Option) (*Mapper[string], error) {
	return Load(context.Background(), icd9toChaptersLayout(), opts...)
}

// NewICD9toCCI maps ICD-9-CM codes to the chronic condition indicator,
// "1" for chronic and "0" for not chronic.
// Without WithSource it reads the bundled sample table.
func NewICD9toCCI(opts ...Option) (*Mapper[string], error) {
	return Load(context.Background(), icd9toCCILayout(), opts...)
}

// NewICD9toICD10 maps ICD-9-CM codes to ICD-10-CM using the GEM crosswalk.
// When the crosswalk lists several targets the last one is kept.
// Without WithSource it reads the bundled sample table.
func NewICD9toICD10(opts ...Option) (*Mapper[string], error) {
	return Load(context.Background(), gemLayout(ICD9toICD10Name, ICD9toICD10GEMTable), opts...)
}

// NewICD10toICD9 maps ICD-10-CM codes to ICD-9-CM using the GEM crosswalk.
// Without WithSource it reads the bundled sample table.
func NewICD10toICD9(opts ...Option) (*Mapper[string], error) {
	return Load(context.Background(), gemLayout(ICD10toICD9Name, ICD10toICD9GEMTable), opts...)
}

// NewICD10toChapters maps ICD-10-CM codes to the chapter they belong to.
// Without WithSource it reads the bundled sample table.
func NewICD10toChapters(opts ...Option) (*Mapper[string], error) {
	return Load(context.Background(), icd10toChaptersLayout(), opts...)
}

// NewICD9toICD10All is NewICD9toICD10 keeping every crosswalk target.
func NewICD9toICD10All(opts ...Option) (*Mapper[[]string], error) {
	return Load(context.Background(), gemAllLayout(ICD9toICD10AllName, ICD9toICD10GEMTable), opts...)
}

// NewICD10toICD9All is NewICD10toICD9 keeping every crosswalk target.
func NewICD10toICD9All(opts ...Option) (*Mapper[[]string], error) {
	return Load(context.Background(), gemAllLayout(ICD10toICD9AllName, ICD10toICD9GEMTable), opts...)
}
