// Package batch joins per-sample test metadata onto extracted regions and
// blocks and orchestrates multi-file manifest runs.
package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/genomicsops/gvcf-regions/internal/region"
)

// SampleMeta is one row of the batch manifest: the call-set file plus the
// patient/test identifiers attached to everything extracted from it.
type SampleMeta struct {
	VCFFilename        string
	RefBuild           string // "GRCh37" or "GRCh38"
	PatientID          string
	TestDate           string
	TestID             string
	SpecimenID         string
	GenomicSourceClass string
	RatioAdDp          float64
	SamplePosition     int
}

// manifestColumns are the required header columns, in no particular order.
var manifestColumns = []string{
	"vcf_filename", "ref_build", "patient_id", "test_date", "test_id",
	"specimen_id", "genomic_source_class", "ratio_ad_dp", "sample_position",
}

// ReadManifest parses a CSV manifest into sample metadata rows. The header
// row must carry all required columns; extra columns are ignored.
func ReadManifest(path string) ([]SampleMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("manifest %s is empty", path)
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range manifestColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("manifest %s: missing column %q", path, name)
		}
	}

	entries := make([]SampleMeta, 0, len(rows)-1)
	for i, row := range rows[1:] {
		get := func(name string) string { return strings.TrimSpace(row[cols[name]]) }

		ratio, err := strconv.ParseFloat(get("ratio_ad_dp"), 64)
		if err != nil {
			return nil, fmt.Errorf("manifest %s row %d: invalid ratio_ad_dp: %w", path, i+2, err)
		}
		pos, err := strconv.Atoi(get("sample_position"))
		if err != nil {
			return nil, fmt.Errorf("manifest %s row %d: invalid sample_position: %w", path, i+2, err)
		}

		entries = append(entries, SampleMeta{
			VCFFilename:        get("vcf_filename"),
			RefBuild:           get("ref_build"),
			PatientID:          get("patient_id"),
			TestDate:           get("test_date"),
			TestID:             get("test_id"),
			SpecimenID:         get("specimen_id"),
			GenomicSourceClass: get("genomic_source_class"),
			RatioAdDp:          ratio,
			SamplePosition:     pos,
		})
	}

	return entries, nil
}

// BuildVersion derives the numeric build (37 or 38) from the RefBuild label.
func (m SampleMeta) BuildVersion() (int, error) {
	switch strings.ToUpper(m.RefBuild) {
	case "GRCH37":
		return 37, nil
	case "GRCH38":
		return 38, nil
	}
	return 0, fmt.Errorf("unrecognized reference build %q", m.RefBuild)
}

// IsGVCF reports whether the manifest row points at a GVCF call set.
func (m SampleMeta) IsGVCF() bool {
	return strings.HasSuffix(m.VCFFilename, ".g.vcf") ||
		strings.HasSuffix(m.VCFFilename, ".g.vcf.gz")
}

// Meta is the serialized form of the joined metadata, attached to every
// region and block extracted from a sample's call set.
type Meta struct {
	RefBuild           string  `json:"REF_BUILD"`
	PatientID          string  `json:"PATIENT_ID"`
	TestDate           string  `json:"TEST_DATE"`
	TestID             string  `json:"TEST_ID"`
	SpecimenID         string  `json:"SPECIMEN_ID"`
	GenomicSourceClass string  `json:"GENOMIC_SOURCE_CLASS"`
	RatioAdDp          float64 `json:"RATIO_AD_DP"`
	SamplePosition     int     `json:"SAMPLE_POSITION"`
}

// Meta returns the serialized metadata for this sample.
func (m SampleMeta) Meta() Meta {
	return Meta{
		RefBuild:           m.RefBuild,
		PatientID:          m.PatientID,
		TestDate:           m.TestDate,
		TestID:             m.TestID,
		SpecimenID:         m.SpecimenID,
		GenomicSourceClass: m.GenomicSourceClass,
		RatioAdDp:          m.RatioAdDp,
		SamplePosition:     m.SamplePosition,
	}
}

// SampleInfo returns the metadata subset carried by expanded position
// records.
func (m SampleMeta) SampleInfo() region.SampleInfo {
	return region.SampleInfo{
		GenomicBuild: m.RefBuild,
		PatientID:    m.PatientID,
		TestDate:     m.TestDate,
		TestID:       m.TestID,
		SpecimenID:   m.SpecimenID,
	}
}
