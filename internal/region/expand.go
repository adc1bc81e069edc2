package region

// SampleInfo is the per-sample metadata subset carried by expanded
// position records.
type SampleInfo struct {
	GenomicBuild string
	PatientID    string
	TestDate     string
	TestID       string
	SpecimenID   string
}

// PositionRecord is one genomic position within a non-variant block. The
// alternate allele mirrors the reference allele: these are confirmed
// reference calls, not substitutions.
type PositionRecord struct {
	Chrom        string       `json:"CHROM"`
	Ref          string       `json:"REF"`
	Alt          string       `json:"ALT"`
	Pos          int64        `json:"POS"`
	GT           string       `json:"GT"`
	Filter       string       `json:"FILTER"`
	AllelicState AllelicState `json:"allelicState"`
	GenomicBuild string       `json:"genomicBuild"`
	PatientID    string       `json:"patientID"`
	TestDate     string       `json:"testDate"`
	TestID       string       `json:"testID"`
	SpecimenID   string       `json:"specimenID"`
}

// ExpandBlock fans a detailed block out into one record per character of
// its reference allele, with strictly consecutive positions starting at the
// block's position. A block with an empty allele expands to zero records;
// callers must count those rather than let the loss pass silently.
func ExpandBlock(b DetailedBlock, info SampleInfo) []PositionRecord {
	records := make([]PositionRecord, 0, len(b.RefAllele))

	for i := 0; i < len(b.RefAllele); i++ {
		base := string(b.RefAllele[i])
		records = append(records, PositionRecord{
			Chrom:        b.Chrom,
			Ref:          base,
			Alt:          base,
			Pos:          b.Pos + int64(i),
			GT:           b.GT,
			Filter:       b.Filter,
			AllelicState: b.AllelicState,
			GenomicBuild: info.GenomicBuild,
			PatientID:    info.PatientID,
			TestDate:     info.TestDate,
			TestID:       info.TestID,
			SpecimenID:   info.SpecimenID,
		})
	}

	return records
}
