package region

// AllelicState classifies a non-variant call by chromosome type and genotype.
type AllelicState string

const (
	StateHomoplasmic AllelicState = "homoplasmic"
	StateHomozygous  AllelicState = "homozygous"
	StateHemizygous  AllelicState = "hemizygous"
	StateUnknown     AllelicState = "unknown"
)

// DetermineAllelicState derives the allelic state from a normalized
// chromosome tag and a genotype string. Mitochondrial calls are haploid by
// convention and only the reference-call genotype counts as homoplasmic.
// Unrecognized genotype encodings (including multi-allelic strings) map to
// StateUnknown rather than failing; callers interested in data quality
// should count those rather than treat them as benign.
func DetermineAllelicState(chrom, gt string) AllelicState {
	if chrom == ChromMito {
		if gt == "0/0" || gt == "0" {
			return StateHomoplasmic
		}
		return StateUnknown
	}

	switch gt {
	case "0/0":
		return StateHomozygous
	case "0":
		return StateHemizygous
	}

	return StateUnknown
}
