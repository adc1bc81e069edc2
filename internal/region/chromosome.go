// Package region reconstructs contiguous studied regions from GVCF
// non-variant blocks and expands them into per-position records.
package region

import "strings"

// Canonical chromosome tags for the non-numeric chromosomes.
const (
	ChromMito = "ChrM"
	ChromX    = "ChrX"
	ChromY    = "ChrY"
)

// NormalizeChromosome maps heterogeneous chromosome name spellings to a
// canonical "Chr"-prefixed tag (e.g., "chr20" -> "Chr20", "M" -> "ChrM").
// Any input produces a deterministic output; the function is idempotent on
// its own output. The prefix strip is case-insensitive so already-normalized
// tags pass through unchanged.
func NormalizeChromosome(chrom string) string {
	tag := chrom
	if len(tag) >= 3 && strings.EqualFold(tag[:3], "chr") {
		tag = tag[3:]
	}

	switch strings.ToLower(tag) {
	case "m", "mitochondrion":
		return ChromMito
	}

	switch strings.ToUpper(tag) {
	case "X":
		return ChromX
	case "Y":
		return ChromY
	}

	return "Chr" + tag
}
