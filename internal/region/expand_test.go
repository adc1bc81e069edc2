package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandBlock_OneRecordPerBase(t *testing.T) {
	block := DetailedBlock{
		Chrom:        "Chr20",
		Pos:          101,
		End:          105,
		RefAllele:    "CCCCC",
		Filter:       "PASS",
		GT:           "0/0",
		AllelicState: StateHomozygous,
	}
	info := SampleInfo{
		GenomicBuild: "GRCh37",
		PatientID:    "NA18870",
		TestDate:     "2024-01-15",
		TestID:       "T-1",
		SpecimenID:   "S-1",
	}

	records := ExpandBlock(block, info)
	require.Len(t, records, 5)

	for i, r := range records {
		assert.Equal(t, block.Pos+int64(i), r.Pos, "record %d position", i)
		assert.Equal(t, "C", r.Ref)
		assert.Equal(t, r.Ref, r.Alt, "alternate must mirror reference")
		assert.Equal(t, "0/0", r.GT)
		assert.Equal(t, "PASS", r.Filter)
		assert.Equal(t, StateHomozygous, r.AllelicState)
		assert.Equal(t, "GRCh37", r.GenomicBuild)
		assert.Equal(t, "NA18870", r.PatientID)
	}
}

func TestExpandBlock_ConsecutivePositions(t *testing.T) {
	block := DetailedBlock{Chrom: "Chr1", Pos: 500, RefAllele: "ACGT", GT: "0/0"}

	records := ExpandBlock(block, SampleInfo{})
	require.Len(t, records, 4)

	for i := 1; i < len(records); i++ {
		assert.Equal(t, records[i-1].Pos+1, records[i].Pos)
	}
	assert.Equal(t, "A", records[0].Ref)
	assert.Equal(t, "C", records[1].Ref)
	assert.Equal(t, "G", records[2].Ref)
	assert.Equal(t, "T", records[3].Ref)
}

func TestExpandBlock_EmptyAllele(t *testing.T) {
	block := DetailedBlock{Chrom: "Chr1", Pos: 500, RefAllele: ""}

	records := ExpandBlock(block, SampleInfo{})
	assert.Empty(t, records)
	assert.NotNil(t, records)
}
