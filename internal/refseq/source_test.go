package refseq

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomicsops/gvcf-regions/internal/region"
)

// chr20FASTA has positions 100-105 (1-based) reading "ACCCCC".
func chr20FASTA(t *testing.T) string {
	t.Helper()
	seq := strings.Repeat("G", 99) + "ACCCCC"
	return writeFASTA(t, "chr20.fna",
		">NC_000020.10 Homo sapiens chromosome 20, GRCh37.p13 Primary Assembly\n"+seq+"\n")
}

func TestSource_ChromosomeSequence(t *testing.T) {
	src := NewSource(chr20FASTA(t), "")

	seq, err := src.ChromosomeSequence("Chr20", Build37)
	require.NoError(t, err)
	assert.Len(t, seq, 105)
	assert.Equal(t, "ACCCCC", seq[99:105])
}

func TestSource_DistinctErrors(t *testing.T) {
	src := NewSource(chr20FASTA(t), "")

	_, err := src.ChromosomeSequence("Chr20", 99)
	assert.ErrorIs(t, err, ErrUnknownBuild)

	_, err = src.ChromosomeSequence("Chr20", Build38)
	assert.ErrorIs(t, err, ErrUnknownBuild, "unconfigured build must be unavailable")

	_, err = src.ChromosomeSequence("ChrBogus", Build37)
	assert.ErrorIs(t, err, ErrUnknownChrom)

	_, err = src.ChromosomeSequence("Chr1", Build37)
	assert.ErrorIs(t, err, ErrAccessionMissing, "accession absent from the FASTA")
}

func TestSource_CachesHandle(t *testing.T) {
	src := NewSource(chr20FASTA(t), "")

	_, err := src.ChromosomeSequence("Chr20", Build37)
	require.NoError(t, err)

	// Same underlying index is served on repeat lookups.
	require.Len(t, src.cache, 1)
	var first *FASTA
	for _, fa := range src.cache {
		first = fa
	}

	_, err = src.ChromosomeSequence("Chr20", Build37)
	require.NoError(t, err)
	require.Len(t, src.cache, 1)
	for _, fa := range src.cache {
		assert.Same(t, first, fa)
	}
}

func TestSource_ConcurrentLookups(t *testing.T) {
	src := NewSource(chr20FASTA(t), "")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := src.ChromosomeSequence("Chr20", Build37)
			assert.NoError(t, err)
			assert.Len(t, seq, 105)
		}()
	}
	wg.Wait()

	assert.Len(t, src.cache, 1, "concurrent first loads must populate the cache once")
}

func TestRegionAllele(t *testing.T) {
	src := NewSource(chr20FASTA(t), "")

	allele, err := src.RegionAllele(region.StudiedRegion{
		Chrom: "Chr20", Start: 99, End: 105,
	}, Build37)
	require.NoError(t, err)
	assert.Equal(t, "ACCCCC", allele)
}

func TestRegionAllele_OutOfBounds(t *testing.T) {
	src := NewSource(chr20FASTA(t), "")

	_, err := src.RegionAllele(region.StudiedRegion{
		Chrom: "Chr20", Start: 99, End: 1000,
	}, Build37)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestRegionAllele_FailureIsolation(t *testing.T) {
	src := NewSource(chr20FASTA(t), "")

	regions := []region.StudiedRegion{
		{Chrom: "ChrBogus", Start: 0, End: 10},
		{Chrom: "Chr20", Start: 99, End: 105},
	}

	_, err := src.RegionAllele(regions[0], Build37)
	assert.ErrorIs(t, err, ErrInvalidReference)

	// The sibling region still resolves.
	allele, err := src.RegionAllele(regions[1], Build37)
	require.NoError(t, err)
	assert.Equal(t, "ACCCCC", allele)
}
