package refseq

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/genomicsops/gvcf-regions/internal/region"
)

// Source serves chromosome sequences for the supported reference builds,
// caching loaded FASTA indexes so many regions can share one load. The
// cache is safe for concurrent use: population is serialized, cached
// lookups proceed under a read lock.
type Source struct {
	mu     sync.RWMutex
	paths  map[int]string
	cache  map[string]*FASTA
	logger *zap.Logger
}

// NewSource creates a source backed by the given FASTA files. An empty path
// leaves the corresponding build unavailable.
func NewSource(build37Path, build38Path string) *Source {
	return &Source{
		paths: map[int]string{
			Build37: build37Path,
			Build38: build38Path,
		},
		cache:  make(map[string]*FASTA),
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for load messages.
func (s *Source) SetLogger(l *zap.Logger) {
	s.logger = l
}

// HasBuild reports whether a FASTA path is configured for the build.
func (s *Source) HasBuild(build int) bool {
	return s.paths[build] != ""
}

// fasta returns the cached index for a path, loading it on first use.
func (s *Source) fasta(path string) (*FASTA, error) {
	s.mu.RLock()
	fa, ok := s.cache[path]
	s.mu.RUnlock()
	if ok {
		return fa, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check: another caller may have loaded it while we waited.
	if fa, ok := s.cache[path]; ok {
		return fa, nil
	}

	s.logger.Info("loading reference FASTA", zap.String("path", path))
	fa, err := LoadFASTA(path)
	if err != nil {
		return nil, err
	}
	s.logger.Info("reference FASTA loaded",
		zap.String("path", path),
		zap.Int("sequences", fa.SequenceCount()))

	s.cache[path] = fa
	return fa, nil
}

// ChromosomeSequence returns the full nucleotide sequence for a chromosome
// tag in the given build. Unknown builds, unknown chromosome tags, and
// accessions absent from the FASTA file each fail with a distinct error,
// all matching ErrInvalidReference.
func (s *Source) ChromosomeSequence(tag string, build int) (string, error) {
	path, ok := s.paths[build]
	if !ok || path == "" {
		return "", fmt.Errorf("%w: %d", ErrUnknownBuild, build)
	}

	acc, err := Accession(tag, build)
	if err != nil {
		return "", err
	}

	fa, err := s.fasta(path)
	if err != nil {
		return "", err
	}

	seq, ok := fa.Sequence(acc)
	if !ok {
		return "", fmt.Errorf("%w: %s (%s)", ErrAccessionMissing, acc, path)
	}

	return seq, nil
}

// RegionAllele slices the reference allele for a studied region out of its
// chromosome sequence. The region's 0-based start and 1-based inclusive end
// map directly onto 0-based half-open string indexes.
func (s *Source) RegionAllele(r region.StudiedRegion, build int) (string, error) {
	seq, err := s.ChromosomeSequence(r.Chrom, build)
	if err != nil {
		return "", err
	}

	if r.Start < 0 || r.End > int64(len(seq)) || r.Start >= r.End {
		return "", fmt.Errorf("%w: region %s:%d-%d outside sequence of length %d",
			ErrInvalidReference, r.Chrom, r.Start, r.End, len(seq))
	}

	return seq[r.Start:r.End], nil
}
