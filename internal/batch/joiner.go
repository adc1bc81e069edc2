package batch

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/genomicsops/gvcf-regions/internal/gvcf"
	"github.com/genomicsops/gvcf-regions/internal/refseq"
	"github.com/genomicsops/gvcf-regions/internal/region"
)

// RegionEntry is a studied region with its sample metadata joined on.
type RegionEntry struct {
	region.StudiedRegion
	Meta
}

// BlockEntry is a detailed block with its sample metadata joined on.
type BlockEntry struct {
	region.DetailedBlock
	Meta
}

// IntervalEntry is the compact per-patient interval record.
type IntervalEntry struct {
	Chrom     string `json:"Chrom"`
	Start     int64  `json:"Start"`
	End       int64  `json:"End"`
	PatientID string `json:"patientID"`
}

// FileStats holds the observable per-file counters.
type FileStats struct {
	Records         int // records read from the call set
	Regions         int // merged studied regions
	UnknownStates   int // blocks with unclassifiable genotypes
	EmptyRefRegions int // regions whose reference lookup failed
	SkippedBlocks   int // blocks that expanded to zero position records
}

// FileResult is everything extracted from one sample's call set.
type FileResult struct {
	Meta      SampleMeta
	Regions   []RegionEntry
	Blocks    []BlockEntry
	Positions []region.PositionRecord
	Intervals []IntervalEntry
	Stats     FileStats
}

// Joiner runs the per-file extraction pipeline and attaches sample metadata
// to its outputs. The reference source is the only state shared between
// files; it serializes its own cache population.
type Joiner struct {
	source *refseq.Source
	logger *zap.Logger
}

// NewJoiner creates a joiner backed by the given reference source.
func NewJoiner(source *refseq.Source) *Joiner {
	return &Joiner{
		source: source,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and warning messages.
func (j *Joiner) SetLogger(l *zap.Logger) {
	j.logger = l
}

// ProcessFile parses one GVCF call set, overlays reference alleles onto the
// merged regions, expands blocks to position records, and joins the sample
// metadata onto everything. Reference-resolution failures are absorbed at
// region granularity: the affected region keeps an empty allele and sibling
// regions are unaffected. Parse and ordering errors abort the file.
func (j *Joiner) ProcessFile(meta SampleMeta) (*FileResult, error) {
	build, err := meta.BuildVersion()
	if err != nil {
		return nil, err
	}

	reader, err := gvcf.NewReader(meta.VCFFilename)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	merger := region.NewMerger()
	merger.SetLogger(j.logger)

	regions, blocks, err := merger.Merge(reader)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", meta.VCFFilename, err)
	}

	res := &FileResult{
		Meta:      meta,
		Regions:   make([]RegionEntry, 0, len(regions)),
		Blocks:    make([]BlockEntry, 0, len(blocks)),
		Positions: []region.PositionRecord{},
		Intervals: make([]IntervalEntry, 0, len(regions)),
	}
	res.Stats.Records = merger.Stats().Records
	res.Stats.Regions = merger.Stats().Regions
	res.Stats.UnknownStates = merger.Stats().UnknownStates

	if res.Stats.UnknownStates > 0 {
		j.logger.Warn("unclassifiable genotypes in call set",
			zap.String("file", meta.VCFFilename),
			zap.Int("count", res.Stats.UnknownStates))
	}

	sampleMeta := meta.Meta()
	for _, r := range regions {
		allele, err := j.source.RegionAllele(r, build)
		if err != nil {
			if !errors.Is(err, refseq.ErrInvalidReference) {
				return nil, err
			}
			j.logger.Warn("reference lookup failed, keeping empty allele",
				zap.String("file", meta.VCFFilename),
				zap.String("chrom", r.Chrom),
				zap.Int64("start", r.Start),
				zap.Int64("end", r.End),
				zap.Error(err))
			res.Stats.EmptyRefRegions++
			allele = ""
		}
		r.RefAllele = allele

		res.Regions = append(res.Regions, RegionEntry{StudiedRegion: r, Meta: sampleMeta})
		res.Intervals = append(res.Intervals, IntervalEntry{
			Chrom:     r.Chrom,
			Start:     r.Start,
			End:       r.End,
			PatientID: meta.PatientID,
		})
	}

	info := meta.SampleInfo()
	for _, b := range blocks {
		res.Blocks = append(res.Blocks, BlockEntry{DetailedBlock: b, Meta: sampleMeta})

		expanded := region.ExpandBlock(b, info)
		if len(expanded) == 0 {
			res.Stats.SkippedBlocks++
			continue
		}
		res.Positions = append(res.Positions, expanded...)
	}

	if res.Stats.SkippedBlocks > 0 {
		j.logger.Warn("blocks expanded to zero position records",
			zap.String("file", meta.VCFFilename),
			zap.Int("count", res.Stats.SkippedBlocks))
	}

	return res, nil
}
