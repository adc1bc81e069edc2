package region

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/genomicsops/gvcf-regions/internal/gvcf"
)

// StudiedRegion is a contiguous genomic interval with reference-confirmed
// coverage. Start is 0-based inclusive (BED convention), End is 1-based
// inclusive. RefAllele is filled in by the reference overlay and left empty
// when the lookup fails.
type StudiedRegion struct {
	Chrom     string `json:"CHROM"`
	Start     int64  `json:"START"`
	End       int64  `json:"END"`
	RefAllele string `json:"REF_ALLELE"`
}

// DetailedBlock is a single non-variant block as read from the call set.
// Blocks are emitted one per input record, in input order, and never merged.
type DetailedBlock struct {
	Chrom        string       `json:"CHROM"`
	Pos          int64        `json:"POS"`
	End          int64        `json:"END"`
	RefAllele    string       `json:"REF_ALLELE"`
	Filter       string       `json:"FILTER"`
	GT           string       `json:"GT"`
	AllelicState AllelicState `json:"allelicState"`
}

// OrderError reports a violation of the stream-ordering precondition:
// records must arrive grouped by chromosome with non-decreasing positions
// within each chromosome.
type OrderError struct {
	Chrom   string
	Pos     int64
	Message string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("record order violation at %s:%d: %s", e.Chrom, e.Pos, e.Message)
}

// MergeStats holds observable counters from a merge pass.
type MergeStats struct {
	Records       int // records consumed from the stream
	Regions       int // studied regions emitted
	UnknownStates int // blocks classified as StateUnknown
}

// Merger performs a single sequential pass over an ordered record stream,
// merging adjacent and overlapping blocks into contiguous studied regions.
type Merger struct {
	logger *zap.Logger
	stats  MergeStats
}

// NewMerger creates a merger with a no-op logger.
func NewMerger() *Merger {
	return &Merger{logger: zap.NewNop()}
}

// SetLogger sets the logger for warning messages.
func (m *Merger) SetLogger(l *zap.Logger) {
	m.logger = l
}

// Stats returns the counters from the most recent Merge call.
func (m *Merger) Stats() MergeStats {
	return m.stats
}

// Merge consumes the record stream and returns the merged studied regions
// together with one detailed block per input record. Two blocks on the same
// chromosome merge iff the next block's position is at most the current
// region's end + 1; the +1 makes consecutive 1-based positions contiguous.
// An empty stream yields no regions. Parse errors from the reader and
// ordering violations abort the pass.
func (m *Merger) Merge(r gvcf.RecordReader) ([]StudiedRegion, []DetailedBlock, error) {
	regions := []StudiedRegion{}
	blocks := []DetailedBlock{}
	m.stats = MergeStats{}

	var (
		open     bool
		curChrom string
		curStart int64
		curEnd   int64
		lastPos  int64
	)
	finished := make(map[string]bool)

	for {
		rec, err := r.Next()
		if err != nil {
			return nil, nil, err
		}
		if rec == nil {
			break
		}
		m.stats.Records++

		chrom := NormalizeChromosome(rec.Chrom)
		end := rec.End
		if end < rec.Pos {
			end = rec.Pos
		}

		if open {
			if chrom == curChrom && rec.Pos < lastPos {
				return nil, nil, &OrderError{
					Chrom:   chrom,
					Pos:     rec.Pos,
					Message: fmt.Sprintf("position decreased from %d", lastPos),
				}
			}
			if chrom != curChrom && finished[chrom] {
				return nil, nil, &OrderError{
					Chrom:   chrom,
					Pos:     rec.Pos,
					Message: "chromosome reappeared after the stream moved on",
				}
			}
		}

		switch {
		case !open:
			open = true
			curChrom = chrom
			curStart = rec.Pos
			curEnd = end
		case chrom == curChrom && rec.Pos <= curEnd+1:
			// Adjacent or overlapping: extend the open region.
			if end > curEnd {
				curEnd = end
			}
		default:
			regions = append(regions, closeRegion(curChrom, curStart, curEnd))
			if chrom != curChrom {
				finished[curChrom] = true
			}
			curChrom = chrom
			curStart = rec.Pos
			curEnd = end
		}
		lastPos = rec.Pos

		// Mitochondrial calls are treated as haploid regardless of the
		// stored genotype.
		gt := rec.GT
		if chrom == ChromMito {
			gt = "0"
		}

		state := DetermineAllelicState(chrom, gt)
		if state == StateUnknown {
			m.stats.UnknownStates++
			m.logger.Debug("unclassifiable genotype",
				zap.String("chrom", chrom),
				zap.Int64("pos", rec.Pos),
				zap.String("gt", gt))
		}

		blocks = append(blocks, DetailedBlock{
			Chrom:        chrom,
			Pos:          rec.Pos,
			End:          end,
			RefAllele:    rec.Ref,
			Filter:       rec.Filter,
			GT:           gt,
			AllelicState: state,
		})
	}

	if open {
		regions = append(regions, closeRegion(curChrom, curStart, curEnd))
	}
	m.stats.Regions = len(regions)

	return regions, blocks, nil
}

// closeRegion converts the open 1-based interval to the output convention:
// 0-based inclusive start, 1-based inclusive end.
func closeRegion(chrom string, start, end int64) StudiedRegion {
	return StudiedRegion{
		Chrom: chrom,
		Start: start - 1,
		End:   end,
	}
}
