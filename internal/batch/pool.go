package batch

import (
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/genomicsops/gvcf-regions/internal/region"
)

// workItem holds a manifest entry queued for processing.
type workItem struct {
	Seq  int
	Meta SampleMeta
}

// workResult holds the extraction output for a single call set.
type workResult struct {
	Seq    int
	Result *FileResult
	Err    error
}

// BatchResult aggregates the outputs of a manifest run in manifest order.
type BatchResult struct {
	Regions   []RegionEntry
	Blocks    []BlockEntry
	Positions []region.PositionRecord
	Intervals []IntervalEntry

	FilesProcessed int
	FilesSkipped   int
	Stats          FileStats // summed over processed files
}

// ProcessManifest runs the per-file pipeline for every GVCF entry in the
// manifest using a pool of workers. Each call-set file is processed at most
// once: later rows naming an already-seen file are dropped, as are rows that
// do not point at a GVCF. A file that fails to parse is skipped with a
// warning and the batch continues. Output order follows manifest order
// regardless of worker scheduling. If workers is 0, runtime.NumCPU() is used.
func (j *Joiner) ProcessManifest(entries []SampleMeta, workers int) *BatchResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Dedup by source-file identity before queuing.
	seen := make(map[string]bool, len(entries))
	queued := make([]SampleMeta, 0, len(entries))
	for _, meta := range entries {
		if !meta.IsGVCF() {
			j.logger.Debug("skipping non-gvcf manifest entry",
				zap.String("file", meta.VCFFilename))
			continue
		}
		if seen[meta.VCFFilename] {
			continue
		}
		seen[meta.VCFFilename] = true
		queued = append(queued, meta)
	}

	items := make(chan workItem, len(queued))
	for i, meta := range queued {
		items <- workItem{Seq: i, Meta: meta}
	}
	close(items)

	results := make(chan workResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for item := range items {
				res, err := j.ProcessFile(item.Meta)
				results <- workResult{Seq: item.Seq, Result: res, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := &BatchResult{
		Regions:   []RegionEntry{},
		Blocks:    []BlockEntry{},
		Positions: []region.PositionRecord{},
		Intervals: []IntervalEntry{},
	}

	collectOrdered(results, func(r workResult) {
		if r.Err != nil {
			j.logger.Warn("skipping call set",
				zap.String("file", queued[r.Seq].VCFFilename),
				zap.Error(r.Err))
			out.FilesSkipped++
			return
		}
		out.FilesProcessed++
		out.Regions = append(out.Regions, r.Result.Regions...)
		out.Blocks = append(out.Blocks, r.Result.Blocks...)
		out.Positions = append(out.Positions, r.Result.Positions...)
		out.Intervals = append(out.Intervals, r.Result.Intervals...)
		out.Stats.Records += r.Result.Stats.Records
		out.Stats.Regions += r.Result.Stats.Regions
		out.Stats.UnknownStates += r.Result.Stats.UnknownStates
		out.Stats.EmptyRefRegions += r.Result.Stats.EmptyRefRegions
		out.Stats.SkippedBlocks += r.Result.Stats.SkippedBlocks
	})

	return out
}

// collectOrdered calls fn for each result in sequence-number order,
// buffering out-of-order results until the next expected sequence number
// arrives. Blocks until the results channel is closed.
func collectOrdered(results <-chan workResult, fn func(workResult)) {
	pending := make(map[int]workResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			fn(rr)
		}
	}
}
