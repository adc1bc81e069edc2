// Package gvcf provides streaming access to GVCF call-set files.
package gvcf

// Record represents a single entry from a GVCF file. For non-variant
// blocks the END INFO key marks the last position covered by the block.
type Record struct {
	Chrom  string // chromosome name as written in the file (e.g., "20", "chr20")
	Pos    int64  // 1-based start position
	End    int64  // 1-based inclusive end, defaults to Pos when no END key is present
	Ref    string // reference allele
	Filter string // filter status (".", "PASS", or a filter name)
	GT     string // genotype of the first sample ("0/0", "0", ...)
}

// IsBlock returns true if the record spans more than one position.
func (r *Record) IsBlock() bool {
	return r.End > r.Pos
}

// Span returns the number of positions covered by the record.
func (r *Record) Span() int64 {
	return r.End - r.Pos + 1
}

// RecordReader is the interface for readers that yield GVCF records in
// file order. Callers may rely on Next returning nil, nil at end of input.
type RecordReader interface {
	// Next reads the next record.
	// Returns nil, nil when there are no more records.
	Next() (*Record, error)

	// Close closes the reader and releases resources.
	Close() error
}
