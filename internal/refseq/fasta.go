package refseq

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// FASTA is an in-memory index of a genome FASTA file, keyed by the sequence
// accession (the first token of each header line).
type FASTA struct {
	path      string
	sequences map[string]string
}

// LoadFASTA reads a FASTA file (plain or gzipped) and indexes its sequences.
func LoadFASTA(path string) (*FASTA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	fa := &FASTA{
		path:      path,
		sequences: make(map[string]string),
	}
	if err := fa.parse(reader); err != nil {
		return nil, err
	}

	return fa, nil
}

// parse accumulates sequences per header.
// Genome FASTA headers look like:
// >NC_000020.11 Homo sapiens chromosome 20, GRCh38 reference primary assembly
func (fa *FASTA) parse(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024) // 10MB max line

	var currentID string
	var currentSeq strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, ">") {
			if currentID != "" && currentSeq.Len() > 0 {
				fa.sequences[currentID] = currentSeq.String()
			}

			currentID = parseAccession(line)
			currentSeq.Reset()
		} else {
			currentSeq.WriteString(strings.TrimSpace(line))
		}
	}

	if currentID != "" && currentSeq.Len() > 0 {
		fa.sequences[currentID] = currentSeq.String()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan FASTA: %w", err)
	}

	return nil
}

// parseAccession extracts the accession from a FASTA header line.
func parseAccession(header string) string {
	header = strings.TrimPrefix(header, ">")

	if idx := strings.Index(header, " "); idx != -1 {
		return header[:idx]
	}

	return header
}

// Sequence returns the full sequence for an accession.
func (fa *FASTA) Sequence(accession string) (string, bool) {
	seq, ok := fa.sequences[accession]
	return seq, ok
}

// SequenceCount returns the number of indexed sequences.
func (fa *FASTA) SequenceCount() int {
	return len(fa.sequences)
}

// Path returns the file path the index was loaded from.
func (fa *FASTA) Path() string {
	return fa.path
}
