package gvcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Reader reads records from a GVCF file.
type Reader struct {
	reader      *bufio.Reader
	file        *os.File
	gzipReader  *gzip.Reader
	lineNumber  int
	header      []string
	sampleNames []string // sample names from #CHROM header line
}

// NewReader creates a new GVCF reader for the given file.
// Supports both plain and gzipped (.g.vcf.gz) files.
func NewReader(path string) (*Reader, error) {
	if path == "-" {
		return NewReaderFrom(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gvcf file: %w", err)
	}

	r := &Reader{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read gvcf header: %w", err)
	}

	_, err = file.Seek(0, 0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("seek gvcf file: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	} else {
		r.reader = bufio.NewReader(file)
	}

	if err := r.parseHeader(); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

// NewReaderFrom creates a reader from an io.Reader (e.g., stdin).
func NewReaderFrom(src io.Reader) (*Reader, error) {
	r := &Reader{
		reader: bufio.NewReader(src),
	}

	if err := r.parseHeader(); err != nil {
		return nil, err
	}

	return r, nil
}

// parseHeader reads and stores header lines up to and including #CHROM.
func (r *Reader) parseHeader() error {
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read header: %w", err)
		}
		r.lineNumber++

		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "##") {
			r.header = append(r.header, line)
			continue
		}

		if strings.HasPrefix(line, "#CHROM") {
			r.header = append(r.header, line)
			fields := strings.Split(line, "\t")
			if len(fields) > 9 {
				r.sampleNames = fields[9:]
			}
			return nil
		}

		return &ParseError{
			Line:    r.lineNumber,
			Message: "expected #CHROM header line",
		}
	}

	return &ParseError{
		Line:    r.lineNumber,
		Message: "no #CHROM header line found",
	}
}

// Next reads the next record from the GVCF file.
// Returns nil, nil when there are no more records.
func (r *Reader) Next() (*Record, error) {
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read record line: %w", err)
		}

		line = strings.TrimRight(line, "\r\n")

		// A file whose last line lacks a trailing newline still carries a
		// record: ReadString returns its content together with io.EOF.
		if line == "" {
			if err == io.EOF {
				return nil, nil
			}
			r.lineNumber++
			continue // Skip empty lines
		}

		r.lineNumber++
		return r.parseLine(line)
	}
}

// parseLine parses a single GVCF data line into a Record.
func (r *Reader) parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, &ParseError{
			Line:    r.lineNumber,
			Message: fmt.Sprintf("expected at least 8 columns, found %d", len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    r.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	end, err := parseEnd(fields[7], pos)
	if err != nil {
		return nil, &ParseError{
			Line:    r.lineNumber,
			Message: err.Error(),
		}
	}

	rec := &Record{
		Chrom:  fields[0],
		Pos:    pos,
		End:    end,
		Ref:    fields[3],
		Filter: fields[6],
	}

	// Extract the first sample's genotype via the FORMAT column
	if len(fields) > 9 {
		rec.GT = sampleGT(fields[8], fields[9])
	}

	return rec, nil
}

// parseEnd extracts the END key from the INFO field.
// Returns the fallback position when no END key is present.
func parseEnd(info string, pos int64) (int64, error) {
	if info == "." {
		return pos, nil
	}

	for _, kv := range strings.Split(info, ";") {
		if !strings.HasPrefix(kv, "END=") {
			continue
		}
		end, err := strconv.ParseInt(kv[4:], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid END value: %s", kv[4:])
		}
		return end, nil
	}

	return pos, nil
}

// sampleGT returns the GT subfield of a sample column, matched against the
// FORMAT column (e.g., FORMAT "GT:DP:GQ" and sample "0/0:34:99" yield "0/0").
func sampleGT(format, sample string) string {
	keys := strings.Split(format, ":")
	values := strings.Split(sample, ":")

	for i, key := range keys {
		if key == "GT" && i < len(values) {
			return values[i]
		}
	}

	return ""
}

// Header returns the GVCF header lines.
func (r *Reader) Header() []string {
	return r.header
}

// SampleNames returns sample names from the #CHROM header line.
// Returns nil if no sample columns are present.
func (r *Reader) SampleNames() []string {
	return r.sampleNames
}

// LineNumber returns the current line number being processed.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Close closes the reader and underlying file.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ParseError represents an error during GVCF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gvcf parse error at line %d: %s", e.Line, e.Message)
}
