package gvcf

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGVCF = `##fileformat=VCFv4.2
##INFO=<ID=END,Number=1,Type=Integer,Description="Stop position of the interval">
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	NA18870
chr20	100	.	A	<NON_REF>	.	PASS	END=100	GT:DP:GQ	0/0:34:99
chr20	101	.	C	<NON_REF>	.	PASS	END=105	GT:DP:GQ	0/0:30:90
chrM	10	.	G	<NON_REF>	.	PASS	END=20	GT	0/0
`

func TestReader_Records(t *testing.T) {
	r, err := NewReaderFrom(strings.NewReader(sampleGVCF))
	require.NoError(t, err)

	rec, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "chr20", rec.Chrom)
	assert.Equal(t, int64(100), rec.Pos)
	assert.Equal(t, int64(100), rec.End)
	assert.Equal(t, "A", rec.Ref)
	assert.Equal(t, "PASS", rec.Filter)
	assert.Equal(t, "0/0", rec.GT)
	assert.False(t, rec.IsBlock())

	rec, err = r.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(101), rec.Pos)
	assert.Equal(t, int64(105), rec.End)
	assert.True(t, rec.IsBlock())
	assert.Equal(t, int64(5), rec.Span())

	rec, err = r.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "chrM", rec.Chrom)

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Nil(t, rec, "expected end of stream")
}

func TestReader_HeaderAndSampleNames(t *testing.T) {
	r, err := NewReaderFrom(strings.NewReader(sampleGVCF))
	require.NoError(t, err)

	assert.NotEmpty(t, r.Header())
	assert.Equal(t, []string{"NA18870"}, r.SampleNames())
}

func TestReader_EndDefaultsToPos(t *testing.T) {
	content := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n" +
		"1\t42\t.\tT\t<NON_REF>\t.\tPASS\tDP=30\tGT\t0\n"

	r, err := NewReaderFrom(strings.NewReader(content))
	require.NoError(t, err)

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.End)
	assert.Equal(t, "0", rec.GT)
}

func TestReader_GTPositionInFormat(t *testing.T) {
	// GT is not always the first FORMAT key.
	content := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n" +
		"1\t42\t.\tT\t<NON_REF>\t.\tPASS\t.\tDP:GT\t30:0/0\n"

	r, err := NewReaderFrom(strings.NewReader(content))
	require.NoError(t, err)

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "0/0", rec.GT)
}

func TestReader_NoSampleColumns(t *testing.T) {
	content := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\t42\t.\tT\t<NON_REF>\t.\tPASS\tEND=50\n"

	r, err := NewReaderFrom(strings.NewReader(content))
	require.NoError(t, err)

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Empty(t, rec.GT)
	assert.Nil(t, r.SampleNames())
}

func TestReader_InvalidPosition(t *testing.T) {
	content := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\tnotanumber\t.\tT\t<NON_REF>\t.\tPASS\t.\n"

	r, err := NewReaderFrom(strings.NewReader(content))
	require.NoError(t, err)

	_, err = r.Next()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
}

func TestReader_InvalidEnd(t *testing.T) {
	content := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\t42\t.\tT\t<NON_REF>\t.\tPASS\tEND=oops\n"

	r, err := NewReaderFrom(strings.NewReader(content))
	require.NoError(t, err)

	_, err = r.Next()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestReader_TooFewColumns(t *testing.T) {
	content := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\t42\t.\tT\n"

	r, err := NewReaderFrom(strings.NewReader(content))
	require.NoError(t, err)

	_, err = r.Next()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestReader_MissingChromHeader(t *testing.T) {
	_, err := NewReaderFrom(strings.NewReader("1\t42\t.\tT\t.\t.\tPASS\t.\n"))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestReader_NoTrailingNewline(t *testing.T) {
	// The last record must not be lost when the file ends without a newline.
	content := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n" +
		"chr20\t100\t.\tA\t<NON_REF>\t.\tPASS\tEND=100\tGT\t0/0\n" +
		"chr20\t101\t.\tC\t<NON_REF>\t.\tPASS\tEND=105\tGT\t0/0" // no \n

	r, err := NewReaderFrom(strings.NewReader(content))
	require.NoError(t, err)

	var records []*Record
	for {
		rec, err := r.Next()
		require.NoError(t, err)
		if rec == nil {
			break
		}
		records = append(records, rec)
	}

	require.Len(t, records, 2)
	assert.Equal(t, int64(101), records[1].Pos)
	assert.Equal(t, int64(105), records[1].End)

	// The stream stays cleanly ended on repeat calls.
	rec, err := r.Next()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestReader_ManyBlankLines(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n")
	for i := 0; i < 100000; i++ {
		sb.WriteString("\n")
	}
	sb.WriteString("chr20\t100\t.\tA\t<NON_REF>\t.\tPASS\tEND=100\tGT\t0/0\n")

	r, err := NewReaderFrom(strings.NewReader(sb.String()))
	require.NoError(t, err)

	rec, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(100), rec.Pos)

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestReader_GzippedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.g.vcf.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleGVCF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	count := 0
	for {
		rec, err := r.Next()
		require.NoError(t, err)
		if rec == nil {
			break
		}
		count++
	}
	assert.Equal(t, 3, count)
}

func TestReader_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.g.vcf")
	require.NoError(t, os.WriteFile(path, []byte(sampleGVCF), 0644))

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "chr20", rec.Chrom)
}
