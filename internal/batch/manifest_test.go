package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `vcf_filename,ref_build,patient_id,test_date,test_id,specimen_id,genomic_source_class,ratio_ad_dp,sample_position
NA18870.chr20.GRCh37.g.vcf,GRCh37,NA18870,2024-01-15,T-100,S-100,germline,0.99,1
sample2.g.vcf.gz,GRCh38,P-2,2024-02-01,T-101,S-101,germline,0.95,2
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vcfData.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadManifest(t *testing.T) {
	entries, err := ReadManifest(writeManifest(t, sampleManifest))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "NA18870.chr20.GRCh37.g.vcf", first.VCFFilename)
	assert.Equal(t, "GRCh37", first.RefBuild)
	assert.Equal(t, "NA18870", first.PatientID)
	assert.Equal(t, "2024-01-15", first.TestDate)
	assert.Equal(t, "T-100", first.TestID)
	assert.Equal(t, "S-100", first.SpecimenID)
	assert.Equal(t, "germline", first.GenomicSourceClass)
	assert.Equal(t, 0.99, first.RatioAdDp)
	assert.Equal(t, 1, first.SamplePosition)
}

func TestReadManifest_ColumnOrderIndependent(t *testing.T) {
	reordered := `patient_id,vcf_filename,ref_build,test_date,test_id,specimen_id,genomic_source_class,ratio_ad_dp,sample_position
P-1,f.g.vcf,GRCh38,2024-01-01,T,S,germline,0.5,0
`
	entries, err := ReadManifest(writeManifest(t, reordered))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "f.g.vcf", entries[0].VCFFilename)
	assert.Equal(t, "P-1", entries[0].PatientID)
}

func TestReadManifest_MissingColumn(t *testing.T) {
	_, err := ReadManifest(writeManifest(t, "vcf_filename,ref_build\nf.g.vcf,GRCh37\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestReadManifest_InvalidRatio(t *testing.T) {
	bad := `vcf_filename,ref_build,patient_id,test_date,test_id,specimen_id,genomic_source_class,ratio_ad_dp,sample_position
f.g.vcf,GRCh37,P,D,T,S,germline,notanumber,1
`
	_, err := ReadManifest(writeManifest(t, bad))
	assert.Error(t, err)
}

func TestSampleMeta_BuildVersion(t *testing.T) {
	v, err := SampleMeta{RefBuild: "GRCh37"}.BuildVersion()
	require.NoError(t, err)
	assert.Equal(t, 37, v)

	v, err = SampleMeta{RefBuild: "GRCh38"}.BuildVersion()
	require.NoError(t, err)
	assert.Equal(t, 38, v)

	_, err = SampleMeta{RefBuild: "hg19"}.BuildVersion()
	assert.Error(t, err)
}

func TestSampleMeta_IsGVCF(t *testing.T) {
	assert.True(t, SampleMeta{VCFFilename: "a.g.vcf"}.IsGVCF())
	assert.True(t, SampleMeta{VCFFilename: "a.g.vcf.gz"}.IsGVCF())
	assert.False(t, SampleMeta{VCFFilename: "a.vcf"}.IsGVCF())
	assert.False(t, SampleMeta{VCFFilename: "a.vcf.gz"}.IsGVCF())
}
