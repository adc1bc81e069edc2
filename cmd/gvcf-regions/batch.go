package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/genomicsops/gvcf-regions/internal/batch"
	"github.com/genomicsops/gvcf-regions/internal/duckdb"
	"github.com/genomicsops/gvcf-regions/internal/output"
	"github.com/genomicsops/gvcf-regions/internal/refseq"
)

func newBatchCmd() *cobra.Command {
	var (
		outDir     string
		duckdbPath string
		workers    int
		fasta37    string
		fasta38    string
	)

	cmd := &cobra.Command{
		Use:   "batch <manifest.csv>",
		Short: "Process every GVCF call set listed in a CSV manifest",
		Long: `Batch reads a CSV manifest (vcf_filename, ref_build, patient_id,
test_date, test_id, specimen_id, genomic_source_class, ratio_ad_dp,
sample_position), runs the extraction pipeline for each GVCF entry, joins
the row's metadata onto the outputs, and writes combined JSON artifacts.
Files that fail to parse are skipped with a warning; duplicate manifest
rows for the same file are processed once.`,
		Example: `  gvcf-regions batch vcfData.csv
  gvcf-regions batch --workers 4 --duckdb out/regions.duckdb -o out/ vcfData.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(args[0], outDir, duckdbPath, workers, fasta37, fasta38)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "output directory for JSON artifacts")
	cmd.Flags().StringVar(&duckdbPath, "duckdb", "", "also write regions and positions to a DuckDB database")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent call-set workers (default: config, then NumCPU)")
	cmd.Flags().StringVar(&fasta37, "fasta-37", "", "GRCh37 genome FASTA (default: config fasta.build37)")
	cmd.Flags().StringVar(&fasta38, "fasta-38", "", "GRCh38 genome FASTA (default: config fasta.build38)")

	return cmd
}

func runBatch(manifestPath, outDir, duckdbPath string, workers int, fasta37, fasta38 string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	entries, err := batch.ReadManifest(manifestPath)
	if err != nil {
		return err
	}
	logger.Info("manifest loaded",
		zap.String("path", manifestPath),
		zap.Int("rows", len(entries)))

	path37, path38 := fastaPaths(fasta37, fasta38)
	source := refseq.NewSource(path37, path38)
	source.SetLogger(logger)

	joiner := batch.NewJoiner(source)
	joiner.SetLogger(logger)

	if workers == 0 {
		workers = viper.GetInt("workers")
	}

	res := joiner.ProcessManifest(entries, workers)

	if err := output.WriteArtifacts(outDir, res.Regions, res.Blocks, res.Positions, res.Intervals); err != nil {
		return err
	}

	if duckdbPath != "" {
		store, err := duckdb.Open(duckdbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.WriteRegions(res.Regions); err != nil {
			return err
		}
		if err := store.WritePositions(res.Positions); err != nil {
			return err
		}
		logger.Info("duckdb sink written",
			zap.String("path", duckdbPath),
			zap.Int("regions", len(res.Regions)),
			zap.Int("positions", len(res.Positions)))
	}

	logger.Info("batch complete",
		zap.Int("filesProcessed", res.FilesProcessed),
		zap.Int("filesSkipped", res.FilesSkipped),
		zap.Int("regions", len(res.Regions)),
		zap.Int("blocks", len(res.Blocks)),
		zap.Int("positions", len(res.Positions)),
		zap.Int("unknownStates", res.Stats.UnknownStates),
		zap.Int("emptyRefRegions", res.Stats.EmptyRefRegions),
		zap.Int("skippedBlocks", res.Stats.SkippedBlocks))

	return nil
}
