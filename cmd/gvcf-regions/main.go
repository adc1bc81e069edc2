// Package main provides the gvcf-regions command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gvcf-regions",
		Short: "Extract reference-confirmed studied regions from GVCF call sets",
		Long: `gvcf-regions scans GVCF call-set files, merges adjacent non-variant
blocks into contiguous studied regions, overlays reference alleles from
build-specific genome FASTA files, and expands blocks into per-position
records joined with patient/test metadata.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.gvcf-regions.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newExtractCmd())
	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads the viper config file and environment overrides.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".gvcf-regions")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetDefault("workers", 0)
	viper.SetEnvPrefix("GVCF_REGIONS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil // config file is optional
		}
		return fmt.Errorf("read config: %w", err)
	}

	return nil
}

// newLogger builds the process logger: development encoding with debug
// level when --verbose is set, production JSON otherwise.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// fastaPaths resolves the genome FASTA paths from flags, falling back to
// the config file.
func fastaPaths(flag37, flag38 string) (string, string) {
	path37 := flag37
	if path37 == "" {
		path37 = viper.GetString("fasta.build37")
	}
	path38 := flag38
	if path38 == "" {
		path38 = viper.GetString("fasta.build38")
	}
	return path37, path38
}
