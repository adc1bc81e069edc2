// Package output writes the pipeline's JSON artifacts.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names, matching the layout downstream loaders expect.
const (
	RegionsFile   = "bed_output.json"         // regions with reference alleles and metadata
	BlocksFile    = "non_variant_blocks.json" // one entry per input block
	PositionsFile = "non_variant_output.json" // one entry per genomic position
	IntervalsFile = "bed_file_output.json"    // compact per-patient intervals
)

// WriteJSON writes v as an indented JSON array-of-object document.
func WriteJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return nil
}

// WriteArtifacts writes the four pipeline outputs into dir, creating it if
// needed. Slices must be non-nil so empty outputs serialize as [].
func WriteArtifacts(dir string, regions, blocks, positions, intervals any) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	files := []struct {
		name string
		data any
	}{
		{RegionsFile, regions},
		{BlocksFile, blocks},
		{PositionsFile, positions},
		{IntervalsFile, intervals},
	}

	for _, f := range files {
		if err := WriteJSON(filepath.Join(dir, f.name), f.data); err != nil {
			return err
		}
	}

	return nil
}
