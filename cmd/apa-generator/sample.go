// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/apa-generator/internal/documents"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write the sample document or an example input file",
	Long: `Sample writes the one-page smoke-test document (test_apa.docx) to the
output directory. With --example it prints a complete input file instead,
a starting point for new papers.`,
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().StringP("output", "o", "", "output path (default <output_dir>/test_apa.docx)")
	sampleCmd.Flags().Bool("example", false, "print an example input file instead")
	sampleCmd.Flags().String("format", "yaml", "example format: yaml or json")

	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	if example, _ := cmd.Flags().GetBool("example"); example {
		format, _ := cmd.Flags().GetString("format")
		f := documents.Format(format)
		if f != documents.FormatYAML && f != documents.FormatJSON {
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		data, err := documents.Encode(documents.ExampleConfig(), f)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	cfg, err := appConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}

	res, err := documents.NewService(log).Sample()
	if err != nil {
		return err
	}
	dest, _ := cmd.Flags().GetString("output")
	if dest == "" {
		dest = filepath.Join(cfg.Generation.OutputDir, res.Filename)
	}
	if err := writeOutput(dest, res.Data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", dest, len(res.Data))
	return nil
}

// writeOutput writes data to path, creating the parent directory.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
