// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfstruct/internal/convert"
	"github.com/pdiddy/pdfstruct/internal/pdftext"
	"github.com/pdiddy/pdfstruct/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Convert every PDF in the input directory to structured JSON",
	Long: `Run processes every *.pdf file in the input directory in file-name
order. Each document is split into headings and paragraphs and written to
<stem>_structured.json in the output directory, either as an ordered list
of {type, text} items (--mode list) or as an object keyed h1, p1, h2, ...
(--mode keyed, the default).

A document that fails to parse is reported and skipped; the batch always
continues. The command exits non-zero if any document failed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, "")
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the raw text of every PDF in the input directory",
	Long: `Dump writes {source_file, extracted_text} to <stem>.json for every PDF
in the input directory. It is shorthand for run --mode raw.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, types.ModeRaw)
	},
}

// runPipeline runs the batch with the resolved configuration. A non-empty
// mode overrides the configured one.
func runPipeline(cmd *cobra.Command, mode types.OutputMode) error {
	v := viper.GetViper()
	if err := bindFlags(v, cmd); err != nil {
		return err
	}

	cfg := pipelineConfig(v)
	if mode != "" {
		cfg.Mode = mode
	}

	opener, err := pdftext.NewOpener(cfg.Backend)
	if err != nil {
		return err
	}
	p, err := convert.NewPipeline(cfg, opener, logger)
	if err != nil {
		return err
	}

	result, err := p.Run(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed", result.Failed)
	}
	return nil
}

func addDirFlags(cmd *cobra.Command) {
	cmd.Flags().String("input-dir", "input", "directory scanned for *.pdf files")
	cmd.Flags().String("output-dir", "output", "directory receiving one JSON file per PDF")
	cmd.Flags().String("backend", string(types.BackendLedongthuc), "PDF backend: ledongthuc or tabula")
	cmd.Flags().Bool("validate", false, "validate each PDF with pdfcpu before extraction")
}

func init() {
	addDirFlags(runCmd)
	runCmd.Flags().String("mode", string(types.ModeKeyed), "output form: keyed, list, or raw")
	addDirFlags(dumpCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(dumpCmd)
}
