// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfstruct/internal/index"
	"github.com/pdiddy/pdfstruct/internal/output"
	"github.com/pdiddy/pdfstruct/pkg/types"
)

// --- index ---

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Load structured outputs into the search index",
	Long: `Index reads every *_structured.json file in the output directory, in
list or keyed form, into a SQLite database with full-text search at
<index-dir>/pdfstruct.db. Unchanged files are skipped on later runs and
changed files are replaced.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed headings and paragraphs",
	Long: `Search runs a full-text query over the index, optionally restricted to
headings or paragraphs (--type) and to one document (--doc). With no query,
matching items are listed in document order.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if opts.Query == "" && opts.Kind == "" && opts.Doc == "" {
		return fmt.Errorf("query or filter required: provide a search query, --type, or --doc")
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []index.Result, jsonOutput bool) error {
	if jsonOutput {
		if results == nil {
			results = []index.Result{}
		}
		data, err := output.Encode(results)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-9s  %-20s  %-4s  %s\n", "Rank", "Type", "Document", "Pos", "Text")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-9s  %-20s  %-4d  %s\n",
			i+1, r.Kind, truncate(r.Doc, 20), r.Position, truncate(r.Text, 55))
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index to YAML or JSON",
	Long: `Export writes the indexed items, grouped by document, to
<index-dir>/export.yaml or export.json. The --type and --doc filters limit
the export to a subset.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	opts, err := queryOptsFromFlags(cmd, nil)
	if err != nil {
		return err
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	path, err := store.Export(cmd.Context(), format, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- stats ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print document and item counts for the index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "documents: %d, headings: %d, paragraphs: %d\n",
			st.Documents, st.Headings, st.Paragraphs)
		return nil
	},
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*index.Store, error) {
	v := viper.GetViper()
	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}
	cfg := indexConfig(v)
	logger.Debug("opening index", "index_dir", cfg.IndexDir, "output_dir", cfg.OutputDir)
	return index.NewStore(cfg)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) (index.QueryOptions, error) {
	kind, _ := cmd.Flags().GetString("type")
	doc, _ := cmd.Flags().GetString("doc")
	limit, _ := cmd.Flags().GetInt("limit")

	switch types.ItemKind(kind) {
	case "", types.KindHeading, types.KindParagraph:
	default:
		return index.QueryOptions{}, fmt.Errorf("unsupported type %q: use %s or %s",
			kind, types.KindHeading, types.KindParagraph)
	}

	return index.QueryOptions{
		Query:      strings.Join(args, " "),
		Kind:       types.ItemKind(kind),
		Doc:        doc,
		MaxResults: limit,
	}, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", "", "filter by item type: heading or paragraph")
	cmd.Flags().String("doc", "", "filter by document stem")
}

func init() {
	for _, c := range []*cobra.Command{indexCmd, searchCmd, exportCmd, statsCmd} {
		c.Flags().String("output-dir", "output", "directory holding *_structured.json files")
		c.Flags().String("index-dir", "index", "directory holding the index database and exports")
	}
	searchCmd.Flags().Int("max-results", 20, "default maximum number of results")

	addFilterFlags(searchCmd)
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = use max-results)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(exportCmd)
	exportCmd.Flags().String("format", index.FormatYAML, "export format: yaml or json")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
}
