// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/apa-generator/internal/apa"
	"github.com/pdiddy/apa-generator/internal/library"
	"github.com/pdiddy/apa-generator/internal/validate"
	"github.com/pdiddy/apa-generator/pkg/types"
)

var referencesCmd = &cobra.Command{
	Use:   "references",
	Short: "Manage the reference library",
	Long: `References manages a local SQLite library of references. Documents cite a
stored reference by listing only its id; generate --library fills in the rest.`,
}

// --- import subcommand ---

var referencesImportCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Import references from YAML or JSON files",
	Long: `Import reads reference files (a list, or a mapping with a "references" key),
validates every entry, and stores them. Entries with an existing id are
replaced; entries without one are given a new id.`,
	RunE: runReferencesImport,
}

func runReferencesImport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more reference files")
	}

	var refs []types.Reference
	v := validate.New()
	for _, path := range args {
		list, err := library.ReadFile(path)
		if err != nil {
			return err
		}
		for i, r := range list {
			if err := v.Reference(r); err != nil {
				return fmt.Errorf("%s: reference %d: %w", path, i, err)
			}
		}
		refs = append(refs, list...)
	}

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	sum, err := store.Import(cmd.Context(), refs)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d reference(s): %d added, %d updated\n",
		sum.Total(), sum.Added, sum.Updated)
	return nil
}

// --- list subcommand ---

var referencesListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List stored references",
	Long: `List prints stored references ordered by first author and year. A query
matches titles and author last names; --type restricts the variant.
With --apa each entry is printed as an APA reference line.`,
	RunE: runReferencesList,
}

func runReferencesList(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	refs, err := store.List(cmd.Context(), listOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(refs) == 0 {
		fmt.Fprintln(out, "No references found.")
		return nil
	}
	if asAPA, _ := cmd.Flags().GetBool("apa"); asAPA {
		for _, r := range refs {
			fmt.Fprintln(out, apa.FormatReference(r))
		}
		return nil
	}
	return printReferenceTable(out, refs)
}

func printReferenceTable(w io.Writer, refs []types.Reference) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tAUTHOR\tYEAR\tTITLE")
	for _, r := range refs {
		b := r.Base()
		year := "n.d."
		if b.Year != 0 {
			year = fmt.Sprint(b.Year)
		}
		title := b.Title
		if runes := []rune(title); len(runes) > 50 {
			title = string(runes[:47]) + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", b.ID, r.Kind(), b.FirstAuthorLastName(), year, title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d references\n", len(refs))
	return nil
}

// --- export subcommand ---

var referencesExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export stored references as YAML or CSL-YAML",
	Long: `Export writes stored references to stdout or --output. The yaml format can
be imported again; the csl format is CSL-YAML for Pandoc and reference
managers. Accepts the same filters as list.`,
	RunE: runReferencesExport,
}

func runReferencesExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "csl" {
		return fmt.Errorf("unsupported format %q: use yaml or csl", format)
	}

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	refs, err := store.List(cmd.Context(), listOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	if format == "csl" {
		return library.FormatCSL(refs, w)
	}
	return library.WriteYAML(w, refs)
}

// --- delete subcommand ---

var referencesDeleteCmd = &cobra.Command{
	Use:   "delete [ids...]",
	Short: "Delete stored references by id",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReferencesDelete,
}

func runReferencesDelete(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	for _, id := range args {
		if err := store.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
	}
	return nil
}

// --- shared helpers ---

func openLibrary() (*library.Store, error) {
	cfg, err := appConfig()
	if err != nil {
		return nil, err
	}
	return library.NewStore(cfg.Library)
}

func listOptsFromFlags(cmd *cobra.Command, args []string) library.ListOptions {
	refType, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")
	return library.ListOptions{
		Type:  types.ReferenceType(refType),
		Query: strings.Join(args, " "),
		Limit: limit,
	}
}

func init() {
	// Filter flags shared by list and export.
	for _, c := range []*cobra.Command{referencesListCmd, referencesExportCmd} {
		c.Flags().String("type", "", "filter by reference type, e.g. book or journal_article")
		c.Flags().Int("limit", 0, "maximum references (0 = no practical limit)")
	}
	referencesListCmd.Flags().Bool("apa", false, "print entries as APA reference lines")
	referencesExportCmd.Flags().String("format", "yaml", "export format: yaml or csl")
	referencesExportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	referencesCmd.AddCommand(referencesImportCmd)
	referencesCmd.AddCommand(referencesListCmd)
	referencesCmd.AddCommand(referencesExportCmd)
	referencesCmd.AddCommand(referencesDeleteCmd)

	rootCmd.AddCommand(referencesCmd)
}
