// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/apa-generator/internal/documents"
	"github.com/pdiddy/apa-generator/internal/library"
	"github.com/pdiddy/apa-generator/internal/validate"
	"github.com/pdiddy/apa-generator/internal/watch"
)

var generateCmd = &cobra.Command{
	Use:   "generate [input files...]",
	Short: "Generate .docx documents from YAML or JSON input files",
	Long: `Generate reads one or more document descriptions (.yaml, .yml or .json),
validates them, and writes an APA formatted .docx for each. Output files are
named after the document title ("<title_slug>_apa.docx") and written to the
configured output directory unless -o names the file.

With --library, references that carry only an id are looked up in the
reference library. With --watch, inputs are regenerated whenever they change.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("output", "o", "", "output file (single input only)")
	generateCmd.Flags().String("output-dir", "", "output directory (overrides generation.output_dir)")
	generateCmd.Flags().Bool("library", false, "resolve id-only references from the reference library")
	generateCmd.Flags().Bool("watch", false, "regenerate inputs when they change")
	generateCmd.Flags().Int("jobs", runtime.NumCPU(), "number of documents generated concurrently")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more input files (.yaml, .yml or .json)")
	}
	for _, p := range args {
		if !documents.IsInputFile(p) {
			return fmt.Errorf("unsupported input file %s: use .yaml, .yml or .json", p)
		}
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" && len(args) > 1 {
		return fmt.Errorf("-o can only be used with a single input file")
	}

	cfg, err := appConfig()
	if err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.Generation.OutputDir = dir
	}
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}

	g := &generator{
		svc:       documents.NewService(log, documents.WithLanguage(cfg.Generation.Language)),
		output:    output,
		outputDir: cfg.Generation.OutputDir,
		out:       cmd.OutOrStdout(),
		errOut:    cmd.ErrOrStderr(),
	}
	if useLibrary, _ := cmd.Flags().GetBool("library"); useLibrary {
		store, err := library.NewStore(cfg.Library)
		if err != nil {
			return err
		}
		defer store.Close()
		g.store = store
	}

	ctx := cmd.Context()
	jobs, _ := cmd.Flags().GetInt("jobs")
	err = g.generateAll(ctx, args, jobs)

	if watchMode, _ := cmd.Flags().GetBool("watch"); watchMode {
		return g.watch(ctx, args)
	}
	return err
}

// generator writes documents for input files. Its methods may run
// concurrently.
type generator struct {
	svc       *documents.Service
	store     *library.Store
	output    string
	outputDir string

	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

// generateAll generates every input with at most jobs in flight. A failing
// input does not stop the others.
func (g *generator) generateAll(ctx context.Context, paths []string, jobs int) error {
	var (
		eg     errgroup.Group
		failed atomic.Int32
	)
	if jobs < 1 {
		jobs = 1
	}
	eg.SetLimit(jobs)
	for _, p := range paths {
		p := p
		eg.Go(func() error {
			if err := g.generateFile(ctx, p); err != nil {
				failed.Add(1)
				g.report(p, err)
				return err
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("%d of %d document(s) failed", failed.Load(), len(paths))
	}
	return nil
}

func (g *generator) generateFile(ctx context.Context, path string) error {
	cfg, err := documents.LoadFile(path)
	if err != nil {
		return err
	}
	if g.store != nil {
		cfg.References, err = g.store.Resolve(ctx, cfg.References)
		if err != nil {
			return err
		}
	}

	res, err := g.svc.Generate(ctx, cfg)
	if err != nil {
		return err
	}

	dest := g.output
	if dest == "" {
		dest = filepath.Join(g.outputDir, localName(res.Filename))
	}
	if err := writeOutput(dest, res.Data); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	fmt.Fprintf(g.out, "Wrote %s (%d bytes)\n", dest, len(res.Data))
	for _, w := range res.Warnings {
		fmt.Fprintf(g.errOut, "warning: %s: %s\n", filepath.Base(path), w)
	}
	return nil
}

// localName turns a download name into a single path element so a title
// holding separators cannot write outside the output directory.
func localName(name string) string {
	name = strings.NewReplacer("/", "_", `\`, "_", string(os.PathSeparator), "_").Replace(name)
	return filepath.Base(name)
}

// report prints err for path, one line per validation detail.
func (g *generator) report(path string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var verr *validate.Error
	if errors.As(err, &verr) {
		fmt.Fprintf(g.errOut, "%s: invalid document\n", path)
		for _, m := range verr.Messages() {
			fmt.Fprintf(g.errOut, "  - %s\n", m)
		}
		return
	}
	fmt.Fprintf(g.errOut, "%s: %v\n", path, err)
}

// watch regenerates inputs as they change until ctx is done.
func (g *generator) watch(ctx context.Context, paths []string) error {
	w, err := watch.New(paths)
	if err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintf(g.out, "Watching %d file(s), press Ctrl+C to stop\n", len(paths))
	for path := range w.Watch(ctx) {
		if err := g.generateFile(ctx, path); err != nil {
			g.report(path, err)
		}
	}
	return nil
}
