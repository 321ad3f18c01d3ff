package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/croutondev/crouton/compiler/gen"
	"github.com/croutondev/crouton/compiler/gen/gocode"
	"github.com/croutondev/crouton/compiler/gen/sqlddl"
	"github.com/croutondev/crouton/compiler/gen/ui"
	"github.com/croutondev/crouton/compiler/load"
	"github.com/croutondev/crouton/dialect"
)

type generateOptions struct {
	*rootOptions

	fieldsFile string
	dialect    string
	hierarchy  bool
	force      bool
	dryRun     bool
	watch      bool
	features   []string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "generate [layer] [collection]",
		Short: "Generate artifacts for the configured targets",
		Long: `generate renders every artifact of the selected collections in memory
and only then writes them out. A failing schema or emitter aborts the
run before any file is touched. With no arguments every target in the
project config is generated; layer and collection arguments narrow the
run.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.fieldsFile, "fields-file", "", "generate a single collection from this schema file")
	f.StringVar(&opts.dialect, "dialect", "", "override the configured dialect (sqlite|postgres)")
	f.BoolVar(&opts.hierarchy, "hierarchy", false, "treat the ad-hoc collection as a tree (with --fields-file)")
	f.BoolVar(&opts.force, "force", false, "overwrite existing files")
	f.BoolVar(&opts.dryRun, "dry-run", false, "preview artifacts without writing")
	f.BoolVar(&opts.watch, "watch", false, "regenerate when schema or config files change")
	f.StringSliceVar(&opts.features, "feature", nil, "enable only these features (ui, handlers, seed)")
	return cmd
}

func runGenerate(ctx context.Context, opts *generateOptions, args []string) error {
	run := func(ctx context.Context) error {
		report, err := generateOnce(ctx, opts, args)
		if err != nil {
			return err
		}
		printReport(opts, report)
		return nil
	}

	if !opts.watch {
		return run(ctx)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx); err != nil {
		// Keep watching: the operator fixes the schema and saves again.
		color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
	}
	paths, err := watchPaths(opts, args)
	if err != nil {
		return err
	}
	opts.log.Infow("watching", "paths", paths)
	return gen.Watch(ctx, paths, func() error {
		if err := run(ctx); err != nil {
			color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		}
		return nil
	})
}

func generateOnce(ctx context.Context, opts *generateOptions, args []string) (*gen.Report, error) {
	cols, genOpts, err := resolveRun(opts, args)
	if err != nil {
		return nil, err
	}
	cfg, err := gen.NewConfig(genOpts...)
	if err != nil {
		return nil, err
	}
	graph, err := gen.NewGraph(cfg, cols)
	if err != nil {
		return nil, err
	}
	opts.log.Infow("generating",
		"collections", len(graph.Collections),
		"dialect", cfg.Dialect,
		"dryRun", cfg.DryRun,
	)
	generator := gen.NewGenerator(graph,
		sqlddl.NewEmitter(),
		gocode.NewEmitter(),
		gocode.NewSeedEmitter(),
		ui.NewEmitter(nil),
	)
	return generator.Generate(ctx, gen.NewWriter(cfg))
}

// resolveRun turns the CLI surface into loaded collections plus
// generator options, either from the project config or from an ad-hoc
// --fields-file invocation.
func resolveRun(opts *generateOptions, args []string) ([]*load.Collection, []gen.Option, error) {
	var genOpts []gen.Option

	if opts.fieldsFile != "" {
		if len(args) != 2 {
			return nil, nil, fmt.Errorf("--fields-file needs explicit layer and collection arguments")
		}
		if opts.dialect == "" {
			return nil, nil, fmt.Errorf("--fields-file needs --dialect")
		}
		d, err := dialect.Parse(opts.dialect)
		if err != nil {
			return nil, nil, err
		}
		fields, err := load.LoadFields(opts.fieldsFile)
		if err != nil {
			return nil, nil, err
		}
		cols := []*load.Collection{{
			CollectionConfig: &load.CollectionConfig{
				Name:       args[1],
				FieldsFile: opts.fieldsFile,
				Hierarchy:  opts.hierarchy,
			},
			Layer:  args[0],
			Fields: fields,
		}}
		genOpts = append(genOpts, gen.WithDialect(d))
		common, err := opts.commonOptions()
		if err != nil {
			return nil, nil, err
		}
		return cols, append(genOpts, common...), nil
	}

	pc, err := load.LoadConfig(opts.configFile)
	if err != nil {
		return nil, nil, err
	}
	cols, err := pc.Load()
	if err != nil {
		return nil, nil, err
	}
	cols = filterCollections(cols, args)
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("no collections match %v", args)
	}
	genOpts = append(genOpts, gen.FromProject(pc)...)
	if opts.dialect != "" {
		d, err := dialect.Parse(opts.dialect)
		if err != nil {
			return nil, nil, err
		}
		genOpts = append(genOpts, gen.WithDialect(d))
	}
	common, err := opts.commonOptions()
	if err != nil {
		return nil, nil, err
	}
	return cols, append(genOpts, common...), nil
}

func (o *generateOptions) commonOptions() ([]gen.Option, error) {
	out := []gen.Option{
		gen.WithRoot(o.root),
		gen.WithForce(o.force),
		gen.WithDryRun(o.dryRun),
	}
	if len(o.features) > 0 {
		features := make([]gen.Feature, 0, len(o.features))
		for _, name := range o.features {
			f, err := gen.ParseFeature(name)
			if err != nil {
				return nil, err
			}
			features = append(features, f)
		}
		out = append(out, gen.WithFeatures(features...))
	}
	return out, nil
}

func filterCollections(cols []*load.Collection, args []string) []*load.Collection {
	if len(args) == 0 {
		return cols
	}
	var out []*load.Collection
	for _, c := range cols {
		if c.Layer != args[0] {
			continue
		}
		if len(args) == 2 && c.Name != args[1] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// watchPaths collects the config file and every schema file of the run.
func watchPaths(opts *generateOptions, args []string) ([]string, error) {
	if opts.fieldsFile != "" {
		return []string{opts.fieldsFile}, nil
	}
	pc, err := load.LoadConfig(opts.configFile)
	if err != nil {
		return nil, err
	}
	cols, err := pc.Load()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{opts.configFile: true}
	paths := []string{opts.configFile}
	dir := filepath.Dir(opts.configFile)
	for _, c := range filterCollections(cols, args) {
		p := c.FieldsFile
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func printReport(opts *generateOptions, report *gen.Report) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if report.DryRun {
		fmt.Println(yellow("dry run: no files written"))
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Path", "Category", "Bytes"})
		table.SetBorder(false)
		for _, a := range report.Artifacts {
			table.Append([]string{a.Path, string(a.Category), fmt.Sprintf("%d", len(a.Content))})
		}
		table.Render()
		return
	}

	for _, p := range report.Written {
		fmt.Println(green("  wrote"), p)
	}
	for _, p := range report.Skipped {
		fmt.Println(yellow("skipped"), p, "(exists; use --force)")
	}
	fmt.Printf("%s %d written, %d skipped (run %s)\n",
		green("done:"), len(report.Written), len(report.Skipped), report.RunID)
}
