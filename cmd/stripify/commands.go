package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/Faultbox/midgard-strip/internal/assets"
	"github.com/Faultbox/midgard-strip/internal/config"
	"github.com/Faultbox/midgard-strip/internal/logger"
	"github.com/Faultbox/midgard-strip/internal/pipeline"
	"github.com/Faultbox/midgard-strip/pkg/grf"
	"github.com/Faultbox/midgard-strip/pkg/tristrip"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func loadOptions(cfg *config.Config, twoSided bool) pipeline.LoadOptions {
	return pipeline.LoadOptions{
		Extensions: cfg.Pipeline.Extensions,
		TwoSided:   twoSided,
	}
}

func runOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Strip:   cfg.Strip.Options(),
		Workers: cfg.Pipeline.Workers,
		Logger:  logger.Log,
	}
}

func loadPaths(paths []string, opts pipeline.LoadOptions) ([]pipeline.Job, error) {
	var jobs []pipeline.Job
	for _, p := range paths {
		js, err := pipeline.LoadPath(p, opts)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, js...)
	}
	return jobs, nil
}

func cmdStats(cfg *config.Config, args []string, w io.Writer) error {
	fs := newFlagSet("stats")
	twoSided := fs.Bool("two-sided", false, "Add back faces for two-sided RSM faces")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: stripify stats <path>...", errUsage)
	}

	jobs, err := loadPaths(fs.Args(), loadOptions(cfg, *twoSided))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MESH\tVERTS\tTRIS\tMISSES\tACMR\tATVR")
	for _, job := range jobs {
		st := tristrip.AnalyzeList(job.Mesh.Indices(), tristrip.DefaultVertexCacheSize)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.3f\t%.3f\n",
			job.Mesh.Name, job.Mesh.VertexCount(), st.Triangles, st.CacheMisses, st.ACMR, st.ATVR)
	}
	return tw.Flush()
}

func cmdStrip(ctx context.Context, cfg *config.Config, args []string, w io.Writer) error {
	fs := newFlagSet("strip")
	out := fs.String("o", cfg.Pipeline.ReportFile, "Write the YAML report to this file (- for stdout)")
	twoSided := fs.Bool("two-sided", false, "Add back faces for two-sided RSM faces")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: stripify strip [-o report.yaml] <path>...", errUsage)
	}

	jobs, err := loadPaths(fs.Args(), loadOptions(cfg, *twoSided))
	if err != nil {
		return err
	}
	return stripJobs(ctx, cfg, jobs, *out, w)
}

func cmdGRF(ctx context.Context, cfg *config.Config, args []string, w io.Writer) error {
	fs := newFlagSet("grf")
	out := fs.String("o", cfg.Pipeline.ReportFile, "Write the YAML report to this file (- for stdout)")
	twoSided := fs.Bool("two-sided", false, "Add back faces for two-sided RSM faces")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pattern := "data/model/"
	if fs.NArg() > 0 {
		pattern = fs.Arg(0)
	}

	m := assets.NewManager()
	defer m.Close()
	for _, p := range cfg.Data.GRFPaths {
		if err := m.AddArchive(p); err != nil {
			return err
		}
	}

	jobs, err := pipeline.LoadArchive(m, pattern, loadOptions(cfg, *twoSided))
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no meshes match %q in %s", pattern, strings.Join(m.Archives(), ", "))
	}
	return stripJobs(ctx, cfg, jobs, *out, w)
}

func stripJobs(ctx context.Context, cfg *config.Config, jobs []pipeline.Job, out string, w io.Writer) error {
	reports, err := pipeline.Run(ctx, jobs, runOptions(cfg))
	if err != nil {
		return err
	}

	switch out {
	case "":
		printReports(w, reports)
	case "-":
		return pipeline.WriteReport(w, reports)
	default:
		if err := pipeline.WriteReportFile(out, reports); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		printReports(w, reports)
		fmt.Fprintf(w, "\nReport: %s\n", out)
	}
	return nil
}

func printReports(w io.Writer, reports []pipeline.Report) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MESH\tTRIS\tGROUPS\tINDICES\tACMR\t")
	for _, r := range reports {
		if r.Err != "" {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t%s\n", r.Name, r.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d -> %d\t%.3f -> %.3f\t\n",
			r.Name, r.After.Triangles, len(r.Groups),
			r.Before.Indices, r.After.Indices, r.Before.ACMR, r.After.ACMR)
	}
	tw.Flush()
	printSummary(w, pipeline.Summarize(reports))
}

func printSummary(w io.Writer, s pipeline.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Meshes:    %d (%d failed)\n", s.Meshes, s.Failed)
	fmt.Fprintf(w, "Triangles: %d\n", s.Triangles)
	fmt.Fprintf(w, "Indices:   %d -> %d\n", s.IndexBefore, s.IndexAfter)
	fmt.Fprintf(w, "ACMR:      %.3f -> %.3f\n", s.ACMRBefore, s.ACMRAfter)
}

func cmdInfo(args []string, w io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: stripify info <file.grf>", errUsage)
	}

	archive, err := grf.Open(args[0])
	if err != nil {
		return err
	}
	defer archive.Close()

	files := archive.List()

	extCount := make(map[string]int)
	var totalSize uint64
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f))
		if ext == "" {
			ext = "(no ext)"
		}
		extCount[ext]++
		if entry, err := archive.Stat(f); err == nil {
			totalSize += uint64(entry.UncompressedSize)
		}
	}

	fmt.Fprintf(w, "Archive: %s\n", args[0])
	fmt.Fprintf(w, "Files:   %d\n", len(files))
	fmt.Fprintf(w, "Size:    %.2f MB\n", float64(totalSize)/(1024*1024))
	fmt.Fprintf(w, "Meshes:  %d\n", extCount[".rsm"]+extCount[".obj"])
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Files by type:")

	type extStat struct {
		ext   string
		count int
	}
	var stats []extStat
	for ext, count := range extCount {
		stats = append(stats, extStat{ext, count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].ext < stats[j].ext
	})

	for _, s := range stats {
		fmt.Fprintf(w, "  %-10s %d\n", s.ext, s.count)
	}
	return nil
}

func cmdList(args []string, w io.Writer) error {
	fs := newFlagSet("list")
	limit := fs.Int("n", 0, "Limit output to N files (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: stripify list <file.grf> [pattern]", errUsage)
	}

	archive, err := grf.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer archive.Close()

	files := archive.List()
	if fs.NArg() > 1 {
		if files, err = archive.Glob(fs.Arg(1)); err != nil {
			return err
		}
	}

	for i, f := range files {
		if *limit > 0 && i >= *limit {
			break
		}
		fmt.Fprintln(w, f)
	}
	return nil
}

func cmdExtract(args []string, w io.Writer) error {
	fs := newFlagSet("extract")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("%w: stripify extract <file.grf> <pattern> [output_dir]", errUsage)
	}

	outputDir := "."
	if fs.NArg() > 2 {
		outputDir = fs.Arg(2)
	}

	archive, err := grf.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer archive.Close()

	files, err := archive.Glob(fs.Arg(1))
	if err != nil {
		return err
	}

	extracted := 0
	for _, f := range files {
		data, err := archive.Read(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", f, err)
			continue
		}

		// Preserve directory structure
		outputPath := filepath.Join(outputDir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outputPath, err)
		}

		fmt.Fprintf(w, "Extracted: %s\n", outputPath)
		extracted++
	}

	fmt.Fprintf(w, "\nExtracted %d files\n", extracted)
	return nil
}

func cmdConfig(cfg *config.Config, args []string, w io.Writer) error {
	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %s\n", args[0])
		return nil
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s\n", filepath.Join(config.ConfigDir(), "stripify.yaml"))
	return nil
}
