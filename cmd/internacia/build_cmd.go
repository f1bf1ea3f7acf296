package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/datenoio/internacia-db/pkg/build"
	"github.com/datenoio/internacia-db/pkg/config"
)

// runBuildCmd implements `internacia build`.
//
// Exit codes:
//
//	0 = build completed; record violations and failing emitters are
//	    reported in the manifest, not fatal
//	1 = build aborted: missing sources or unwritable output
//	2 = usage error
func runBuildCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("build", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	cfg, err := config.FromEnv()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	var src sourceFlags
	src.register(cmd, cfg)

	envFormats := strings.Join(cfg.Formats, ",")
	var (
		outDir   string
		formats  string
		levelStr string
		jsonOut  bool
		quiet    bool
	)
	cmd.StringVar(&outDir, "out", cfg.OutDir, "artifact output directory")
	cmd.StringVar(&outDir, "o", cfg.OutDir, "artifact output directory (shorthand)")
	cmd.StringVar(&formats, "formats", envFormats, "comma-separated output formats (default all)")
	cmd.StringVar(&formats, "f", envFormats, "output formats (shorthand)")
	cmd.StringVar(&levelStr, "log-level", "", "log threshold: debug, info, warn or error")
	cmd.BoolVar(&jsonOut, "json", false, "print the build report as JSON")
	cmd.BoolVar(&quiet, "quiet", false, "only log errors")

	if err := cmd.Parse(args); err != nil {
		return 2
	}

	log, err := newLogger(stderr, cfg, levelStr, quiet)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	opts := src.options(cfg)
	opts.OutDir = outDir
	opts.Formats = config.SplitList(formats)
	opts.Logger = log

	p, err := build.New(opts)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := p.Run(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: build failed: %v\n", err)
		return 1
	}

	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	printReport(stdout, rep, outDir)
	return 0
}

func printReport(w io.Writer, rep *build.Report, outDir string) {
	fmt.Fprintf(w, "build %s %s in %s\n", rep.BuildID, rep.State, rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(w, "  schema    %s\n", rep.SchemaVersion)
	fmt.Fprintf(w, "  records   %d countries, %d intblocks, %d blocktypes\n",
		rep.Emitted.Countries, rep.Emitted.Intblocks, rep.Emitted.Blocktypes)
	if dropped := rep.Loaded.Total() - rep.Valid.Total(); dropped > 0 {
		fmt.Fprintf(w, "  dropped   %d record(s), %d violation(s)\n", dropped, len(rep.Violations))
	}
	if len(rep.LoadErrors) > 0 {
		fmt.Fprintf(w, "  unreadable %d file(s)\n", len(rep.LoadErrors))
	}
	fmt.Fprintf(w, "  warnings  %d\n", len(rep.Warnings))
	fmt.Fprintf(w, "  corpus    sha256:%s\n", rep.CorpusSHA256)
	for _, a := range rep.Artifacts {
		fmt.Fprintf(w, "  %-26s %10d B  %s\n", a.Path, a.Bytes, shortHash(a.SHA256))
	}
	for _, e := range rep.EmitErrors {
		fmt.Fprintf(w, "  emit failed: %s\n", e)
	}
	fmt.Fprintf(w, "  manifest  %s\n", filepath.Join(outDir, build.ManifestFile))
}

func shortHash(s string) string {
	if len(s) > 12 {
		return s[:12]
	}
	return s
}
