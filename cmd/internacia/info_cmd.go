package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/datenoio/internacia-db/pkg/build"
	"github.com/datenoio/internacia-db/pkg/config"
)

// runInfoCmd implements `internacia info`: a read-only corpus summary.
//
// Exit codes:
//
//	0 = summary printed
//	1 = sources missing or unreadable
//	2 = usage error
func runInfoCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("info", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	cfg, err := config.FromEnv()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	var src sourceFlags
	src.register(cmd, cfg)

	var (
		levelStr string
		jsonOut  bool
	)
	cmd.StringVar(&levelStr, "log-level", "", "log threshold: debug, info, warn or error")
	cmd.BoolVar(&jsonOut, "json", false, "print the summary as JSON")

	if err := cmd.Parse(args); err != nil {
		return 2
	}

	// info is a glance, keep the pipeline logs out of the way unless
	// asked for.
	if levelStr == "" && os.Getenv(config.EnvLogLevel) == "" {
		cfg.LogLevel = slog.LevelWarn
	}
	log, err := newLogger(stderr, cfg, levelStr, false)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	opts := src.options(cfg)
	opts.Logger = log

	p, err := build.New(opts)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := p.Inspect(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Fprintf(stdout, "schema      %s\n", sum.SchemaVersion)
	fmt.Fprintf(stdout, "countries   %d of %d valid\n", sum.Valid.Countries, sum.Loaded.Countries)
	fmt.Fprintf(stdout, "intblocks   %d of %d valid\n", sum.Valid.Intblocks, sum.Loaded.Intblocks)
	fmt.Fprintf(stdout, "blocktypes  %d of %d valid\n", sum.Valid.Blocktypes, sum.Loaded.Blocktypes)
	fmt.Fprintf(stdout, "categories  %s\n", formatCategories(sum.Categories))
	fmt.Fprintf(stdout, "formats     %s\n", strings.Join(sum.Formats, ", "))
	if sum.LoadErrors > 0 {
		fmt.Fprintf(stdout, "unreadable  %d file(s)\n", sum.LoadErrors)
	}
	if sum.Violations > 0 {
		fmt.Fprintf(stdout, "violations  %d\n", sum.Violations)
	}
	if sum.Warnings > 0 {
		fmt.Fprintf(stdout, "warnings    %d\n", sum.Warnings)
	}
	return 0
}

func formatCategories(cats map[string]int) string {
	if len(cats) == 0 {
		return "none"
	}
	names := make([]string, 0, len(cats))
	for name := range cats {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s (%d)", name, cats[name])
	}
	return strings.Join(parts, ", ")
}
