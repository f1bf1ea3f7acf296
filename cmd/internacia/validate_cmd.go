package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/datenoio/internacia-db/pkg/build"
	"github.com/datenoio/internacia-db/pkg/config"
)

// runValidateCmd implements `internacia validate`: the full pipeline
// minus the emitters, so CI can gate on corpus health without
// producing artifacts.
//
// Exit codes:
//
//	0 = every record loaded and validated
//	1 = unreadable files or schema violations
//	2 = usage error
func runValidateCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("validate", flag.ContinueOnError)
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
		quiet    bool
		verbose  bool
	)
	cmd.StringVar(&levelStr, "log-level", "", "log threshold: debug, info, warn or error")
	cmd.BoolVar(&jsonOut, "json", false, "print the validation report as JSON")
	cmd.BoolVar(&quiet, "quiet", false, "only log errors")
	cmd.BoolVar(&verbose, "v", false, "also print per-record warnings")
	cmd.BoolVar(&verbose, "verbose", false, "also print per-record warnings")

	if err := cmd.Parse(args); err != nil {
		return 2
	}

	log, err := newLogger(stderr, cfg, levelStr, quiet)
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

	rep, err := p.Check(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	} else {
		for _, e := range rep.LoadErrors {
			fmt.Fprintf(stdout, "error: %s\n", e)
		}
		for _, v := range rep.Violations {
			fmt.Fprintf(stdout, "violation: %s\n", v)
		}
		if verbose {
			for _, w := range rep.Warnings {
				fmt.Fprintf(stdout, "warning: %s\n", w)
			}
		}
		fmt.Fprintf(stdout, "%d records checked: %d valid, %d violations, %d warnings\n",
			rep.Loaded.Total(), rep.Valid.Total(), len(rep.Violations), len(rep.Warnings))
	}

	if len(rep.LoadErrors) > 0 || len(rep.Violations) > 0 {
		return 1
	}
	return 0
}
