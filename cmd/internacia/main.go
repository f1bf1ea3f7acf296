// Command internacia builds the Internacia data corpus: it loads the
// YAML sources, migrates and validates them against the schema
// registry and emits the published artifact formats.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/datenoio/internacia-db/pkg/build"
	"github.com/datenoio/internacia-db/pkg/config"
)

const version = "1.2.0"

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the dispatcher, split from main for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stderr)
		return 2
	}

	switch args[1] {
	case "build":
		return runBuildCmd(args[2:], stdout, stderr)
	case "validate":
		return runValidateCmd(args[2:], stdout, stderr)
	case "info":
		return runInfoCmd(args[2:], stdout, stderr)
	case "version", "--version":
		fmt.Fprintf(stdout, "internacia %s\n", version)
		return 0
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "internacia - build pipeline for the Internacia data corpus")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  internacia build    [flags]   build the corpus and emit all artifacts")
	fmt.Fprintln(w, "  internacia validate [flags]   check the corpus without emitting anything")
	fmt.Fprintln(w, "  internacia info     [flags]   print a corpus summary")
	fmt.Fprintln(w, "  internacia version            print the version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  %s    corpus root (default data)\n", config.EnvDataDir)
	fmt.Fprintf(w, "  %s     artifact directory (default dist)\n", config.EnvOutDir)
	fmt.Fprintf(w, "  %s embedded schema override\n", config.EnvSchemasDir)
	fmt.Fprintf(w, "  %s   debug, info, warn or error\n", config.EnvLogLevel)
	fmt.Fprintf(w, "  %s     comma-separated format selection\n", config.EnvFormats)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'internacia <command> -h' for command flags.")
}

// sourceFlags are the corpus location flags shared by every command.
type sourceFlags struct {
	dataDir    string
	countries  string
	intblocks  string
	blocktypes string
	schemas    string
}

func (s *sourceFlags) register(cmd *flag.FlagSet, cfg config.Config) {
	cmd.StringVar(&s.dataDir, "data", cfg.DataDir, "corpus root directory")
	cmd.StringVar(&s.countries, "countries", "", "countries tree (default <data>/countries)")
	cmd.StringVar(&s.intblocks, "intblocks", "", "intblocks tree (default <data>/intblocks)")
	cmd.StringVar(&s.blocktypes, "blocktypes", "", "block type list (default <data>/datasets/blocktypes.yaml)")
	cmd.StringVar(&s.schemas, "schemas", cfg.SchemasDir, "schema registry directory (default embedded)")
}

// options resolves the explicit per-tree flags over the data root.
func (s *sourceFlags) options(cfg config.Config) build.Options {
	cfg.DataDir = s.dataDir
	opts := build.Options{
		CountriesDir:   cfg.CountriesDir(),
		IntblocksDir:   cfg.IntblocksDir(),
		BlocktypesFile: cfg.BlocktypesFile(),
		SchemasDir:     s.schemas,
	}
	if s.countries != "" {
		opts.CountriesDir = s.countries
	}
	if s.intblocks != "" {
		opts.IntblocksDir = s.intblocks
	}
	if s.blocktypes != "" {
		opts.BlocktypesFile = s.blocktypes
	}
	return opts
}

func newLogger(stderr io.Writer, cfg config.Config, levelFlag string, quiet bool) (*slog.Logger, error) {
	level := cfg.LogLevel
	if levelFlag != "" {
		parsed, err := config.ParseLevel(levelFlag)
		if err != nil {
			return nil, err
		}
		level = parsed
	}
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})), nil
}
