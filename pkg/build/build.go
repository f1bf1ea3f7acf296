// Package build runs the corpus pipeline: load the YAML sources,
// migrate and validate every record against the schema registry,
// normalize the survivors into typed tables and emit the published
// artifacts. A build only fails outright when a source location is
// missing or the output cannot be written; bad records and failing
// emitters are reported, not fatal.
package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/datenoio/internacia-db/pkg/corpus"
	"github.com/datenoio/internacia-db/pkg/dataset"
	"github.com/datenoio/internacia-db/pkg/emit"
	"github.com/datenoio/internacia-db/pkg/loader"
	"github.com/datenoio/internacia-db/pkg/normalize"
	"github.com/datenoio/internacia-db/pkg/schema"
)

// ErrSourceMissing marks a build aborted because a configured source
// directory or file does not exist.
var ErrSourceMissing = errors.New("source missing")

// State names the pipeline stage a build is in.
type State string

const (
	StateIdle        State = "idle"
	StateLoading     State = "loading"
	StateValidating  State = "validating"
	StateNormalizing State = "normalizing"
	StateEmitting    State = "emitting"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// Options configures a pipeline. All paths are required except
// SchemasDir, which overrides the embedded schema registry, and
// Formats, which defaults to every known format.
type Options struct {
	CountriesDir   string
	IntblocksDir   string
	BlocktypesFile string
	SchemasDir     string
	OutDir         string
	Formats        []string
	Logger         *slog.Logger
}

// Pipeline is a configured corpus build. It is single-use per Run but
// cheap to construct.
type Pipeline struct {
	opts     Options
	log      *slog.Logger
	registry *schema.Registry
	emitters []emit.Emitter
	state    State
}

// New resolves the schema registry and the emitter selection so that
// configuration mistakes surface before any work is done.
func New(opts Options) (*Pipeline, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	var (
		reg *schema.Registry
		err error
	)
	if opts.SchemasDir != "" {
		reg, err = schema.Load(os.DirFS(opts.SchemasDir))
	} else {
		reg, err = schema.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("load schemas: %w", err)
	}

	emitters, err := emit.ByNames(opts.Formats)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		opts:     opts,
		log:      log.With("component", "build"),
		registry: reg,
		emitters: emitters,
		state:    StateIdle,
	}, nil
}

// State reports the stage the pipeline is currently in.
func (p *Pipeline) State() State { return p.state }

// SchemaVersion reports the schema registry version the pipeline
// validates against.
func (p *Pipeline) SchemaVersion() string { return p.registry.Version() }

func (p *Pipeline) to(s State) {
	p.log.Debug("state change", "from", string(p.state), "to", string(s))
	p.state = s
}

// check runs the read-only stages shared by Run, Check and Inspect.
func (p *Pipeline) check(ctx context.Context) (*Report, *dataset.Dataset, *validated, error) {
	report := &Report{
		BuildID:       uuid.New().String(),
		SchemaVersion: p.registry.Version(),
		StartedAt:     time.Now().UTC(),
		State:         StateFailed,
	}
	p.log.Info("build started", "build_id", report.BuildID, "schema_version", report.SchemaVersion)

	src, err := p.load(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	v := p.validate(ctx, src, report)
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	ds := p.normalize(ctx, v, report)
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	sum, err := corpusChecksum(p.registry.Version(), ds)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("corpus checksum: %w", err)
	}
	report.CorpusSHA256 = sum
	return report, ds, v, nil
}

// Check runs everything except the emitters: load, migrate, validate,
// normalize and resolve. The report carries violations and warnings
// but no artifacts, and nothing is written.
func (p *Pipeline) Check(ctx context.Context) (*Report, error) {
	report, _, _, err := p.check(ctx)
	if err != nil {
		p.to(StateFailed)
		return nil, err
	}
	report.State = StateDone
	report.FinishedAt = time.Now().UTC()
	p.to(StateDone)
	return report, nil
}

// Run executes the full pipeline and writes the artifacts plus a
// manifest.json into OutDir. The returned report is complete even when
// individual emitters failed; Run returns an error only for missing
// sources, a canceled context or an unwritable output directory.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report, ds, _, err := p.check(ctx)
	if err != nil {
		p.to(StateFailed)
		return nil, err
	}

	if err := p.emit(ctx, ds, report); err != nil {
		p.to(StateFailed)
		return nil, err
	}

	report.State = StateDone
	report.FinishedAt = time.Now().UTC()
	if err := writeManifest(p.opts.OutDir, report); err != nil {
		report.State = StateFailed
		p.to(StateFailed)
		return report, fmt.Errorf("write manifest: %w", err)
	}

	p.to(StateDone)
	p.log.Info("build finished",
		"build_id", report.BuildID,
		"records", report.Emitted.Total(),
		"violations", len(report.Violations),
		"warnings", len(report.Warnings),
		"artifacts", len(report.Artifacts),
		"duration", report.FinishedAt.Sub(report.StartedAt).String(),
	)
	return report, nil
}

// Summary is the corpus overview behind the info command: what would
// load and validate right now, without touching the output directory.
type Summary struct {
	SchemaVersion string         `json:"schema_version"`
	Loaded        KindCounts     `json:"loaded"`
	Valid         KindCounts     `json:"valid"`
	Categories    map[string]int `json:"categories"`
	LoadErrors    int            `json:"load_errors"`
	Violations    int            `json:"violations"`
	Warnings      int            `json:"warnings"`
	Formats       []string       `json:"formats"`
}

// Inspect condenses a Check into the corpus overview behind the info
// command. Nothing is written.
func (p *Pipeline) Inspect(ctx context.Context) (*Summary, error) {
	report, _, v, err := p.check(ctx)
	if err != nil {
		p.to(StateFailed)
		return nil, err
	}

	categories := make(map[string]int)
	for _, rec := range v.blocks {
		categories[rec.Category]++
	}

	p.to(StateDone)
	return &Summary{
		SchemaVersion: p.registry.Version(),
		Loaded:        report.Loaded,
		Valid:         report.Valid,
		Categories:    categories,
		LoadErrors:    len(report.LoadErrors),
		Violations:    len(report.Violations),
		Warnings:      len(report.Warnings),
		Formats:       emit.Formats(),
	}, nil
}

type sources struct {
	countries  loader.Result
	blocks     loader.Result
	blocktypes loader.Result
}

func (p *Pipeline) load(ctx context.Context) (*sources, error) {
	p.to(StateLoading)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, dir := range []string{p.opts.CountriesDir, p.opts.IntblocksDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, dir)
		}
	}
	if _, err := os.Stat(p.opts.BlocktypesFile); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, p.opts.BlocktypesFile)
	}

	var src sources
	var err error
	src.countries, err = loader.LoadTree(os.DirFS(p.opts.CountriesDir), corpus.KindCountry, loader.Options{})
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	src.blocks, err = loader.LoadTree(os.DirFS(p.opts.IntblocksDir), corpus.KindBlock, loader.Options{DefaultCategory: "uncategorized"})
	if err != nil {
		return nil, fmt.Errorf("load intblocks: %w", err)
	}
	src.blocktypes, err = loader.LoadList(os.DirFS(filepath.Dir(p.opts.BlocktypesFile)), filepath.Base(p.opts.BlocktypesFile), corpus.KindBlockType)
	if err != nil {
		return nil, fmt.Errorf("load blocktypes: %w", err)
	}

	p.log.Info("sources loaded",
		"countries", len(src.countries.Records),
		"intblocks", len(src.blocks.Records),
		"blocktypes", len(src.blocktypes.Records),
		"errors", len(src.countries.Errors)+len(src.blocks.Errors)+len(src.blocktypes.Errors),
	)
	return &src, nil
}

type validated struct {
	countries  []corpus.Record
	blocks     []corpus.Record
	blocktypes []corpus.Record
}

// validate migrates, cleans and checks every record. Records that fail
// schema validation or reuse an already taken id are dropped and
// reported as violations; everything else passes through with at most
// warnings.
func (p *Pipeline) validate(ctx context.Context, src *sources, report *Report) *validated {
	p.to(StateValidating)

	for _, res := range []loader.Result{src.countries, src.blocks, src.blocktypes} {
		for _, e := range res.Errors {
			report.LoadErrors = append(report.LoadErrors, e.Error())
		}
	}

	v := &validated{
		countries:  p.checkRecords(src.countries.Records, report),
		blocks:     p.checkRecords(src.blocks.Records, report),
		blocktypes: p.checkRecords(src.blocktypes.Records, report),
	}
	report.Loaded = KindCounts{
		Countries:  len(src.countries.Records),
		Intblocks:  len(src.blocks.Records),
		Blocktypes: len(src.blocktypes.Records),
	}
	report.Valid = KindCounts{
		Countries:  len(v.countries),
		Intblocks:  len(v.blocks),
		Blocktypes: len(v.blocktypes),
	}
	p.log.Info("validation done",
		"valid", report.Valid,
		"dropped", report.Loaded.Total()-report.Valid.Total(),
		"violations", len(report.Violations),
	)
	return v
}

func (p *Pipeline) checkRecords(records []corpus.Record, report *Report) []corpus.Record {
	var kept []corpus.Record
	firstSource := make(map[string]string)

	for i := range records {
		rec := records[i]

		for _, note := range p.registry.Migrate(&rec) {
			report.Warnings = append(report.Warnings, normalize.Warning{Ref: rec.Ref(), Message: note})
		}
		report.Warnings = append(report.Warnings, normalize.Clean(&rec)...)

		if violations := p.registry.Validate(rec); len(violations) > 0 {
			for _, viol := range violations {
				report.Violations = append(report.Violations, Violation{
					Ref:     rec.Ref(),
					Field:   viol.Field,
					Message: viol.Message,
				})
			}
			p.log.Warn("record rejected", "record", rec.Ref(), "violations", len(violations))
			continue
		}

		id := rec.ID()
		if prev, taken := firstSource[id]; taken {
			report.Violations = append(report.Violations, Violation{
				Ref:     rec.Ref(),
				Field:   "/" + rec.Kind.IDField(),
				Message: fmt.Sprintf("duplicate %s %q already defined by %s", rec.Kind.IDField(), id, prev),
			})
			p.log.Warn("record rejected", "record", rec.Ref(), "duplicate_of", prev)
			continue
		}
		firstSource[id] = rec.Source

		report.Warnings = append(report.Warnings, lintRecord(rec)...)
		kept = append(kept, rec)
	}
	return kept
}

func (p *Pipeline) normalize(ctx context.Context, v *validated, report *Report) *dataset.Dataset {
	p.to(StateNormalizing)

	ds := dataset.New()
	var warns []normalize.Warning
	ds.Countries, warns = normalize.Countries(v.countries)
	report.Warnings = append(report.Warnings, warns...)
	ds.Blocks, warns = normalize.Blocks(v.blocks)
	report.Warnings = append(report.Warnings, warns...)
	ds.BlockTypes, warns = normalize.BlockTypes(v.blocktypes)
	report.Warnings = append(report.Warnings, warns...)

	res := normalize.Resolve(ds)
	report.Warnings = append(report.Warnings, res.Warnings...)
	report.Resolved = res.Resolved
	report.Emitted = KindCounts{
		Countries:  ds.Countries.Len(),
		Intblocks:  ds.Blocks.Len(),
		Blocktypes: ds.BlockTypes.Len(),
	}

	p.log.Info("normalization done",
		"records", report.Emitted,
		"resolved_refs", res.Resolved,
		"warnings", len(report.Warnings),
	)
	return ds
}

// emit runs every selected emitter concurrently. A failing emitter is
// recorded in the report and does not stop the others; only an
// unwritable output directory is fatal.
func (p *Pipeline) emit(ctx context.Context, ds *dataset.Dataset, report *Report) error {
	p.to(StateEmitting)

	if err := os.MkdirAll(p.opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	artifacts := make([][]emit.Artifact, len(p.emitters))
	failures := make([]error, len(p.emitters))

	var g errgroup.Group
	for i, e := range p.emitters {
		g.Go(func() error {
			start := time.Now()
			arts, err := e.Emit(ctx, ds, p.opts.OutDir)
			if err != nil {
				p.log.Error("emitter failed", "format", e.Format(), "error", err)
				failures[i] = err
				return nil
			}
			artifacts[i] = arts
			p.log.Info("format emitted", "format", e.Format(), "files", len(arts), "duration", time.Since(start).String())
			return nil
		})
	}
	g.Wait()

	for i, e := range p.emitters {
		report.Artifacts = append(report.Artifacts, artifacts[i]...)
		if failures[i] != nil {
			report.EmitErrors = append(report.EmitErrors, e.Format()+": "+failures[i].Error())
		}
	}
	return ctx.Err()
}
