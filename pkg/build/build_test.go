package build

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datenoio/internacia-db/pkg/dataset"
	"github.com/datenoio/internacia-db/pkg/emit"
	"github.com/datenoio/internacia-db/pkg/normalize"
)

func testOptions(t *testing.T, formats ...string) Options {
	t.Helper()
	return Options{
		CountriesDir:   filepath.Join("testdata", "corpus", "countries"),
		IntblocksDir:   filepath.Join("testdata", "corpus", "intblocks"),
		BlocktypesFile: filepath.Join("testdata", "corpus", "datasets", "blocktypes.yaml"),
		OutDir:         t.TempDir(),
		Formats:        formats,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func hasWarning(warns []normalize.Warning, ref, field, substr string) bool {
	for _, w := range warns {
		if w.Ref == ref && w.Field == field && strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}

func TestPipelineRun(t *testing.T) {
	opts := testOptions(t, "jsonl", "yaml")
	p, err := New(opts)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, p.State())

	rep, err := p.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rep)

	assert.Equal(t, StateDone, p.State())
	assert.Equal(t, StateDone, rep.State)
	assert.NotEmpty(t, rep.BuildID)
	assert.Equal(t, "2.1.0", rep.SchemaVersion)
	assert.False(t, rep.FinishedAt.Before(rep.StartedAt))

	assert.Equal(t, KindCounts{Countries: 4, Intblocks: 2, Blocktypes: 2}, rep.Loaded)
	assert.Equal(t, KindCounts{Countries: 2, Intblocks: 2, Blocktypes: 2}, rep.Valid)
	assert.Equal(t, rep.Valid, rep.Emitted)
	assert.Empty(t, rep.LoadErrors)
	assert.False(t, rep.Clean())

	require.Len(t, rep.Violations, 2)
	byRef := make(map[string]Violation)
	for _, v := range rep.Violations {
		byRef[v.Ref] = v
	}
	bad, ok := byRef["country XXX (xx.yaml)"]
	require.True(t, ok, "invalid code should be rejected")
	assert.Equal(t, "/code", bad.Field)
	dup, ok := byRef["country NO (no2.yaml)"]
	require.True(t, ok, "duplicate code should be rejected")
	assert.Equal(t, "/code", dup.Field)
	assert.Contains(t, dup.Message, "no.yaml")

	assert.True(t, hasWarning(rep.Warnings, "country SE (se.yaml)", "/borders/0", "restored"))
	assert.True(t, hasWarning(rep.Warnings, "intblock nordic_council (regional/nordic_council.yaml)", "/includes/0/id", `"NO"`))
	assert.True(t, hasWarning(rep.Warnings, "intblock nordic_council (regional/nordic_council.yaml)", "/founded", "coerced"))
	assert.True(t, hasWarning(rep.Warnings, "intblock legacy_pact (un/legacy_pact.yaml)", "", "translations renamed to other_names"))
	assert.True(t, hasWarning(rep.Warnings, "intblock legacy_pact (un/legacy_pact.yaml)", "/links/0/url", "not an absolute"))

	assert.GreaterOrEqual(t, rep.Resolved, 4)
	assert.Len(t, rep.Artifacts, 6)
	assert.Empty(t, rep.EmitErrors)
	assert.Len(t, rep.CorpusSHA256, 64)

	raw, err := os.ReadFile(filepath.Join(opts.OutDir, ManifestFile))
	require.NoError(t, err)
	var manifest Report
	require.NoError(t, json.Unmarshal(raw, &manifest))
	assert.Equal(t, rep.BuildID, manifest.BuildID)
	assert.Equal(t, rep.CorpusSHA256, manifest.CorpusSHA256)
	assert.Equal(t, rep.Emitted, manifest.Emitted)
}

func TestPipelineMissingSources(t *testing.T) {
	opts := testOptions(t, "jsonl")
	opts.CountriesDir = filepath.Join(t.TempDir(), "nope")

	p, err := New(opts)
	require.NoError(t, err)

	rep, err := p.Run(context.Background())
	assert.Nil(t, rep)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceMissing)
	assert.Equal(t, StateFailed, p.State())
}

func TestPipelineUnknownFormat(t *testing.T) {
	_, err := New(testOptions(t, "xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestPipelineChecksumStable(t *testing.T) {
	first, err := New(testOptions(t, "jsonl"))
	require.NoError(t, err)
	repA, err := first.Run(context.Background())
	require.NoError(t, err)

	second, err := New(testOptions(t, "jsonl"))
	require.NoError(t, err)
	repB, err := second.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, repA.CorpusSHA256, repB.CorpusSHA256)
	assert.NotEqual(t, repA.BuildID, repB.BuildID)
	require.Len(t, repB.Artifacts, len(repA.Artifacts))
	for i := range repA.Artifacts {
		assert.Equal(t, repA.Artifacts[i].SHA256, repB.Artifacts[i].SHA256, repA.Artifacts[i].Path)
	}
}

type failingEmitter struct{}

func (failingEmitter) Format() string { return "boom" }

func (failingEmitter) Emit(ctx context.Context, ds *dataset.Dataset, dir string) ([]emit.Artifact, error) {
	return nil, errors.New("disk full")
}

func TestPipelineEmitterFailureIsReported(t *testing.T) {
	p, err := New(testOptions(t, "jsonl"))
	require.NoError(t, err)
	p.emitters = append(p.emitters, failingEmitter{})

	rep, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, rep.State)
	require.Len(t, rep.EmitErrors, 1)
	assert.Contains(t, rep.EmitErrors[0], "boom: disk full")
	assert.Len(t, rep.Artifacts, 3)
	assert.False(t, rep.Clean())
}

func TestPipelineCanceled(t *testing.T) {
	p, err := New(testOptions(t, "jsonl"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := p.Run(ctx)
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, p.State())
}

func TestCheck(t *testing.T) {
	opts := testOptions(t)
	p, err := New(opts)
	require.NoError(t, err)

	rep, err := p.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, rep.State)
	assert.Len(t, rep.Violations, 2)
	assert.Empty(t, rep.Artifacts)
	assert.Empty(t, rep.EmitErrors)
	assert.Len(t, rep.CorpusSHA256, 64)

	entries, err := os.ReadDir(opts.OutDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "check must not write artifacts")
}

func TestInspect(t *testing.T) {
	opts := testOptions(t)
	p, err := New(opts)
	require.NoError(t, err)

	sum, err := p.Inspect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", sum.SchemaVersion)
	assert.Equal(t, KindCounts{Countries: 4, Intblocks: 2, Blocktypes: 2}, sum.Loaded)
	assert.Equal(t, KindCounts{Countries: 2, Intblocks: 2, Blocktypes: 2}, sum.Valid)
	assert.Equal(t, map[string]int{"regional": 1, "un": 1}, sum.Categories)
	assert.Equal(t, 2, sum.Violations)
	assert.Equal(t, 0, sum.LoadErrors)
	assert.Equal(t, emit.Formats(), sum.Formats)
	assert.Equal(t, StateDone, p.State())

	entries, err := os.ReadDir(opts.OutDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "inspect must not write artifacts")
}
