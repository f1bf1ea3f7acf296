package build

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gowebpki/jcs"

	"github.com/datenoio/internacia-db/pkg/dataset"
	"github.com/datenoio/internacia-db/pkg/emit"
	"github.com/datenoio/internacia-db/pkg/normalize"
)

// ManifestFile is the report written next to the artifacts.
const ManifestFile = "manifest.json"

// Violation is a record-level failure that excluded the record from
// the build.
type Violation struct {
	Ref     string `json:"ref"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Ref + ": " + v.Message
	}
	return v.Ref + ": " + v.Field + ": " + v.Message
}

// KindCounts holds one number per entity kind.
type KindCounts struct {
	Countries  int `json:"countries"`
	Intblocks  int `json:"intblocks"`
	Blocktypes int `json:"blocktypes"`
}

func (k KindCounts) Total() int { return k.Countries + k.Intblocks + k.Blocktypes }

// LogValue implements slog.LogValuer so stage logs carry the per-kind
// breakdown without spelling it out at every call site.
func (k KindCounts) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("countries", k.Countries),
		slog.Int("intblocks", k.Intblocks),
		slog.Int("blocktypes", k.Blocktypes),
	)
}

// Report is the full account of one build. It doubles as the
// manifest.json written into the output directory.
type Report struct {
	BuildID       string              `json:"build_id"`
	SchemaVersion string              `json:"schema_version"`
	StartedAt     time.Time           `json:"started_at"`
	FinishedAt    time.Time           `json:"finished_at"`
	State         State               `json:"state"`
	Loaded        KindCounts          `json:"loaded"`
	Valid         KindCounts          `json:"valid"`
	Emitted       KindCounts          `json:"emitted"`
	Resolved      int                 `json:"resolved_refs"`
	LoadErrors    []string            `json:"load_errors,omitempty"`
	Violations    []Violation         `json:"violations,omitempty"`
	Warnings      []normalize.Warning `json:"warnings,omitempty"`
	Artifacts     []emit.Artifact     `json:"artifacts"`
	EmitErrors    []string            `json:"emit_errors,omitempty"`
	CorpusSHA256  string              `json:"corpus_sha256"`
}

// Clean reports whether the build went through without dropping
// records, losing files or failing an emitter.
func (r *Report) Clean() bool {
	return len(r.LoadErrors) == 0 && len(r.Violations) == 0 && len(r.EmitErrors) == 0
}

// corpusChecksum hashes the normalized dataset independently of any
// output format. The JSON form is canonicalized per RFC 8785 first, so
// the digest only moves when the data does.
func corpusChecksum(schemaVersion string, ds *dataset.Dataset) (string, error) {
	doc := map[string]any{
		"schema_version": schemaVersion,
		"countries":      ds.Countries.Rows(),
		"intblocks":      ds.Blocks.Rows(),
		"blocktypes":     ds.BlockTypes.Rows(),
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func writeManifest(dir string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", ManifestFile, err)
	}
	return nil
}
