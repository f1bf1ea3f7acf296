// Package emit writes the normalized dataset out in the published
// artifact formats: line-delimited JSON, YAML, Parquet and embedded
// databases (DuckDB and SQLite). Emitters are independent of each
// other and deterministic: the same dataset produces byte-identical
// artifacts on every run.
package emit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/datenoio/internacia-db/pkg/dataset"
)

// Artifact describes one emitted output file.
type Artifact struct {
	Path    string `json:"path"`
	Format  string `json:"format"`
	Records int    `json:"records"`
	Bytes   int64  `json:"bytes"`
	SHA256  string `json:"sha256"`
}

// Emitter writes one output format into a directory. Existing files
// are overwritten without asking; the output directory is build-owned.
type Emitter interface {
	Format() string
	Emit(ctx context.Context, ds *dataset.Dataset, dir string) ([]Artifact, error)
}

// All returns the built-in emitters in canonical order.
func All() []Emitter {
	return []Emitter{JSONL{}, YAML{}, Parquet{}, DuckDB{}, SQLite{}}
}

// Formats lists the known format names in canonical order.
func Formats() []string {
	all := All()
	names := make([]string, len(all))
	for i, e := range all {
		names[i] = e.Format()
	}
	return names
}

// ByNames selects emitters by format name, keeping the requested order
// and ignoring repeats. An empty selection means all formats.
func ByNames(names []string) ([]Emitter, error) {
	if len(names) == 0 {
		return All(), nil
	}
	byFormat := make(map[string]Emitter)
	for _, e := range All() {
		byFormat[e.Format()] = e
	}

	var out []Emitter
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" || seen[name] {
			continue
		}
		e, ok := byFormat[name]
		if !ok {
			return nil, fmt.Errorf("unknown format %q (known: %s)", name, strings.Join(Formats(), ", "))
		}
		seen[name] = true
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no formats selected (known: %s)", strings.Join(Formats(), ", "))
	}
	return out, nil
}

// zstdWriter wraps w at the highest compression level. A single
// encoder goroutine keeps the frame layout identical across runs.
func zstdWriter(w io.Writer) (*zstd.Encoder, error) {
	return zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		zstd.WithEncoderConcurrency(1),
	)
}

// countingWriter hashes and counts everything written through it.
type countingWriter struct {
	w io.Writer
	h hash.Hash
	n int64
}

func newCountingWriter(w io.Writer) *countingWriter {
	return &countingWriter{w: w, h: sha256.New()}
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.h.Write(p[:n])
	cw.n += int64(n)
	return n, err
}

func (cw *countingWriter) sum() string {
	return hex.EncodeToString(cw.h.Sum(nil))
}

// fileArtifact hashes an already written file, for emitters that go
// through a database engine instead of an io.Writer.
func fileArtifact(dir, name, format string, records int) (Artifact, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return Artifact{}, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Path:    name,
		Format:  format,
		Records: records,
		Bytes:   n,
		SHA256:  hex.EncodeToString(h.Sum(nil)),
	}, nil
}

func sortedLangs[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
