package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/datenoio/internacia-db/pkg/dataset"
)

// JSONL writes one zstd-compressed JSON document per record, one file
// per collection.
type JSONL struct{}

func (JSONL) Format() string { return "jsonl" }

func (e JSONL) Emit(ctx context.Context, ds *dataset.Dataset, dir string) ([]Artifact, error) {
	var arts []Artifact
	steps := []func() (Artifact, error){
		func() (Artifact, error) { return writeJSONL(dir, "countries.jsonl.zst", ds.Countries.Rows()) },
		func() (Artifact, error) { return writeJSONL(dir, "intblocks.jsonl.zst", ds.Blocks.Rows()) },
		func() (Artifact, error) { return writeJSONL(dir, "blocktypes.jsonl.zst", ds.BlockTypes.Rows()) },
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return arts, err
		}
		a, err := step()
		if err != nil {
			return arts, err
		}
		arts = append(arts, a)
	}
	return arts, nil
}

func writeJSONL[T any](dir, name string, rows []T) (Artifact, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return Artifact{}, err
	}
	defer f.Close()

	cw := newCountingWriter(f)
	zw, err := zstdWriter(cw)
	if err != nil {
		return Artifact{}, err
	}

	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			zw.Close()
			return Artifact{}, fmt.Errorf("%s: %w", name, err)
		}
		if _, err := zw.Write(append(data, '\n')); err != nil {
			zw.Close()
			return Artifact{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return Artifact{}, fmt.Errorf("%s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return Artifact{}, fmt.Errorf("%s: %w", name, err)
	}

	return Artifact{
		Path:    name,
		Format:  "jsonl",
		Records: len(rows),
		Bytes:   cw.n,
		SHA256:  cw.sum(),
	}, nil
}
