package emit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/datenoio/internacia-db/pkg/dataset"
)

// YAML writes each collection as one zstd-compressed YAML list, the
// same markup the sources use. Scalars that YAML would misread as
// booleans come out quoted, so artifacts reload cleanly.
type YAML struct{}

func (YAML) Format() string { return "yaml" }

func (e YAML) Emit(ctx context.Context, ds *dataset.Dataset, dir string) ([]Artifact, error) {
	var arts []Artifact
	steps := []func() (Artifact, error){
		func() (Artifact, error) { return writeYAML(dir, "countries.yaml.zst", ds.Countries.Rows()) },
		func() (Artifact, error) { return writeYAML(dir, "intblocks.yaml.zst", ds.Blocks.Rows()) },
		func() (Artifact, error) { return writeYAML(dir, "blocktypes.yaml.zst", ds.BlockTypes.Rows()) },
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

func writeYAML[T any](dir, name string, rows []T) (Artifact, error) {
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

	data, err := yaml.Marshal(rows)
	if err != nil {
		zw.Close()
		return Artifact{}, fmt.Errorf("%s: %w", name, err)
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return Artifact{}, fmt.Errorf("%s: %w", name, err)
	}
	if err := zw.Close(); err != nil {
		return Artifact{}, fmt.Errorf("%s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return Artifact{}, fmt.Errorf("%s: %w", name, err)
	}

	return Artifact{
		Path:    name,
		Format:  "yaml",
		Records: len(rows),
		Bytes:   cw.n,
		SHA256:  cw.sum(),
	}, nil
}
