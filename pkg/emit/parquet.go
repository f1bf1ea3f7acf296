package emit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/datenoio/internacia-db/pkg/corpus"
	"github.com/datenoio/internacia-db/pkg/dataset"
)

// Parquet writes one zstd-compressed Parquet file per collection.
type Parquet struct{}

func (Parquet) Format() string { return "parquet" }

// parquetCountry flattens the native name map into a list sorted by
// language, so column values do not depend on map iteration order.
type parquetCountry struct {
	corpus.Country
	NativeNames []parquetNativeName `parquet:"native_names,list"`
}

type parquetNativeName struct {
	Lang     string `parquet:"lang"`
	Official string `parquet:"official"`
	Common   string `parquet:"common"`
}

func parquetCountries(rows []corpus.Country) []parquetCountry {
	out := make([]parquetCountry, len(rows))
	for i, c := range rows {
		pc := parquetCountry{Country: c}
		for _, lang := range sortedLangs(c.NativeNames) {
			nn := c.NativeNames[lang]
			pc.NativeNames = append(pc.NativeNames, parquetNativeName{
				Lang:     lang,
				Official: nn.Official,
				Common:   nn.Common,
			})
		}
		out[i] = pc
	}
	return out
}

func (e Parquet) Emit(ctx context.Context, ds *dataset.Dataset, dir string) ([]Artifact, error) {
	var arts []Artifact
	steps := []func() (Artifact, error){
		func() (Artifact, error) {
			return writeParquet(dir, "countries.parquet", parquetCountries(ds.Countries.Rows()))
		},
		func() (Artifact, error) { return writeParquet(dir, "intblocks.parquet", ds.Blocks.Rows()) },
		func() (Artifact, error) { return writeParquet(dir, "blocktypes.parquet", ds.BlockTypes.Rows()) },
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

func writeParquet[T any](dir, name string, rows []T) (Artifact, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return Artifact{}, err
	}
	defer f.Close()

	cw := newCountingWriter(f)
	pw := parquet.NewGenericWriter[T](cw, parquet.Compression(&parquet.Zstd))
	if len(rows) > 0 {
		if _, err := pw.Write(rows); err != nil {
			return Artifact{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	if err := pw.Close(); err != nil {
		return Artifact{}, fmt.Errorf("%s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return Artifact{}, fmt.Errorf("%s: %w", name, err)
	}

	return Artifact{
		Path:    name,
		Format:  "parquet",
		Records: len(rows),
		Bytes:   cw.n,
		SHA256:  cw.sum(),
	}, nil
}
