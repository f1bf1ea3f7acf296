package emit

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuckDBEmitFile(t *testing.T) {
	dir := t.TempDir()
	ds := testDataset(t)

	arts, err := DuckDB{}.Emit(context.Background(), ds, dir)
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, duckdbFile, arts[0].Path)
	assert.Equal(t, "duckdb", arts[0].Format)
	assert.Equal(t, 4, arts[0].Records)
	checkArtifact(t, dir, arts[0])

	db, err := sql.Open("duckdb", filepath.Join(dir, duckdbFile))
	require.NoError(t, err)
	defer db.Close()

	for table, want := range map[string]int{"countries": 2, "intblocks": 1, "blocktypes": 1} {
		var n int
		require.NoError(t, db.QueryRow(`SELECT count(*) FROM `+table).Scan(&n))
		assert.Equal(t, want, n, table)
	}

	var name string
	var population int64
	require.NoError(t, db.QueryRow(`SELECT name, population FROM countries WHERE code = 'NO'`).Scan(&name, &population))
	assert.Equal(t, "Norway", name)
	assert.Equal(t, int64(5425270), population)

	var capital string
	require.NoError(t, db.QueryRow(`SELECT capital_city.name FROM countries WHERE code = 'NO'`).Scan(&capital))
	assert.Equal(t, "Oslo", capital)

	var border string
	var borders int64
	require.NoError(t, db.QueryRow(`SELECT borders[1], len(borders) FROM countries WHERE code = 'NO'`).Scan(&border, &borders))
	assert.Equal(t, "SE", border)
	assert.Equal(t, int64(3), borders)

	var lang string
	require.NoError(t, db.QueryRow(`SELECT native_names[1].lang FROM countries WHERE code = 'NO'`).Scan(&lang))
	assert.Equal(t, "nno", lang)

	var giniValue float64
	require.NoError(t, db.QueryRow(`SELECT gini."value" FROM countries WHERE code = 'NO'`).Scan(&giniValue))
	assert.InDelta(t, 27.7, giniValue, 1e-9)

	var noCapital bool
	require.NoError(t, db.QueryRow(`SELECT capital_city IS NULL FROM countries WHERE code = 'SE'`).Scan(&noCapital))
	assert.True(t, noCapital)

	var member string
	require.NoError(t, db.QueryRow(`SELECT includes[1].id FROM intblocks WHERE id = 'nordic_council'`).Scan(&member))
	assert.Equal(t, "NO", member)

	var localized string
	require.NoError(t, db.QueryRow(`SELECT other_names[1].name FROM blocktypes WHERE id = 'council'`).Scan(&localized))
	assert.Equal(t, "Konsilio", localized)
}

// Emitting over a previous database must start clean, not append.
func TestDuckDBEmitOverwrites(t *testing.T) {
	dir := t.TempDir()
	ds := testDataset(t)

	_, err := DuckDB{}.Emit(context.Background(), ds, dir)
	require.NoError(t, err)
	_, err = DuckDB{}.Emit(context.Background(), ds, dir)
	require.NoError(t, err)

	db, err := sql.Open("duckdb", filepath.Join(dir, duckdbFile))
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM countries`).Scan(&n))
	assert.Equal(t, 2, n)
}
