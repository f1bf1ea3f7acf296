package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datenoio/internacia-db/pkg/corpus"
)

func TestTableAppendAndLookup(t *testing.T) {
	tbl := NewTable[corpus.Country]()
	require.NoError(t, tbl.Append("NO", corpus.Country{Code: "NO", Name: "Norway"}))
	require.NoError(t, tbl.Append("SE", corpus.Country{Code: "SE", Name: "Sweden"}))

	assert.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Has("NO"))
	assert.False(t, tbl.Has("FI"))

	got, ok := tbl.Get("SE")
	require.True(t, ok)
	assert.Equal(t, "Sweden", got.Name)

	_, ok = tbl.Get("FI")
	assert.False(t, ok)
}

func TestTableRejectsDuplicateKeepsFirst(t *testing.T) {
	tbl := NewTable[corpus.Block]()
	require.NoError(t, tbl.Append("eu", corpus.Block{ID: "eu", Name: "European Union"}))

	err := tbl.Append("eu", corpus.Block{ID: "eu", Name: "impostor"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))

	got, ok := tbl.Get("eu")
	require.True(t, ok)
	assert.Equal(t, "European Union", got.Name, "first row must survive a duplicate append")
	assert.Equal(t, 1, tbl.Len())
}

func TestTablePreservesInsertionOrder(t *testing.T) {
	tbl := NewTable[corpus.Block]()
	ids := []string{"un", "eu", "asean", "au", "wto"}
	for _, id := range ids {
		require.NoError(t, tbl.Append(id, corpus.Block{ID: id}))
	}

	assert.Equal(t, ids, tbl.IDs())
	for i, row := range tbl.Rows() {
		assert.Equal(t, ids[i], row.ID)
	}
}

func TestDatasetCounts(t *testing.T) {
	ds := New()
	require.NoError(t, ds.Countries.Append("NO", corpus.Country{Code: "NO"}))
	require.NoError(t, ds.Blocks.Append("eu", corpus.Block{ID: "eu"}))
	require.NoError(t, ds.Blocks.Append("un", corpus.Block{ID: "un"}))

	counts := ds.Counts()
	assert.Equal(t, 1, counts["countries"])
	assert.Equal(t, 2, counts["intblocks"])
	assert.Equal(t, 0, counts["blocktypes"])
}
