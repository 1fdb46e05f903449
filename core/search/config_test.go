package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/balzaczyy/gosearch/core/config"
)

func TestApplyConfig(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, ApplyConfig(config.Default()))
	})

	cfg := config.Default()
	cfg.Search.MaxClauseCount = 2
	cfg.Search.PrefixMaxTerms = 1
	cfg.Search.DefaultNumDocs = 1
	require.NoError(t, ApplyConfig(cfg))

	bq := NewBooleanQuery()
	require.Equal(t, 2, bq.MaxClauseCount())
	_, err := bq.Add(termQuery("a"), SHOULD)
	require.NoError(t, err)
	_, err = bq.Add(termQuery("b"), SHOULD)
	require.NoError(t, err)
	_, err = bq.Add(termQuery("c"), SHOULD)
	require.ErrorIs(t, err, ErrConfiguration)

	s := NewIndexSearcher(newTestIndex("quick", "quiet", "fox"))
	require.Len(t, matchingDocs(t, s, NewPrefixQuery(body, "qu")), 1)

	td, err := s.Search(NewMatchAllQuery(), nil)
	require.NoError(t, err)
	require.Equal(t, 3, td.TotalHits)
	require.Len(t, td.ScoreDocs, 1)
}

func TestApplyInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Search.MaxClauseCount = 0
	require.ErrorIs(t, ApplyConfig(cfg), ErrConfiguration)
	require.Equal(t, 1024, DefaultMaxClauseCount)
}
