package search

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomHits(rnd *rand.Rand, n int) []*ScoreDoc {
	hits := make([]*ScoreDoc, n)
	for i := range hits {
		// few distinct scores, so ties are common
		hits[i] = newScoreDoc(i, float32(1+rnd.Intn(5)))
	}
	return hits
}

func bestFirst(hits []*ScoreDoc) []*ScoreDoc {
	sorted := append([]*ScoreDoc(nil), hits...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Doc < sorted[j].Doc
	})
	return sorted
}

func TestTopScoreDocCollectorWindows(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for iter := 0; iter < 100; iter++ {
		n := 1 + rnd.Intn(50)
		hits := randomHits(rnd, n)
		expected := bestFirst(hits)

		start, howMany := rnd.Intn(n+5), 1+rnd.Intn(n+5)
		c := NewTopScoreDocCollector(start + howMany)
		for _, i := range rnd.Perm(n) {
			c.Collect(hits[i].Doc, hits[i].Score)
		}
		td := c.TopDocsRange(start, howMany)

		require.Equal(t, n, td.TotalHits)
		require.Equal(t, expected[0].Score, td.MaxScore)
		if start >= n {
			require.NotNil(t, td.ScoreDocs)
			require.Empty(t, td.ScoreDocs)
			continue
		}
		end := start + howMany
		if end > n {
			end = n
		}
		require.Len(t, td.ScoreDocs, end-start, "iteration %v", iter)
		for i, hit := range td.ScoreDocs {
			want := expected[start+i]
			require.Equal(t, want.Doc, hit.Doc, "iteration %v, rank %v", iter, start+i)
			require.Equal(t, want.Score, hit.Score)
		}
	}
}

func TestTopScoreDocCollectorLargerQueue(t *testing.T) {
	c := NewTopScoreDocCollector(10)
	for doc, score := range []float32{1, 5, 3, 5, 2, 4} {
		c.Collect(doc, score)
	}
	// ranks: 1, 3, 5, 2, 4, 0
	td := c.TopDocsRange(2, 3)
	require.Equal(t, []int{5, 2, 4}, topDocIds(td))
	require.Equal(t, 6, td.TotalHits)
	require.Equal(t, float32(5), td.MaxScore)
}

func TestTopScoreDocCollectorEdgeCases(t *testing.T) {
	c := NewTopScoreDocCollector(0)
	c.Collect(0, 1)
	c.Collect(1, 2)
	td := c.TopDocs()
	require.Equal(t, 2, td.TotalHits)
	require.Equal(t, float32(2), td.MaxScore)
	require.Empty(t, td.ScoreDocs)

	c = NewTopScoreDocCollector(3)
	td = c.TopDocs()
	require.Equal(t, 0, td.TotalHits)
	require.Equal(t, float32(0), td.MaxScore)
	require.Empty(t, td.ScoreDocs)

	c = NewTopScoreDocCollector(3)
	c.Collect(0, 1)
	require.Empty(t, c.TopDocsRange(0, 0).ScoreDocs)
}

func TestTopScoreDocCollectorKeepsBest(t *testing.T) {
	c := NewTopScoreDocCollector(2)
	c.Collect(0, 1)
	c.Collect(1, 1)
	c.Collect(2, 1) // loses the tie against earlier docs
	c.Collect(3, 0.5)
	c.Collect(4, 2)
	require.Equal(t, []int{4, 0}, topDocIds(c.TopDocs()))
}

func TestHitLess(t *testing.T) {
	require.True(t, hitLess(newScoreDoc(0, 1), newScoreDoc(1, 2)))
	require.False(t, hitLess(newScoreDoc(1, 2), newScoreDoc(0, 1)))
	// equal scores: the later document is worse
	require.True(t, hitLess(newScoreDoc(5, 1), newScoreDoc(3, 1)))
	require.False(t, hitLess(newScoreDoc(3, 1), newScoreDoc(5, 1)))
}
