package spans

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
	"github.com/balzaczyy/gosearch/core/search"
	. "github.com/balzaczyy/gosearch/core/search/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const field = "field"

func newIndex(texts ...string) *index.MemoryIndex {
	mi := index.NewMemoryIndex()
	for _, text := range texts {
		mi.AddDocument(index.NewDocument().Add(field, text))
	}
	return mi
}

type span struct {
	doc, start, end int
}

func (s span) String() string {
	return fmt.Sprintf("%v:%v-%v", s.doc, s.start, s.end)
}

func collectSpans(t *testing.T, q SpanQuery, r index.IndexReader) (ans []span) {
	rq, err := q.Rewrite(r)
	require.NoError(t, err)
	spans, err := rq.(SpanQuery).Spans(r)
	require.NoError(t, err)
	defer spans.Close()
	for spans.Next() {
		ans = append(ans, span{spans.Doc(), spans.Start(), spans.End()})
	}
	assert.Equal(t, NO_MORE_DOCS, spans.Doc())
	assert.False(t, spans.Next(), "exhausted spans must stay exhausted")
	return
}

func spanDocs(spans []span) (docs []int) {
	for _, s := range spans {
		if n := len(docs); n == 0 || docs[n-1] != s.doc {
			docs = append(docs, s.doc)
		}
	}
	return
}

func term(text string) *SpanTermQuery {
	return NewSpanTermQuery(field, text)
}

func near(t *testing.T, slop int, inOrder bool, clauses ...SpanQuery) *SpanNearQuery {
	q, err := NewSpanNearQuery(slop, inOrder, clauses...)
	require.NoError(t, err)
	return q
}

func TestSpanTermQuery(t *testing.T) {
	r := newIndex("the quick brown fox", "quick quick", "slow")
	assert.Equal(t,
		[]span{{0, 1, 2}, {1, 0, 1}, {1, 1, 2}},
		collectSpans(t, term("quick"), r))
	assert.Empty(t, collectSpans(t, term("missing"), r))
}

func TestSpanTermSkipTo(t *testing.T) {
	r := newIndex("a", "b", "a b a", "a")
	spans, err := term("a").Spans(r)
	require.NoError(t, err)
	require.True(t, spans.SkipTo(1))
	assert.Equal(t, span{2, 0, 1}, span{spans.Doc(), spans.Start(), spans.End()})
	require.True(t, spans.SkipTo(2), "skipping to the current doc must not move")
	assert.Equal(t, 0, spans.Start())
	require.True(t, spans.Next())
	assert.Equal(t, span{2, 2, 3}, span{spans.Doc(), spans.Start(), spans.End()})
	assert.False(t, spans.SkipTo(4))
	assert.Equal(t, NO_MORE_DOCS, spans.Doc())
}

func TestSpanMultiTermQuery(t *testing.T) {
	r := newIndex("quick quiet fox", "fox quick")
	q := NewSpanMultiTermQuery(field).AddTerm("quick").AddTerm("quiet").AddTerm("quick")
	assert.Equal(t,
		[]span{{0, 0, 1}, {0, 1, 2}, {1, 1, 2}},
		collectSpans(t, q, r), "coinciding terms yield a single span")
	assert.Equal(t, []string{"quick", "quiet"}, q.SpanTerms())
	assert.Equal(t, "span_terms(field:[quick,quiet,quick])", q.String())
	assert.Equal(t, "span_terms([quick,quiet,quick])", q.ToString(field))

	full := NewSpanMultiTermQueryConf(field, 1).AddTerm("quick").AddTerm("quiet")
	assert.Equal(t, []string{"quick"}, full.Terms())
}

func TestSpanPrefixQuery(t *testing.T) {
	r := newIndex("quick quiet fox", "fox quack", "queue")
	q := NewSpanPrefixQuery(field, "qui")
	assert.Equal(t, "field:qui*", q.String())

	rq, err := q.Rewrite(r)
	require.NoError(t, err)
	mtq, ok := rq.(*SpanMultiTermQuery)
	require.True(t, ok)
	assert.Equal(t, []string{"quick", "quiet"}, mtq.Terms())

	_, err = q.Spans(r)
	assert.ErrorIs(t, err, search.ErrArgument)

	q.SetMaxTerms(1)
	rq, err = q.Rewrite(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"quick"}, rq.(*SpanMultiTermQuery).Terms())

	s := search.NewIndexSearcher(r)
	_, err = s.Search(NewSpanPrefixQuery("nofield", "q"), nil)
	assert.NoError(t, err)
}

func TestSpanFirstQuery(t *testing.T) {
	r := newIndex("a b c", "c b a", "b b b a")
	q := NewSpanFirstQuery(term("a"), 2)
	assert.Equal(t, []span{{0, 0, 1}}, collectSpans(t, q, r))
	q = NewSpanFirstQuery(term("b"), 2)
	assert.Equal(t, []span{{0, 1, 2}, {1, 1, 2}, {2, 0, 1}, {2, 1, 2}}, collectSpans(t, q, r))
	assert.Equal(t, "span_first(span_terms(field:b), 2)", q.String())
}

func TestSpanOrQuery(t *testing.T) {
	r := newIndex("a b c", "c", "b a")
	q, err := NewSpanOrQuery(term("c"), term("a"))
	require.NoError(t, err)
	assert.Equal(t,
		[]span{{0, 0, 1}, {0, 2, 3}, {1, 0, 1}, {2, 1, 2}},
		collectSpans(t, q, r))
	assert.Equal(t, "span_or[span_terms(field:c),span_terms(field:a)]", q.String())
	assert.Equal(t, []string{"c", "a"}, q.SpanTerms())

	spans, err := q.Spans(r)
	require.NoError(t, err)
	assert.Equal(t, -1, spans.Doc())
	require.True(t, spans.SkipTo(1))
	assert.Equal(t, 1, spans.Doc())
	require.NoError(t, spans.Close())
}

func TestSpanNearQuery(t *testing.T) {
	r := newIndex("a b c", "b a c", "a x b", "a x x b", "b")
	a, b := term("a"), term("b")

	assert.Equal(t, []span{{0, 0, 2}}, collectSpans(t, near(t, 0, true, a, b), r))
	assert.Equal(t, []span{{0, 0, 2}, {1, 0, 2}}, collectSpans(t, near(t, 0, false, a, b), r))
	assert.Equal(t, []span{{0, 0, 2}, {2, 0, 3}}, collectSpans(t, near(t, 1, true, a, b), r))
	assert.Equal(t, []int{0, 1, 2, 3}, spanDocs(collectSpans(t, near(t, 2, false, a, b), r)))

	q := near(t, 1, true, a, b)
	assert.Equal(t, "span_near[span_terms(field:a),span_terms(field:b)]", q.String())
	assert.Empty(t, collectSpans(t, near(t, 0, true), r))
	assert.Equal(t, collectSpans(t, a, r), collectSpans(t, near(t, 0, true, a), r))
}

func TestSpanNearNested(t *testing.T) {
	r := newIndex("quick brown fox jumps", "quick fox brown jumps", "jumps quick brown fox")
	inner := near(t, 0, true, term("quick"), term("brown"))
	outer := near(t, 1, true, inner, term("jumps"))
	assert.Equal(t, []span{{0, 0, 4}}, collectSpans(t, outer, r))

	pfx := near(t, 0, true, NewSpanPrefixQuery(field, "qu"), term("fox"))
	assert.Equal(t, []span{{1, 0, 2}}, collectSpans(t, pfx, r))
	pfx = near(t, 1, true, NewSpanPrefixQuery(field, "qu"), term("fox"))
	assert.Equal(t, []int{0, 1, 2}, spanDocs(collectSpans(t, pfx, r)))
}

func TestSpanNotQuery(t *testing.T) {
	r := newIndex("a b a", "a c", "b a b", "c")
	q, err := NewSpanNotQuery(term("a"), near(t, 0, true, term("a"), term("b")))
	require.NoError(t, err)
	assert.Equal(t, []span{{0, 2, 3}, {1, 0, 1}}, collectSpans(t, q, r))
	assert.Equal(t,
		"span_not(inc:<span_terms(field:a)>, exc:<span_near[span_terms(field:a),span_terms(field:b)]>)",
		q.String())
	assert.Equal(t, []string{"a"}, q.SpanTerms())
}

func TestSpanFieldMismatch(t *testing.T) {
	other := NewSpanTermQuery("other", "a")
	_, err := NewSpanOrQuery(term("a"), other)
	assert.ErrorIs(t, err, search.ErrArgument)
	_, err = NewSpanNearQuery(0, true, term("a"), other)
	assert.ErrorIs(t, err, search.ErrArgument)
	_, err = NewSpanNotQuery(term("a"), other)
	assert.ErrorIs(t, err, search.ErrArgument)
}

func TestSpanQueryEquality(t *testing.T) {
	q1 := near(t, 2, true, term("a"), term("b"))
	q2 := near(t, 2, true, term("a"), term("b"))
	q3 := near(t, 2, false, term("a"), term("b"))
	assert.True(t, q1.Equal(q2))
	assert.Equal(t, q1.Hash(), q2.Hash())
	assert.False(t, q1.Equal(q3))
	q2.SetBoost(2)
	assert.False(t, q1.Equal(q2))

	terms := make(model.TermSet)
	q1.ExtractTerms(terms)
	assert.Len(t, terms, 2)
	assert.True(t, terms.Contains(model.NewTerm(field, "b")))
}

func TestSpanRewriteKeepsOriginal(t *testing.T) {
	r := newIndex("quick fox")
	q, err := NewSpanOrQuery(NewSpanPrefixQuery(field, "qu"), term("fox"))
	require.NoError(t, err)
	rq, err := q.Rewrite(r)
	require.NoError(t, err)
	assert.NotSame(t, q, rq)
	assert.IsType(t, &SpanPrefixQuery{}, q.Clauses()[0])
	assert.IsType(t, &SpanMultiTermQuery{}, rq.(*SpanOrQuery).Clauses()[0])

	plain := near(t, 0, true, term("quick"), term("fox"))
	rq, err = plain.Rewrite(r)
	require.NoError(t, err)
	assert.Same(t, plain, rq)
}

func TestMatchRanges(t *testing.T) {
	r := newIndex("x a b x a b a", "a b")
	q, err := NewSpanOrQuery(near(t, 0, true, term("a"), term("b")), term("x"))
	require.NoError(t, err)
	ranges, err := MatchRanges(q, r, 0)
	require.NoError(t, err)
	assert.Equal(t, []MatchRange{{0, 5}}, ranges)

	ranges, err = MatchRanges(near(t, 0, true, term("a"), term("b")), r, 0)
	require.NoError(t, err)
	assert.Equal(t, []MatchRange{{1, 2}, {4, 5}}, ranges)

	ranges, err = MatchRanges(NewSpanTermQuery("nofield", "a"), r, 0)
	require.NoError(t, err)
	assert.Empty(t, ranges)
}

func TestSpanScoring(t *testing.T) {
	r := newIndex("quick brown fox", "quick fox", "fox quick", "slow fox")
	s := search.NewIndexSearcher(r)
	q := near(t, 1, true, term("quick"), term("fox"))
	td, err := s.Search(q, nil)
	require.NoError(t, err)
	require.Equal(t, 2, td.TotalHits)
	assert.Equal(t, 1, td.ScoreDocs[0].Doc, "the tighter, shorter match ranks first")
	assert.Equal(t, 0, td.ScoreDocs[1].Doc)

	for _, hit := range td.ScoreDocs {
		expl, err := s.Explain(q, hit.Doc)
		require.NoError(t, err)
		assert.InDelta(t, hit.Score, expl.Value(), 1e-5, expl.String())
	}
	expl, err := s.Explain(q, 3)
	require.NoError(t, err)
	assert.Equal(t, float32(0), expl.Value())

	missing := NewSpanTermQuery("nofield", "quick")
	td, err = s.Search(missing, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, td.TotalHits)
	expl, err = s.Explain(missing, 0)
	require.NoError(t, err)
	assert.Contains(t, expl.Description(), "does not exist")
}

func TestSpanScorerAdvance(t *testing.T) {
	r := newIndex("a", "b", "a a", "b", "a")
	s := search.NewIndexSearcher(r)
	w, err := s.CreateWeight(term("a"))
	require.NoError(t, err)
	scorer, err := w.Scorer(r)
	require.NoError(t, err)
	defer scorer.Close()
	assert.Equal(t, 2, scorer.Advance(1))
	assert.Equal(t, 4, scorer.Advance(3))
	assert.Equal(t, NO_MORE_DOCS, scorer.NextDoc())
	assert.Equal(t, NO_MORE_DOCS, scorer.Advance(10))
}

func randomIndex(rnd *rand.Rand, vocab []string, numDocs, maxLen int) *index.MemoryIndex {
	texts := make([]string, numDocs)
	for i := range texts {
		words := make([]string, 1+rnd.Intn(maxLen))
		for j := range words {
			words[j] = vocab[rnd.Intn(len(vocab))]
		}
		texts[i] = strings.Join(words, " ")
	}
	return newIndex(texts...)
}

func termPositions(t *testing.T, r index.IndexReader, doc int, text string) (ans []int) {
	for _, s := range collectSpans(t, term(text), r) {
		if s.doc == doc {
			ans = append(ans, s.start)
		}
	}
	return
}

// Whether any choice of one position per term forms a near match.
func bruteForceNear(positions [][]int, slop int, inOrder bool) bool {
	chosen := make([]int, len(positions))
	var try func(i int) bool
	try = func(i int) bool {
		if i == len(positions) {
			lo, hi := chosen[0], chosen[0]
			for _, p := range chosen {
				lo, hi = min(lo, p), max(hi, p)
			}
			if inOrder {
				lo, hi = chosen[0], chosen[len(chosen)-1]
			}
			return hi+1-lo-len(chosen) <= slop
		}
		for _, p := range positions[i] {
			if inOrder && i > 0 && p < chosen[i-1] {
				continue
			}
			chosen[i] = p
			if try(i + 1) {
				return true
			}
		}
		return false
	}
	return try(0)
}

func TestSpanNearRandomized(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	vocab := []string{"a", "b", "c", "d"}
	r := randomIndex(rnd, vocab, 60, 10)
	for iter := 0; iter < 40; iter++ {
		n := 2 + rnd.Intn(2)
		texts := make([]string, n)
		clauses := make([]SpanQuery, n)
		for i := range clauses {
			texts[i] = vocab[rnd.Intn(len(vocab))]
			clauses[i] = term(texts[i])
		}
		slop := rnd.Intn(4)
		ordered := spanDocs(collectSpans(t, near(t, slop, true, clauses...), r))
		unordered := spanDocs(collectSpans(t, near(t, slop, false, clauses...), r))
		assert.Subset(t, unordered, ordered, "%v slop=%v", texts, slop)

		var wantOrdered, wantUnordered []int
		for doc := 0; doc < r.MaxDoc(); doc++ {
			positions := make([][]int, n)
			for i, text := range texts {
				positions[i] = termPositions(t, r, doc, text)
			}
			if bruteForceNear(positions, slop, true) {
				wantOrdered = append(wantOrdered, doc)
			}
			if bruteForceNear(positions, slop, false) {
				wantUnordered = append(wantUnordered, doc)
			}
		}
		assert.Equal(t, wantOrdered, ordered, "ordered %v slop=%v", texts, slop)
		assert.Equal(t, wantUnordered, unordered, "unordered %v slop=%v", texts, slop)
	}
}

func TestSpanNotRandomized(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	vocab := []string{"a", "b", "c", "d", "e"}
	r := randomIndex(rnd, vocab, 50, 12)
	for iter := 0; iter < 20; iter++ {
		inc, err := NewSpanOrQuery(term(vocab[rnd.Intn(5)]), near(t, 1, false, term("a"), term("b")))
		require.NoError(t, err)
		exc, err := NewSpanOrQuery(term(vocab[rnd.Intn(5)]), near(t, rnd.Intn(3), true, term("c"), term("d")))
		require.NoError(t, err)
		q, err := NewSpanNotQuery(inc, exc)
		require.NoError(t, err)

		excluded := collectSpans(t, exc, r)
		var want []span
		for _, s := range collectSpans(t, inc, r) {
			overlaps := false
			for _, e := range excluded {
				if e.doc == s.doc && e.end > s.start && e.start < s.end {
					overlaps = true
					break
				}
			}
			if !overlaps {
				want = append(want, s)
			}
		}
		assert.Equal(t, want, collectSpans(t, q, r), q.String())
	}
}
