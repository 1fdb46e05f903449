package search

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
	. "github.com/balzaczyy/gosearch/core/search/model"
)

const body = "body"

func newTestIndex(texts ...string) *index.MemoryIndex {
	mi := index.NewMemoryIndex()
	for _, text := range texts {
		mi.AddDocument(index.NewDocument().Add(body, text))
	}
	return mi
}

func termQuery(text string) *TermQuery {
	return NewTermQuery(model.NewTerm(body, text))
}

func booleanQuery(t *testing.T, clauses ...interface{}) *BooleanQuery {
	t.Helper()
	bq := NewBooleanQuery()
	for i := 0; i < len(clauses); i += 2 {
		_, err := bq.Add(clauses[i].(Query), clauses[i+1].(Occur))
		require.NoError(t, err)
	}
	return bq
}

func phraseQuery(slop int, terms ...string) *PhraseQuery {
	pq := NewPhraseQuery(body)
	for _, term := range terms {
		pq.AddTerm(term, 1)
	}
	pq.SetSlop(slop)
	return pq
}

func topDocIds(td *TopDocs) []int {
	ans := make([]int, len(td.ScoreDocs))
	for i, hit := range td.ScoreDocs {
		ans[i] = hit.Doc
	}
	return ans
}

// search returns the doc ids of every hit of q, best first.
func search(t *testing.T, s Searcher, q Query) []int {
	t.Helper()
	opts := NewSearchOptions()
	opts.NumDocs = math.MaxInt32
	td, err := s.Search(q, opts)
	require.NoError(t, err)
	require.Equal(t, td.TotalHits, len(td.ScoreDocs))
	return topDocIds(td)
}

// matchingDocs returns the doc ids of every hit of q in doc order.
func matchingDocs(t *testing.T, s Searcher, q Query) []int {
	t.Helper()
	docs := []int{}
	require.NoError(t, s.SearchEach(q, nil, nil, func(doc int, score float32) {
		docs = append(docs, doc)
	}))
	return docs
}

func TestKeywordSearch(t *testing.T) {
	mi := index.NewMemoryIndex()
	for _, d := range [][2]string{
		{"Bat recycling", "bat bat recycling of old bat"},
		{"Cricket", "a cricket bat and a ball"},
		{"Caves", "the bat lives in caves with another bat and more bats"},
		{"Birds", "birds fly"},
	} {
		mi.AddDocument(index.NewDocument().Add("title", d[0]).Add("content", d[1]))
	}
	ss := NewIndexSearcher(mi)
	docs, err := ss.Search(NewTermQuery(model.NewTerm("content", "bat")), nil)
	require.NoError(t, err)
	require.Equal(t, 3, docs.TotalHits)
	require.Equal(t, docs.ScoreDocs[0].Score, docs.MaxScore)

	doc, err := ss.Document(docs.ScoreDocs[0].Doc)
	require.NoError(t, err)
	require.Equal(t, "Bat recycling", doc.Get("title"))
}

func TestBooleanQueryRequiredAndOptional(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick fox", "quick", "fox"))
	q := booleanQuery(t, termQuery("quick"), MUST, termQuery("fox"), SHOULD)

	td, err := s.Search(q, nil)
	require.NoError(t, err)
	require.Equal(t, 2, td.TotalHits)
	require.Equal(t, []int{0, 1}, topDocIds(td))
	require.Greater(t, td.ScoreDocs[0].Score, td.ScoreDocs[1].Score)
}

func TestBooleanQueryProhibited(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick fox", "quick", "fox", "slow fox"))
	q := booleanQuery(t, termQuery("fox"), MUST, termQuery("quick"), MUST_NOT)
	require.Equal(t, []int{2, 3}, matchingDocs(t, s, q))

	q = booleanQuery(t, termQuery("fox"), SHOULD, termQuery("slow"), SHOULD, termQuery("quick"), MUST_NOT)
	require.Equal(t, []int{2, 3}, matchingDocs(t, s, q))
	// doc 3 matches both optional clauses
	require.Equal(t, []int{3, 2}, search(t, s, q))
}

func TestBooleanQueryMatchesNothing(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick fox", "quick", "fox"))

	td, err := s.Search(booleanQuery(t, termQuery("quick"), MUST_NOT), nil)
	require.NoError(t, err)
	require.Zero(t, td.TotalHits)
	require.Empty(t, td.ScoreDocs)

	td, err = s.Search(NewBooleanQuery(), nil)
	require.NoError(t, err)
	require.Zero(t, td.TotalHits)

	// a required clause on a missing field can never match
	q := booleanQuery(t, termQuery("quick"), SHOULD, NewTermQuery(model.NewTerm("nope", "x")), MUST)
	require.Empty(t, matchingDocs(t, s, q))
}

func TestBooleanQueryRewritesSingleClause(t *testing.T) {
	mi := newTestIndex("quick fox")
	q := booleanQuery(t, termQuery("quick"), MUST)
	q.SetBoost(3)
	rq, err := NewIndexSearcher(mi).Rewrite(q)
	require.NoError(t, err)
	require.IsType(t, &TermQuery{}, rq)
	require.Equal(t, float32(3), rq.Boost())
	// the original clause keeps its boost
	require.Equal(t, float32(1), q.Clauses()[0].Query().Boost())
}

func TestBooleanQueryToString(t *testing.T) {
	q := booleanQuery(t, termQuery("quick"), MUST, termQuery("fox"), SHOULD, termQuery("dog"), MUST_NOT)
	require.Equal(t, "+quick fox -dog", q.ToString(body))
	require.Equal(t, "+body:quick body:fox -body:dog", q.String())
}

func TestBooleanClauseOccur(t *testing.T) {
	_, err := NewBooleanClause(termQuery("quick"), Occur(42))
	require.ErrorIs(t, err, ErrConfiguration)

	c, err := NewBooleanClause(termQuery("quick"), SHOULD)
	require.NoError(t, err)
	require.False(t, c.IsRequired())
	require.NoError(t, c.SetOccur(MUST))
	require.True(t, c.IsRequired())
	require.ErrorIs(t, c.SetOccur(Occur(0)), ErrConfiguration)
}

func TestTermQuery(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick fox", "quick", "fox"))
	// the shorter field scores higher
	require.Equal(t, []int{2, 0}, search(t, s, termQuery("fox")))
	require.Empty(t, search(t, s, termQuery("dog")))
	require.Empty(t, search(t, s, NewTermQuery(model.NewTerm("nope", "fox"))))
}

func TestPhraseQuerySlop(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick fox jumps", "quick the fox", "fox quick jumps"))

	require.Equal(t, []int{0}, matchingDocs(t, s, phraseQuery(0, "quick", "fox")))
	require.Equal(t, []int{0, 1}, matchingDocs(t, s, phraseQuery(1, "quick", "fox")))
	require.Equal(t, []int{0, 1, 2}, matchingDocs(t, s, phraseQuery(2, "quick", "fox")))

	// closer matches score higher
	require.Equal(t, []int{0, 1, 2}, search(t, s, phraseQuery(2, "quick", "fox")))
}

func TestPhraseQueryPositions(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick brown fox", "quick red fox", "quick fox"))

	// a gap of one position
	pq := NewPhraseQuery(body).AddTerm("quick", 1).AddTerm("fox", 2)
	require.Equal(t, []int{0, 1}, matchingDocs(t, s, pq))
	require.Equal(t, `"quick <> fox"`, pq.ToString(body))

	// alternatives at one position
	pq = NewPhraseQuery(body).AddTerm("quick", 1).AddTerm("brown", 1).AppendMultiTerm("red").AddTerm("fox", 1)
	require.Equal(t, []int{0, 1}, matchingDocs(t, s, pq))
	require.Equal(t, `"quick brown|red fox"`, pq.ToString(body))
}

func TestPhraseQueryRewritesSinglePosition(t *testing.T) {
	mi := newTestIndex("quick fox")
	rq, err := NewIndexSearcher(mi).Rewrite(NewPhraseQuery(body).AddTerm("fox", 1))
	require.NoError(t, err)
	require.IsType(t, &TermQuery{}, rq)

	rq, err = NewIndexSearcher(mi).Rewrite(NewPhraseQuery(body).AddTerm("fox", 1).AppendMultiTerm("quick"))
	require.NoError(t, err)
	require.IsType(t, &MultiTermQuery{}, rq)
}

// sloppyScorer builds the sloppy scorer of w regardless of its slop.
func sloppyScorer(w *PhraseWeight, r index.IndexReader, slop int) *PhraseScorer {
	q := w.owner
	pps := make([]*phrasePositions, len(q.positions))
	for i, pp := range q.positions {
		tpe := r.TermPositions()
		tpe.Seek(model.NewTerm(q.field, pp.Terms[0]))
		pps[i] = newPhrasePositions(tpe, pp.Pos)
	}
	return newSloppyPhraseScorer(w, pps, r.Norms(q.field), slop, hasRepeats(q.positions))
}

// randomWords builds n texts over a small vocabulary so terms repeat.
func randomWords(rnd *rand.Rand, vocabulary []string, n, maxLen int) []string {
	texts := make([]string, n)
	for i := range texts {
		words := make([]string, 1+rnd.Intn(maxLen))
		for j := range words {
			words[j] = vocabulary[rnd.Intn(len(vocabulary))]
		}
		texts[i] = strings.Join(words, " ")
	}
	return texts
}

// randomPhrase draws 2 to 4 terms with replacement.
func randomPhrase(rnd *rand.Rand, vocabulary []string) []string {
	terms := make([]string, 2+rnd.Intn(3))
	for i := range terms {
		terms[i] = vocabulary[rnd.Intn(len(vocabulary))]
	}
	return terms
}

func TestSloppyPhraseWithoutSlopIsExact(t *testing.T) {
	vocabulary := []string{"a", "b", "c"}
	rnd := rand.New(rand.NewSource(2024))
	mi := newTestIndex(randomWords(rnd, vocabulary, 40, 12)...)
	s := NewIndexSearcher(mi)

	for iter := 0; iter < 60; iter++ {
		terms := randomPhrase(rnd, vocabulary)
		w, err := s.CreateWeight(phraseQuery(0, terms...))
		require.NoError(t, err)
		pw := w.(*PhraseWeight)

		sc, err := pw.Scorer(mi)
		require.NoError(t, err)
		exact := sc.(*PhraseScorer)
		sloppy := sloppyScorer(pw, mi, 0)
		for {
			doc := exact.NextDoc()
			require.Equal(t, doc, sloppy.NextDoc(), "phrase %v", terms)
			if doc == NO_MORE_DOCS {
				break
			}
			require.Equal(t, exact.Freq(), sloppy.Freq(), "phrase %v in doc %v", terms, doc)
			require.InDelta(t, exact.Score(), sloppy.Score(), 1e-6)
		}
		require.NoError(t, exact.Close())
		require.NoError(t, sloppy.Close())
	}
}

func TestSloppyPhraseRepeatedTerms(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("b a b b b a a b", "a a", "a b a"))
	// doc 2 only has the a terms one position apart
	require.Equal(t, []int{0, 1}, matchingDocs(t, s, phraseQuery(0, "a", "a")))
	for slop := 1; slop < 4; slop++ {
		require.Equal(t, []int{0, 1, 2}, matchingDocs(t, s, phraseQuery(slop, "a", "a")), "slop %v", slop)
	}
	require.Equal(t, []int{2}, matchingDocs(t, s, phraseQuery(1, "a", "b", "a")))
	require.Equal(t, []int{0, 2}, matchingDocs(t, s, phraseQuery(2, "a", "b", "a")))
}

func TestSloppyPhraseGrowsWithSlop(t *testing.T) {
	vocabulary := []string{"a", "b", "c"}
	rnd := rand.New(rand.NewSource(77))
	s := NewIndexSearcher(newTestIndex(randomWords(rnd, vocabulary, 50, 10)...))

	for iter := 0; iter < 60; iter++ {
		terms := randomPhrase(rnd, vocabulary)
		prev := matchingDocs(t, s, phraseQuery(0, terms...))
		for slop := 1; slop <= 5; slop++ {
			docs := matchingDocs(t, s, phraseQuery(slop, terms...))
			require.Subset(t, docs, prev, "phrase %v, slop %v", terms, slop)
			prev = docs
		}
	}
}

func TestPhraseFrequency(t *testing.T) {
	mi := newTestIndex("a b a b", "a b c a b c a b")
	s := NewIndexSearcher(mi)
	w, err := s.CreateWeight(phraseQuery(0, "a", "b"))
	require.NoError(t, err)
	sc, err := w.Scorer(mi)
	require.NoError(t, err)
	ps := sc.(*PhraseScorer)
	require.Equal(t, 0, ps.NextDoc())
	require.Equal(t, float32(2), ps.Freq())
	require.Equal(t, 1, ps.NextDoc())
	require.Equal(t, float32(3), ps.Freq())
	require.Equal(t, NO_MORE_DOCS, ps.NextDoc())
}

func TestMultiTermQuery(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick fox", "quick", "fox", "dog"))
	q := NewMultiTermQuery(body)
	q.AddTerm("quick", 1)
	q.AddTerm("fox", 1)
	q.AddTerm("cat", 1)
	require.Equal(t, []int{0, 1, 2}, search(t, s, q))

	// boosts order the hits
	q = NewMultiTermQuery(body)
	q.AddTerm("quick", 1)
	q.AddTerm("fox", 4)
	require.Equal(t, []int{2, 0, 1}, search(t, s, q))

	_, err := NewMultiTermQueryConf(body, 0, 0)
	require.ErrorIs(t, err, ErrArgument)
	require.Contains(t, err.Error(), "greater than zero. 0 <= 0")
	_, err = NewMultiTermQueryConf(body, -1, 0)
	require.ErrorIs(t, err, ErrArgument)
}

func TestMultiTermQueryMaxTerms(t *testing.T) {
	q, err := NewMultiTermQueryConf(body, 2, 0)
	require.NoError(t, err)
	q.AddTerm("a", 0.5)
	q.AddTerm("b", 2)
	q.AddTerm("c", 1)
	q.AddTerm("d", 0.1) // below the new minimum
	require.Equal(t, []string{"c", "b"}, q.Terms())
	require.Equal(t, float32(1), q.MinBoost())
}

func TestPrefixQuery(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick", "quiet", "quack", "fox"))
	require.Equal(t, []int{0, 1}, matchingDocs(t, s, NewPrefixQuery(body, "qui")))
	require.Equal(t, []int{0, 1, 2}, matchingDocs(t, s, NewPrefixQuery(body, "q")))
	require.Empty(t, matchingDocs(t, s, NewPrefixQuery(body, "z")))

	pq := NewPrefixQuery(body, "q")
	pq.SetMaxTerms(1)
	require.Len(t, matchingDocs(t, s, pq), 1)

	_, err := NewPrefixQuery(body, "q").CreateWeight(s)
	require.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestWildcardQuery(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick", "quiet", "quack", "fox"))
	require.Equal(t, []int{0, 2}, matchingDocs(t, s, NewWildcardQuery(body, "qu?ck")))
	require.Equal(t, []int{0, 2}, matchingDocs(t, s, NewWildcardQuery(body, "*ck")))
	require.Equal(t, []int{3}, matchingDocs(t, s, NewWildcardQuery(body, "f*")))
	require.Equal(t, []int{1}, matchingDocs(t, s, NewWildcardQuery(body, "quiet")))
}

func TestWildcardMatch(t *testing.T) {
	for _, c := range []struct {
		pattern, text string
		match         bool
	}{
		{"*", "", true},
		{"*", "anything", true},
		{"a?c", "abc", true},
		{"a?c", "ac", false},
		{"a*c", "ac", true},
		{"a*c", "abbbc", true},
		{"a*c", "abbbcd", false},
		{"*b*", "abc", true},
		{"a*b*c", "aXbYbZc", true},
		{"??", "日本", true},
		{"abc", "abd", false},
	} {
		require.Equal(t, c.match, WildcardMatch(c.pattern, c.text), "%q ~ %q", c.pattern, c.text)
	}
}

func TestFuzzyQuery(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("fox", "fix", "box", "dog", "foxes"))
	// the exact term scores highest, equally similar terms tie on doc
	require.Equal(t, []int{0, 1, 2}, search(t, s, NewFuzzyQuery(body, "fox")))

	q, err := NewFuzzyQueryConf(body, "fox", 0, 2, 0)
	require.NoError(t, err)
	require.Equal(t, []int{0}, matchingDocs(t, s, q))

	require.Empty(t, search(t, s, NewFuzzyQuery("nope", "fox")))

	_, err = NewFuzzyQueryConf(body, "fox", 1, 0, 0)
	require.ErrorIs(t, err, ErrArgument)
	_, err = NewFuzzyQueryConf(body, "fox", 0.5, -1, 0)
	require.ErrorIs(t, err, ErrArgument)
}

func newPriceIndex() *index.MemoryIndex {
	mi := index.NewMemoryIndex()
	for i, price := range []string{"5", "10", "20", "100"} {
		mi.AddDocument(index.NewDocument().
			Add(body, strings.Repeat("item ", i+1)).
			Add("price", price))
	}
	return mi
}

func bound(s string) *string { return &s }

func TestRangeQuery(t *testing.T) {
	s := NewIndexSearcher(newPriceIndex())

	q, err := NewRangeQuery("price", bound("10"), bound("20"), true, true)
	require.NoError(t, err)
	// string order puts 100 between 10 and 20
	require.Equal(t, []int{1, 2, 3}, matchingDocs(t, s, q))

	q, err = NewTypedRangeQuery("price", bound("10"), bound("20"), true, true)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, matchingDocs(t, s, q))

	q, err = NewTypedRangeQuery("price", bound("10"), bound("20"), false, true)
	require.NoError(t, err)
	require.Equal(t, []int{2}, matchingDocs(t, s, q))

	q, err = NewTypedRangeQuery("price", bound("20"), nil, true, false)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, matchingDocs(t, s, q))

	q, err = NewRangeQuery("price", nil, bound("20"), false, false)
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, matchingDocs(t, s, q))
}

func TestRangeQueryErrors(t *testing.T) {
	for name, newQuery := range map[string]func() (*RangeQuery, error){
		"no bounds": func() (*RangeQuery, error) {
			return NewRangeQuery("price", nil, nil, false, false)
		},
		"inclusive nil lower": func() (*RangeQuery, error) {
			return NewRangeQuery("price", nil, bound("5"), true, false)
		},
		"inclusive nil upper": func() (*RangeQuery, error) {
			return NewRangeQuery("price", bound("5"), nil, false, true)
		},
		"upper below lower": func() (*RangeQuery, error) {
			return NewRangeQuery("price", bound("b"), bound("a"), true, true)
		},
		"typed upper below lower": func() (*RangeQuery, error) {
			return NewTypedRangeQuery("price", bound("20"), bound("5"), true, true)
		},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newQuery()
			require.ErrorIs(t, err, ErrArgument)
		})
	}

	// numerically ordered but not in string order
	_, err := NewTypedRangeQuery("price", bound("5"), bound("20"), true, true)
	require.NoError(t, err)
}

func TestRangeFilter(t *testing.T) {
	s := NewIndexSearcher(newPriceIndex())
	f, err := NewTypedRangeFilter("price", bound("10"), bound("100"), true, false)
	require.NoError(t, err)

	opts := NewSearchOptions()
	opts.Filter = f
	td, err := s.Search(termQuery("item"), opts)
	require.NoError(t, err)
	require.ElementsMatch(t, []int{1, 2}, topDocIds(td))
}

func TestQueryFilter(t *testing.T) {
	mi := newTestIndex("quick fox", "quick", "fox", "slow dog")
	s := NewIndexSearcher(mi)
	f := NewQueryFilter(termQuery("quick"))

	bits, err := f.Bits(mi)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, bits.ToArray())
	again, err := f.Bits(mi)
	require.NoError(t, err)
	require.Same(t, bits, again)

	opts := NewSearchOptions()
	opts.Filter = f
	td, err := s.Search(NewMatchAllQuery(), opts)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, topDocIds(td))

	require.Equal(t, []int{0, 1}, matchingDocs(t, s, NewFilteredQuery(NewMatchAllQuery(), f)))
	require.Equal(t, []int{0}, matchingDocs(t, s, NewFilteredQuery(termQuery("fox"), f)))
	require.True(t, f.Equal(NewQueryFilter(termQuery("quick"))))
	require.False(t, f.Equal(NewQueryFilter(termQuery("fox"))))
}

func TestConstantScoreQuery(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick fox", "quick", "fox quick quick"))
	q := NewConstantScoreQuery(NewQueryFilter(termQuery("quick")))
	td, err := s.Search(q, nil)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, topDocIds(td))
	for _, hit := range td.ScoreDocs {
		require.Equal(t, td.ScoreDocs[0].Score, hit.Score)
	}
}

func TestMatchAllQuery(t *testing.T) {
	mi := newTestIndex("quick fox", "quick", "fox")
	s := NewIndexSearcher(mi)
	require.Equal(t, []int{0, 1, 2}, search(t, s, NewMatchAllQuery()))

	require.NoError(t, mi.Delete(1))
	require.Equal(t, []int{0, 2}, search(t, s, NewMatchAllQuery()))
	require.Equal(t, []int{0}, search(t, s, termQuery("quick")))

	docs, err := s.SearchUnscored(NewMatchAllQuery(), 10, 1)
	require.NoError(t, err)
	require.Equal(t, []int{2}, docs)

	e, err := s.Explain(NewMatchAllQuery(), 1)
	require.NoError(t, err)
	require.False(t, e.IsMatch())
}

func TestPostFilter(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick fox", "quick", "quick quick"))
	scores := make(map[int]float32)
	require.NoError(t, s.SearchEach(termQuery("quick"), nil, nil, func(doc int, score float32) {
		scores[doc] = score
	}))
	require.Len(t, scores, 3)

	factors := map[int]float32{0: 0, 1: 0.5, 2: 2}
	opts := NewSearchOptions()
	opts.PostFilter = func(doc int, score float32, ss Searcher) float32 {
		require.Same(t, s, ss)
		require.Equal(t, scores[doc], score)
		return factors[doc]
	}
	td, err := s.Search(termQuery("quick"), opts)
	require.NoError(t, err)
	require.Equal(t, 2, td.TotalHits)
	got := make(map[int]float32)
	for _, hit := range td.ScoreDocs {
		got[hit.Doc] = hit.Score
	}
	require.Equal(t, map[int]float32{1: scores[1] * 0.5, 2: scores[2]}, got)
}

func TestSearchWindow(t *testing.T) {
	texts := make([]string, 20)
	for i := range texts {
		texts[i] = strings.TrimSpace(strings.Repeat("fox ", i%5+1) + strings.Repeat("dog ", i%3))
	}
	s := NewIndexSearcher(newTestIndex(texts...))
	all := search(t, s, termQuery("fox"))
	require.Len(t, all, 20)

	for _, w := range [][2]int{{0, 1}, {0, 5}, {3, 4}, {18, 10}, {19, 1}, {20, 5}, {0, 100}} {
		opts := NewSearchOptions()
		opts.FirstDoc, opts.NumDocs = w[0], w[1]
		td, err := s.Search(termQuery("fox"), opts)
		require.NoError(t, err)
		require.Equal(t, 20, td.TotalHits)
		end := w[0] + w[1]
		if end > len(all) {
			end = len(all)
		}
		expected := []int{}
		if w[0] < len(all) {
			expected = all[w[0]:end]
		}
		require.Equal(t, expected, topDocIds(td), "window %v", w)
	}
}

func TestSearchEachAndUnscored(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("fox", "dog", "fox", "fox dog", "fox"))
	require.Equal(t, []int{0, 2, 3, 4}, matchingDocs(t, s, termQuery("fox")))

	for _, c := range []struct {
		limit, offset int
		docs          []int
	}{
		{10, 0, []int{0, 2, 3, 4}},
		{2, 0, []int{0, 2}},
		{2, 1, []int{2, 3}},
		{10, 3, []int{3, 4}},
		{10, 5, []int{}},
	} {
		docs, err := s.SearchUnscored(termQuery("fox"), c.limit, c.offset)
		require.NoError(t, err)
		require.Equal(t, c.docs, docs, "limit %v offset %v", c.limit, c.offset)
	}
}

func TestSearchArgumentErrors(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick fox", "quick", "fox"))
	q := termQuery("fox")

	opts := NewSearchOptions()
	opts.NumDocs = 0
	_, err := s.Search(q, opts)
	require.ErrorIs(t, err, ErrArgument)

	opts = NewSearchOptions()
	opts.FirstDoc = -1
	_, err = s.Search(q, opts)
	require.ErrorIs(t, err, ErrArgument)

	_, err = s.SearchUnscored(q, 0, 0)
	require.ErrorIs(t, err, ErrArgument)
	_, err = s.SearchUnscored(q, 1, -1)
	require.ErrorIs(t, err, ErrArgument)

	_, err = s.Explain(q, 3)
	require.ErrorIs(t, err, ErrArgument)
	_, err = s.Explain(q, -1)
	require.ErrorIs(t, err, ErrArgument)

	opts = NewSearchOptions()
	opts.Sort = NewSort(NewSortField("nope", SORT_TYPE_AUTO, false))
	_, err = s.Search(q, opts)
	require.ErrorIs(t, err, ErrArgument)

	_, err = booleanQuery(t).Add(q, Occur(7))
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestExplainMatchesScore(t *testing.T) {
	mi := newTestIndex(
		"the quick brown fox jumps over the lazy dog",
		"quick quick fox",
		"a fox is quick",
		"lazy dogs sleep",
		"the fox",
	)
	s := NewIndexSearcher(mi)
	f := NewQueryFilter(termQuery("fox"))

	boosted := termQuery("quick")
	boosted.SetBoost(2.5)
	multi := NewMultiTermQuery(body)
	multi.AddTerm("quick", 1)
	multi.AddTerm("lazy", 0.5)
	rng, err := NewRangeQuery(body, bound("f"), bound("l"), true, false)
	require.NoError(t, err)

	for _, q := range []Query{
		termQuery("fox"),
		boosted,
		booleanQuery(t, termQuery("quick"), MUST, termQuery("fox"), SHOULD),
		booleanQuery(t, termQuery("quick"), SHOULD, termQuery("lazy"), SHOULD, termQuery("dog"), SHOULD),
		booleanQuery(t, termQuery("fox"), SHOULD, termQuery("lazy"), MUST_NOT),
		booleanQuery(t,
			booleanQuery(t, termQuery("quick"), MUST, termQuery("fox"), MUST), SHOULD,
			termQuery("the"), SHOULD),
		phraseQuery(0, "quick", "fox"),
		phraseQuery(3, "quick", "fox"),
		multi,
		NewPrefixQuery(body, "la"),
		NewWildcardQuery(body, "qu*"),
		NewFuzzyQuery(body, "dogs"),
		rng,
		NewMatchAllQuery(),
		NewConstantScoreQuery(f),
		NewFilteredQuery(termQuery("quick"), f),
	} {
		t.Run(q.String(), func(t *testing.T) {
			opts := NewSearchOptions()
			opts.NumDocs = mi.MaxDoc()
			td, err := s.Search(q, opts)
			require.NoError(t, err)
			require.NotEmpty(t, td.ScoreDocs)
			for _, hit := range td.ScoreDocs {
				e, err := s.Explain(q, hit.Doc)
				require.NoError(t, err)
				require.InDelta(t, hit.Score, e.Value(), 1e-4, "doc %v:\n%v", hit.Doc, e)
			}
		})
	}
}

func TestExplainNonMatching(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick fox", "quick", "fox"))
	for _, q := range []Query{
		termQuery("fox"),
		booleanQuery(t, termQuery("fox"), MUST, termQuery("quick"), SHOULD),
		phraseQuery(0, "quick", "fox"),
	} {
		e, err := s.Explain(q, 1)
		require.NoError(t, err)
		require.False(t, e.IsMatch(), "%v explains %v", q, e)
	}
}

func TestBooleanExplainCoord(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick fox", "quick", "fox"))
	q := booleanQuery(t, termQuery("quick"), MUST, termQuery("fox"), SHOULD)

	e, err := s.Explain(q, 1)
	require.NoError(t, err)
	require.Contains(t, e.String(), "coord(1/2)")

	// all clauses matched: no coord factor
	e, err = s.Explain(q, 0)
	require.NoError(t, err)
	require.NotContains(t, e.String(), "coord(")
}

func TestBooleanScorerExplainAfterScoring(t *testing.T) {
	mi := newTestIndex("a b", "a", "b")
	s := NewIndexSearcher(mi)
	q := booleanQuery(t, termQuery("a"), MUST, termQuery("b"), MUST)
	w, err := s.CreateWeight(q)
	require.NoError(t, err)
	sc, err := w.Scorer(mi)
	require.NoError(t, err)

	require.Equal(t, 0, sc.NextDoc())
	first := sc.Score()
	require.Greater(t, first, float32(0))
	require.Equal(t, first, sc.Score())
	require.Equal(t, first, sc.Explain(0).Value())

	e, err := s.Explain(q, 0)
	require.NoError(t, err)
	require.InDelta(t, first, e.Value(), 1e-6)
	require.NoError(t, sc.Close())
}

func TestCreateWeightNormalizesZeroWeights(t *testing.T) {
	s := NewIndexSearcher(newTestIndex("quick fox"))
	q := termQuery("quick")
	q.SetBoost(0)
	w, err := s.CreateWeight(q)
	require.NoError(t, err)
	require.False(t, math.IsNaN(float64(w.Value())))
	require.Zero(t, w.Value())
}
