package search

import (
	"fmt"
	"math"
	"time"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
	"github.com/balzaczyy/gosearch/core/util"
)

/*
CombineQueries merges the rewrites of one query by several searchers
into a single query. Coord-disabled boolean queries made of SHOULD
clauses only are split into their clauses, duplicates are dropped and
what remains is OR-ed with coord disabled. A single distinct query is
returned as is.
*/
func CombineQueries(queries ...Query) Query {
	var uniques []Query
	seen := make(map[uint64][]Query)
	add := func(q Query) {
		h := q.Hash()
		for _, o := range seen[h] {
			if o == q || o.Equal(q) {
				return
			}
		}
		seen[h] = append(seen[h], q)
		uniques = append(uniques, q)
	}
	for _, q := range queries {
		if bq, ok := q.(*BooleanQuery); ok && bq.splittable() {
			for _, c := range bq.clauses {
				add(c.query)
			}
		} else {
			add(q)
		}
	}

	if len(uniques) == 1 {
		return uniques[0]
	}
	ans := NewBooleanQueryDisableCoord(true)
	ans.maxClauseCount = math.MaxInt32
	for _, q := range uniques {
		ans.clauses = append(ans.clauses, &BooleanClause{query: q, occur: SHOULD})
	}
	return ans
}

func (q *BooleanQuery) splittable() bool {
	if !q.disableCoord {
		return false
	}
	for _, c := range q.clauses {
		if c.occur != SHOULD {
			return false
		}
	}
	return true
}

/*
cachedDFSearcher stands in for a MultiSearcher while weights are
created: it answers document frequencies from a precomputed map, so
term statistics are collection wide. Nothing else is supported.
*/
type cachedDFSearcher struct {
	dfMap      map[model.Term]int
	maxDoc     int
	similarity Similarity
}

func (s *cachedDFSearcher) DocFreq(t model.Term) int { return s.dfMap[t] }
func (s *cachedDFSearcher) MaxDoc() int              { return s.maxDoc }
func (s *cachedDFSearcher) Similarity() Similarity   { return s.similarity }

// Queries handed to a cachedDFSearcher are already rewritten.
func (s *cachedDFSearcher) Rewrite(q Query) (Query, error) { return q, nil }

func (s *cachedDFSearcher) unsupported(op string) error {
	return unsupportedErrorf("%v is not supported by the cached doc freq searcher", op)
}

func (s *cachedDFSearcher) Document(doc int) (*index.Document, error) {
	return nil, s.unsupported("Document")
}

func (s *cachedDFSearcher) CreateWeight(q Query) (Weight, error) {
	return nil, s.unsupported("CreateWeight")
}

func (s *cachedDFSearcher) Search(q Query, opts *SearchOptions) (*TopDocs, error) {
	return nil, s.unsupported("Search")
}

func (s *cachedDFSearcher) SearchWeight(w Weight, opts *SearchOptions) (*TopDocs, error) {
	return nil, s.unsupported("SearchWeight")
}

func (s *cachedDFSearcher) SearchEach(q Query, filter Filter, pf PostFilter, fn func(doc int, score float32)) error {
	return s.unsupported("SearchEach")
}

func (s *cachedDFSearcher) SearchEachWeight(w Weight, filter Filter, pf PostFilter, fn func(doc int, score float32)) error {
	return s.unsupported("SearchEachWeight")
}

func (s *cachedDFSearcher) SearchUnscored(q Query, limit, offset int) ([]int, error) {
	return nil, s.unsupported("SearchUnscored")
}

func (s *cachedDFSearcher) SearchUnscoredWeight(w Weight, limit, offset int) ([]int, error) {
	return nil, s.unsupported("SearchUnscoredWeight")
}

func (s *cachedDFSearcher) Explain(q Query, doc int) (*Explanation, error) {
	return nil, s.unsupported("Explain")
}

func (s *cachedDFSearcher) ExplainWeight(w Weight, doc int) (*Explanation, error) {
	return nil, s.unsupported("ExplainWeight")
}

func (s *cachedDFSearcher) Close() error { return nil }

// search/MultiSearcher.java

/*
MultiSearcher searches several searchers as if they were one index.
Document numbers of the i-th searcher are shifted by the total MaxDoc()
of the searchers before it, and term statistics are summed over all of
them so scores are comparable across sub-searchers.
*/
type MultiSearcher struct {
	searchers  []Searcher
	starts     []int // len(searchers)+1 document offsets
	maxDoc     int
	closeSubs  bool
	similarity Similarity
	metrics    *Metrics
}

func NewMultiSearcher(closeSubs bool, searchers ...Searcher) *MultiSearcher {
	starts := make([]int, len(searchers)+1)
	maxDoc := 0
	for i, s := range searchers {
		starts[i] = maxDoc
		maxDoc += s.MaxDoc()
	}
	starts[len(searchers)] = maxDoc
	return &MultiSearcher{
		searchers:  searchers,
		starts:     starts,
		maxDoc:     maxDoc,
		closeSubs:  closeSubs,
		similarity: NewDefaultSimilarity(),
	}
}

func (ms *MultiSearcher) SetSimilarity(similarity Similarity) { ms.similarity = similarity }
func (ms *MultiSearcher) SetMetrics(m *Metrics)               { ms.metrics = m }

func (ms *MultiSearcher) Searchers() []Searcher  { return ms.searchers }
func (ms *MultiSearcher) Similarity() Similarity { return ms.similarity }
func (ms *MultiSearcher) MaxDoc() int            { return ms.maxDoc }

// Starts returns the document offset of the i-th sub-searcher.
func (ms *MultiSearcher) Start(i int) int { return ms.starts[i] }

/*
SearcherIndex returns the index of the sub-searcher holding document
n: the last one whose start is <= n, skipping empty sub-searchers.
*/
func (ms *MultiSearcher) SearcherIndex(n int) int {
	lo, hi := 0, len(ms.searchers)-1
	for hi >= lo {
		mid := int(uint(lo+hi) >> 1)
		midVal := ms.starts[mid]
		switch {
		case n < midVal:
			hi = mid - 1
		case n > midVal:
			lo = mid + 1
		default: // found a match, scan to last match
			for mid+1 < len(ms.searchers) && ms.starts[mid+1] == midVal {
				mid++
			}
			return mid
		}
	}
	return hi
}

func (ms *MultiSearcher) DocFreq(t model.Term) (docFreq int) {
	for _, s := range ms.searchers {
		docFreq += s.DocFreq(t)
	}
	return
}

func (ms *MultiSearcher) Document(doc int) (*index.Document, error) {
	if doc < 0 || doc >= ms.maxDoc {
		return nil, argErrorf("doc %v is out of range [0, %v)", doc, ms.maxDoc)
	}
	i := ms.SearcherIndex(doc)
	return ms.searchers[i].Document(doc - ms.starts[i])
}

// Rewrite rewrites q with every sub-searcher and combines the results.
func (ms *MultiSearcher) Rewrite(q Query) (Query, error) {
	queries := make([]Query, len(ms.searchers))
	for i, s := range ms.searchers {
		var err error
		if queries[i], err = s.Rewrite(q); err != nil {
			return nil, err
		}
	}
	if len(queries) == 0 {
		return q, nil
	}
	return CombineQueries(queries...), nil
}

/*
CreateWeight rewrites q, collects the collection-wide document
frequency of each of its terms and creates the weight against those.
*/
func (ms *MultiSearcher) CreateWeight(q Query) (Weight, error) {
	rewritten, err := ms.Rewrite(q)
	if err != nil {
		return nil, err
	}
	terms := make(model.TermSet)
	rewritten.ExtractTerms(terms)
	dfMap := make(map[model.Term]int, len(terms))
	for t := range terms {
		dfMap[t] = ms.DocFreq(t)
	}
	cdfs := &cachedDFSearcher{dfMap: dfMap, maxDoc: ms.maxDoc, similarity: ms.similarity}
	w, err := rewritten.CreateWeight(cdfs)
	if err != nil {
		return nil, err
	}
	normalizeWeight(w, ms.similarity)
	log.Debugf("Created %v over %v searchers", w, len(ms.searchers))
	return w, nil
}

func (ms *MultiSearcher) Search(q Query, opts *SearchOptions) (*TopDocs, error) {
	start := time.Now()
	opts = opts.orDefault()
	if err := checkSearchArgs(opts.NumDocs, opts.FirstDoc); err != nil {
		return nil, err
	}
	w, err := ms.CreateWeight(q)
	if err != nil {
		return nil, err
	}
	td, err := ms.SearchWeight(w, opts)
	if err != nil {
		return nil, err
	}
	kind := searchKindTop
	if opts.sorted() {
		kind = searchKindSorted
	}
	ms.metrics.observe(kind, td.TotalHits, start)
	return td, nil
}

/*
SearchWeight asks every sub-searcher for its best first+num hits and
merges them into one window. Sorted hits are merged on the sort
values they carry.
*/
func (ms *MultiSearcher) SearchWeight(w Weight, opts *SearchOptions) (*TopDocs, error) {
	opts = opts.orDefault()
	if err := checkSearchArgs(opts.NumDocs, opts.FirstDoc); err != nil {
		return nil, err
	}
	capacity := windowCapacity(opts.FirstDoc, opts.NumDocs, ms.maxDoc)
	less := hitLess
	if opts.sorted() {
		less = FieldDocLess
	}
	merged := &TopDocsCollector{pq: util.NewPriorityQueue(capacity, less)}
	if capacity == 0 {
		return merged.TopDocsRange(opts.FirstDoc, opts.NumDocs), nil
	}

	subOpts := *opts
	subOpts.FirstDoc, subOpts.NumDocs = 0, capacity
	for i, s := range ms.searchers {
		td, err := s.SearchWeight(w, &subOpts)
		if err != nil {
			return nil, err
		}
		start := ms.starts[i]
		for _, hit := range td.ScoreDocs {
			hit.Doc += start
			hit.shardIndex = i
			for j, c := range hit.Fields {
				if c.Type == SORT_TYPE_DOC {
					hit.Fields[j].Value = hit.Doc
				}
			}
			merged.collectHit(hit)
		}
		if td.MaxScore > merged.MaxScore {
			merged.MaxScore = td.MaxScore
		}
		merged.TotalHits += td.TotalHits
	}
	return merged.TopDocsRange(opts.FirstDoc, opts.NumDocs), nil
}

func (ms *MultiSearcher) SearchEach(q Query, filter Filter, pf PostFilter, fn func(doc int, score float32)) error {
	start := time.Now()
	w, err := ms.CreateWeight(q)
	if err != nil {
		return err
	}
	hits := 0
	err = ms.SearchEachWeight(w, filter, pf, func(doc int, score float32) {
		hits++
		fn(doc, score)
	})
	if err != nil {
		return err
	}
	ms.metrics.observe(searchKindEach, hits, start)
	return nil
}

func (ms *MultiSearcher) SearchEachWeight(w Weight, filter Filter, pf PostFilter, fn func(doc int, score float32)) error {
	for i, s := range ms.searchers {
		start := ms.starts[i]
		err := s.SearchEachWeight(w, filter, pf, func(doc int, score float32) {
			fn(doc+start, score)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (ms *MultiSearcher) SearchUnscored(q Query, limit, offset int) ([]int, error) {
	start := time.Now()
	w, err := ms.CreateWeight(q)
	if err != nil {
		return nil, err
	}
	docs, err := ms.SearchUnscoredWeight(w, limit, offset)
	if err != nil {
		return nil, err
	}
	ms.metrics.observe(searchKindUnscored, len(docs), start)
	return docs, nil
}

func (ms *MultiSearcher) SearchUnscoredWeight(w Weight, limit, offset int) ([]int, error) {
	if limit <= 0 {
		return nil, argErrorf(":limit was set to %v but should be greater than 0", limit)
	}
	if offset < 0 {
		return nil, argErrorf(":offset was set to %v but should be greater than or equal to 0", offset)
	}
	docs := []int{}
	for i := 0; len(docs) < limit && i < len(ms.searchers); i++ {
		// skip sub-searchers entirely before offset
		if offset >= ms.starts[i+1] {
			continue
		}
		start := ms.starts[i]
		subOffset := 0
		if offset > start {
			subOffset = offset - start
		}
		sub, err := ms.searchers[i].SearchUnscoredWeight(w, limit-len(docs), subOffset)
		if err != nil {
			return nil, err
		}
		for _, doc := range sub {
			docs = append(docs, doc+start)
		}
	}
	return docs, nil
}

func (ms *MultiSearcher) Explain(q Query, doc int) (*Explanation, error) {
	start := time.Now()
	w, err := ms.CreateWeight(q)
	if err != nil {
		return nil, err
	}
	expl, err := ms.ExplainWeight(w, doc)
	if err != nil {
		return nil, err
	}
	ms.metrics.observe(searchKindExplain, 0, start)
	return expl, nil
}

// ExplainWeight routes doc to the sub-searcher holding it.
func (ms *MultiSearcher) ExplainWeight(w Weight, doc int) (*Explanation, error) {
	if doc < 0 || doc >= ms.maxDoc {
		return nil, argErrorf("doc %v is out of range [0, %v)", doc, ms.maxDoc)
	}
	i := ms.SearcherIndex(doc)
	return ms.searchers[i].ExplainWeight(w, doc-ms.starts[i])
}

// Close closes the sub-searchers if they are owned.
func (ms *MultiSearcher) Close() (err error) {
	if !ms.closeSubs {
		return nil
	}
	for _, s := range ms.searchers {
		if e := s.Close(); e != nil && err == nil {
			err = e
		}
	}
	return
}

func (ms *MultiSearcher) String() string {
	return fmt.Sprintf("MultiSearcher(%v searchers, max_doc=%v)", len(ms.searchers), ms.maxDoc)
}
