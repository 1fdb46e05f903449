package search

import (
	"fmt"
	"math"
	"time"

	"github.com/op/go-logging"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
	. "github.com/balzaczyy/gosearch/core/search/model"
	"github.com/balzaczyy/gosearch/core/util"
)

var log = logging.MustGetLogger("search")

// Number of hits returned when no SearchOptions are given.
var DefaultNumDocs = 10

// search/Searcher.java

/*
Searcher runs queries against one index, or several for MultiSearcher.

The *Weight variants take a weight that was already created and
normalized, which is how a MultiSearcher shares collection-wide term
statistics with its sub-searchers.
*/
type Searcher interface {
	// Returns the number of documents containing t.
	DocFreq(t model.Term) int
	// Returns one greater than the largest possible document number.
	MaxDoc() int
	Similarity() Similarity
	Document(doc int) (*index.Document, error)
	// Rewrite rewrites q until it no longer changes.
	Rewrite(q Query) (Query, error)
	// CreateWeight rewrites q and returns its normalized weight.
	CreateWeight(q Query) (Weight, error)
	Search(q Query, opts *SearchOptions) (*TopDocs, error)
	SearchWeight(w Weight, opts *SearchOptions) (*TopDocs, error)
	// SearchEach hands every surviving hit to fn, in document order.
	SearchEach(q Query, filter Filter, pf PostFilter, fn func(doc int, score float32)) error
	SearchEachWeight(w Weight, filter Filter, pf PostFilter, fn func(doc int, score float32)) error
	/*
		SearchUnscored returns up to limit matching documents, starting at
		document number offset. Unlike FirstDoc of Search, offset counts
		documents, not hits.
	*/
	SearchUnscored(q Query, limit, offset int) ([]int, error)
	SearchUnscoredWeight(w Weight, limit, offset int) ([]int, error)
	Explain(q Query, doc int) (*Explanation, error)
	ExplainWeight(w Weight, doc int) (*Explanation, error)
	Close() error
}

/*
SearchOptions selects the window of hits a search returns and how they
are filtered and ordered. A nil *SearchOptions returns the first
DefaultNumDocs hits by score.
*/
type SearchOptions struct {
	// Index of the first hit of the window, 0 based.
	FirstDoc int
	// Size of the window; must be > 0. math.MaxInt32 means all hits.
	NumDocs int
	// Only documents set in the filter's bits are considered.
	Filter Filter
	// Consulted with every hit's score; 0 drops it, a factor below 1
	// scales it.
	PostFilter PostFilter
	// Orders hits by these keys instead of by score.
	Sort *Sort
}

func NewSearchOptions() *SearchOptions {
	return &SearchOptions{NumDocs: DefaultNumDocs}
}

func (opts *SearchOptions) orDefault() *SearchOptions {
	if opts == nil {
		return NewSearchOptions()
	}
	return opts
}

func (opts *SearchOptions) sorted() bool {
	return opts.Sort != nil && opts.Sort.Size() > 0
}

func checkSearchArgs(numDocs, firstDoc int) error {
	if numDocs <= 0 {
		return argErrorf(":num_docs was set to %v but should be greater than 0 : %v <= 0", numDocs, numDocs)
	}
	if firstDoc < 0 {
		return argErrorf(":first_doc was set to %v but should be greater than or equal to 0 : %v < 0", firstDoc, firstDoc)
	}
	return nil
}

// Capacity of the hit queue holding the window [first, first+num).
func windowCapacity(firstDoc, numDocs, maxDoc int) int {
	size := numDocs
	if numDocs != math.MaxInt32 && numDocs <= math.MaxInt32-firstDoc {
		size += firstDoc
	}
	if size > maxDoc {
		size = maxDoc // never more hits than documents
	}
	return size
}

/*
Normalizes a freshly created weight against the query norm of sim.
An infinite or NaN norm (e.g. a zero sum of squared weights) is
replaced by 1.
*/
func normalizeWeight(w Weight, sim Similarity) {
	sum := w.ValueForNormalization()
	norm := sim.QueryNorm(sum)
	if math.IsInf(float64(norm), 0) || math.IsNaN(float64(norm)) {
		norm = 1.0
	}
	w.Normalize(norm)
}

/*
rewriteQuery rewrites q against r until it no longer changes.
*/
func rewriteQuery(q Query, r index.IndexReader) (Query, error) {
	for {
		after, err := q.Rewrite(r)
		if err != nil {
			return nil, err
		}
		if after == q || after.Equal(q) {
			return after, nil
		}
		q = after
	}
}

/*
Drives scorer to exhaustion. Documents outside bits are skipped before
scoring; the post filter sees each remaining score once.
*/
func scoreHits(scorer Scorer, bits *util.DocSet, pf PostFilter, s Searcher, fn func(doc int, score float32)) {
	for doc := scorer.NextDoc(); doc != NO_MORE_DOCS; doc = scorer.NextDoc() {
		if bits != nil && !bits.At(doc) {
			continue
		}
		score := scorer.Score()
		if pf != nil {
			factor := pf(doc, score, s)
			if factor == 0 {
				continue
			}
			if factor < 1 {
				score *= factor
			}
		}
		fn(doc, score)
	}
}

// search/IndexSearcher.java

/* Implements search over a single IndexReader. */
type IndexSearcher struct {
	reader       index.IndexReader
	similarity   Similarity
	fieldIndexes *FieldIndexCache
	metrics      *Metrics
	closeReader  bool
}

func NewIndexSearcher(r index.IndexReader) *IndexSearcher {
	return &IndexSearcher{
		reader:       r,
		similarity:   NewDefaultSimilarity(),
		fieldIndexes: DefaultFieldIndexCache,
	}
}

/* Expert: set the similarity implementation used by this IndexSearcher. */
func (s *IndexSearcher) SetSimilarity(similarity Similarity) {
	s.similarity = similarity
}

// SetMetrics makes the searcher record every search in m.
func (s *IndexSearcher) SetMetrics(m *Metrics) { s.metrics = m }

// SetFieldIndexCache replaces the cache sort field indexes are kept in.
func (s *IndexSearcher) SetFieldIndexCache(c *FieldIndexCache) { s.fieldIndexes = c }

// SetCloseReader makes Close() also close the reader.
func (s *IndexSearcher) SetCloseReader(closeReader bool) { s.closeReader = closeReader }

func (s *IndexSearcher) Reader() index.IndexReader { return s.reader }
func (s *IndexSearcher) Similarity() Similarity    { return s.similarity }
func (s *IndexSearcher) MaxDoc() int               { return s.reader.MaxDoc() }

func (s *IndexSearcher) DocFreq(t model.Term) int {
	return s.reader.DocFreq(t)
}

func (s *IndexSearcher) Document(doc int) (*index.Document, error) {
	return s.reader.Document(doc)
}

func (s *IndexSearcher) Rewrite(q Query) (Query, error) {
	log.Debugf("Rewriting '%v'...", q)
	after, err := rewriteQuery(q, s.reader)
	if err != nil {
		return nil, err
	}
	log.Debugf("After rewrite: %v", after)
	return after, nil
}

func (s *IndexSearcher) CreateWeight(q Query) (Weight, error) {
	query, err := s.Rewrite(q)
	if err != nil {
		return nil, err
	}
	w, err := query.CreateWeight(s)
	if err != nil {
		return nil, err
	}
	normalizeWeight(w, s.similarity)
	log.Debugf("Created %v", w)
	return w, nil
}

/*
Search finds the hits of q in the window of opts. Hits are ordered by
score descending then document ascending, or by opts.Sort.
*/
func (s *IndexSearcher) Search(q Query, opts *SearchOptions) (*TopDocs, error) {
	start := time.Now()
	opts = opts.orDefault()
	if err := checkSearchArgs(opts.NumDocs, opts.FirstDoc); err != nil {
		return nil, err
	}
	w, err := s.CreateWeight(q)
	if err != nil {
		return nil, err
	}
	td, err := s.SearchWeight(w, opts)
	if err != nil {
		return nil, err
	}
	kind := searchKindTop
	if opts.sorted() {
		kind = searchKindSorted
	}
	s.metrics.observe(kind, td.TotalHits, start)
	return td, nil
}

func (s *IndexSearcher) SearchWeight(w Weight, opts *SearchOptions) (*TopDocs, error) {
	opts = opts.orDefault()
	if err := checkSearchArgs(opts.NumDocs, opts.FirstDoc); err != nil {
		return nil, err
	}
	var bits *util.DocSet
	if opts.Filter != nil {
		var err error
		if bits, err = opts.Filter.Bits(s.reader); err != nil {
			return nil, err
		}
	}

	capacity := windowCapacity(opts.FirstDoc, opts.NumDocs, s.reader.MaxDoc())
	var collector *TopDocsCollector
	if opts.sorted() {
		sorter, err := NewSorter(opts.Sort, s.reader, s.fieldIndexes)
		if err != nil {
			return nil, err
		}
		collector = NewTopFieldCollector(capacity, sorter)
	} else {
		collector = NewTopScoreDocCollector(capacity)
	}

	scorer, err := w.Scorer(s.reader)
	if err != nil {
		return nil, err
	}
	if scorer == nil || s.reader.NumDocs() == 0 {
		if scorer != nil {
			if err = scorer.Close(); err != nil {
				return nil, err
			}
		}
		return &TopDocs{ScoreDocs: []*ScoreDoc{}}, nil
	}

	scoreHits(scorer, bits, opts.PostFilter, s, collector.Collect)
	if err = scorer.Close(); err != nil {
		return nil, err
	}
	return collector.TopDocsRange(opts.FirstDoc, opts.NumDocs), nil
}

func (s *IndexSearcher) SearchEach(q Query, filter Filter, pf PostFilter, fn func(doc int, score float32)) error {
	start := time.Now()
	w, err := s.CreateWeight(q)
	if err != nil {
		return err
	}
	hits := 0
	err = s.SearchEachWeight(w, filter, pf, func(doc int, score float32) {
		hits++
		fn(doc, score)
	})
	if err != nil {
		return err
	}
	s.metrics.observe(searchKindEach, hits, start)
	return nil
}

func (s *IndexSearcher) SearchEachWeight(w Weight, filter Filter, pf PostFilter, fn func(doc int, score float32)) error {
	var bits *util.DocSet
	if filter != nil {
		var err error
		if bits, err = filter.Bits(s.reader); err != nil {
			return err
		}
	}
	scorer, err := w.Scorer(s.reader)
	if err != nil || scorer == nil {
		return err
	}
	scoreHits(scorer, bits, pf, s, fn)
	return scorer.Close()
}

func (s *IndexSearcher) SearchUnscored(q Query, limit, offset int) ([]int, error) {
	start := time.Now()
	w, err := s.CreateWeight(q)
	if err != nil {
		return nil, err
	}
	docs, err := s.SearchUnscoredWeight(w, limit, offset)
	if err != nil {
		return nil, err
	}
	s.metrics.observe(searchKindUnscored, len(docs), start)
	return docs, nil
}

func (s *IndexSearcher) SearchUnscoredWeight(w Weight, limit, offset int) ([]int, error) {
	if limit <= 0 {
		return nil, argErrorf(":limit was set to %v but should be greater than 0", limit)
	}
	if offset < 0 {
		return nil, argErrorf(":offset was set to %v but should be greater than or equal to 0", offset)
	}
	docs := []int{}
	scorer, err := w.Scorer(s.reader)
	if err != nil || scorer == nil {
		return docs, err
	}
	for doc := scorer.Advance(offset); doc != NO_MORE_DOCS && len(docs) < limit; doc = scorer.NextDoc() {
		docs = append(docs, doc)
	}
	return docs, scorer.Close()
}

/*
Returns an Explanation that describes how doc scored against query.

This is intended to be used in developing Similarity implementations,
and, for good performance, should not be displayed with every hit.
Computing an explanation is as expensive as executing the query over
the entire index.
*/
func (s *IndexSearcher) Explain(q Query, doc int) (*Explanation, error) {
	start := time.Now()
	w, err := s.CreateWeight(q)
	if err != nil {
		return nil, err
	}
	expl, err := s.ExplainWeight(w, doc)
	if err != nil {
		return nil, err
	}
	s.metrics.observe(searchKindExplain, 0, start)
	return expl, nil
}

func (s *IndexSearcher) ExplainWeight(w Weight, doc int) (*Explanation, error) {
	if doc < 0 || doc >= s.reader.MaxDoc() {
		return nil, argErrorf("doc %v is out of range [0, %v)", doc, s.reader.MaxDoc())
	}
	return w.Explain(s.reader, doc)
}

/*
Close releases the sort field indexes built for the reader, and closes
the reader if the searcher owns it.
*/
func (s *IndexSearcher) Close() error {
	if s.fieldIndexes != nil {
		s.fieldIndexes.Purge(s.reader)
	}
	if s.closeReader {
		return s.reader.Close()
	}
	return nil
}

func (s *IndexSearcher) String() string {
	return fmt.Sprintf("IndexSearcher(%v)", s.reader)
}
