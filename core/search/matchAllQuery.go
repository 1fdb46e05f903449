package search

import (
	"fmt"

	"github.com/balzaczyy/gosearch/core/index"
	. "github.com/balzaczyy/gosearch/core/search/model"
)

// search/MatchAllDocsQuery.java

/* A query that matches all live documents, scoring each with its boost. */
type MatchAllQuery struct {
	*AbstractQuery
}

func NewMatchAllQuery() *MatchAllQuery {
	ans := &MatchAllQuery{}
	ans.AbstractQuery = NewAbstractQuery(ans)
	return ans
}

func (q *MatchAllQuery) CreateWeight(s Searcher) (Weight, error) {
	return &MatchAllWeight{NewWeightImpl(q, s.Similarity(), 1)}, nil
}

func (q *MatchAllQuery) ToString(field string) string {
	if q.boost == 1 {
		return "*"
	}
	return "*" + formatBoost(q.boost)
}

func (q *MatchAllQuery) QueryHash() uint64       { return 0 }
func (q *MatchAllQuery) QueryEqual(o Query) bool { return true }

type MatchAllWeight struct {
	*WeightImpl
}

func (w *MatchAllWeight) Scorer(r index.IndexReader) (Scorer, error) {
	return &MatchAllScorer{reader: r, maxDoc: r.MaxDoc(), score: w.value, doc: -1}, nil
}

func (w *MatchAllWeight) Explain(r index.IndexReader, doc int) (*Explanation, error) {
	if r.IsDeleted(doc) {
		return NewExplanation(0, "MatchAllQuery: doc %v was deleted", doc), nil
	}
	return NewExplanation(w.value, "MatchAllQuery: product of:").
		AddDetail(NewExplanation(w.query.Boost(), "boost")).
		AddDetail(NewExplanation(w.qnorm, "query_norm")), nil
}

func (w *MatchAllWeight) String() string {
	return fmt.Sprintf("MatchAllWeight(%v)", w.value)
}

type MatchAllScorer struct {
	reader index.IndexReader
	maxDoc int
	score  float32
	doc    int
}

func (s *MatchAllScorer) DocId() int { return s.doc }

func (s *MatchAllScorer) NextDoc() int {
	for s.doc < s.maxDoc-1 {
		s.doc++
		if !s.reader.IsDeleted(s.doc) {
			return s.doc
		}
	}
	s.doc = NO_MORE_DOCS
	return s.doc
}

func (s *MatchAllScorer) Advance(target int) int {
	if s.doc == NO_MORE_DOCS {
		return s.doc
	}
	if target > s.doc {
		s.doc = target - 1
	}
	return s.NextDoc()
}

func (s *MatchAllScorer) Score() float32 { return s.score }
func (s *MatchAllScorer) Close() error   { return nil }

func (s *MatchAllScorer) Explain(doc int) *Explanation {
	return NewExplanation(1, "MatchAllScorer")
}
