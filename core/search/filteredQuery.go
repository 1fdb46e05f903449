package search

import (
	"fmt"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
	. "github.com/balzaczyy/gosearch/core/search/model"
	"github.com/balzaczyy/gosearch/core/util"
)

// search/FilteredQuery.java

/*
A query that applies a filter to the results of another query. Scores
are those of the wrapped query.
*/
type FilteredQuery struct {
	*AbstractQuery
	query  Query
	filter Filter
}

func NewFilteredQuery(query Query, filter Filter) *FilteredQuery {
	ans := &FilteredQuery{query: query, filter: filter}
	ans.AbstractQuery = NewAbstractQuery(ans)
	return ans
}

func (q *FilteredQuery) Query() Query   { return q.query }
func (q *FilteredQuery) Filter() Filter { return q.filter }

func (q *FilteredQuery) CreateWeight(s Searcher) (Weight, error) {
	sub, err := q.query.CreateWeight(s)
	if err != nil {
		return nil, err
	}
	return &FilteredWeight{owner: q, sub: sub}, nil
}

func (q *FilteredQuery) Rewrite(r index.IndexReader) (Query, error) {
	rewritten, err := q.query.Rewrite(r)
	if err != nil {
		return nil, err
	}
	if rewritten == q.query {
		return q, nil
	}
	clone := CloneQuery(q).(*FilteredQuery)
	clone.query = rewritten
	return clone, nil
}

func (q *FilteredQuery) ExtractTerms(terms model.TermSet) {
	q.query.ExtractTerms(terms)
}

func (q *FilteredQuery) ToString(field string) string {
	s := fmt.Sprintf("FilteredQuery(query:%v, filter:%v)", q.query.ToString(field), q.filter)
	if q.boost != 1 {
		s += formatBoost(q.boost)
	}
	return s
}

func (q *FilteredQuery) QueryHash() uint64 {
	return q.query.Hash()<<1 ^ q.filter.Hash()
}

func (q *FilteredQuery) QueryEqual(o Query) bool {
	other := o.(*FilteredQuery)
	return q.query.Equal(other.query) && q.filter.Equal(other.filter)
}

type FilteredWeight struct {
	owner *FilteredQuery
	sub   Weight
}

func (w *FilteredWeight) Query() Query                   { return w.owner }
func (w *FilteredWeight) Value() float32                 { return w.sub.Value() }
func (w *FilteredWeight) ValueForNormalization() float32 { return w.sub.ValueForNormalization() }
func (w *FilteredWeight) Normalize(norm float32)         { w.sub.Normalize(norm) }

func (w *FilteredWeight) Scorer(r index.IndexReader) (Scorer, error) {
	bits, err := w.owner.filter.Bits(r)
	if err != nil {
		return nil, err
	}
	sub, err := w.sub.Scorer(r)
	if err != nil || sub == nil {
		return nil, err
	}
	return &filteredScorer{sub: sub, bits: bits, doc: -1}, nil
}

func (w *FilteredWeight) Explain(r index.IndexReader, doc int) (*Explanation, error) {
	bits, err := w.owner.filter.Bits(r)
	if err != nil {
		return nil, err
	}
	if !bits.At(doc) {
		return NewExplanation(0, "failure to match filter: %v", w.owner.filter), nil
	}
	return w.sub.Explain(r, doc)
}

func (w *FilteredWeight) String() string {
	return fmt.Sprintf("FilteredQueryWeight(%v)", w.Value())
}

// Skips the docs of sub that are not in bits.
type filteredScorer struct {
	sub  Scorer
	bits *util.DocSet
	doc  int
}

func (s *filteredScorer) DocId() int { return s.doc }

func (s *filteredScorer) toAllowed(doc int) int {
	for ; doc != NO_MORE_DOCS; doc = s.sub.NextDoc() {
		if s.bits.At(doc) {
			break
		}
	}
	s.doc = doc
	return doc
}

func (s *filteredScorer) NextDoc() int {
	if s.doc == NO_MORE_DOCS {
		return s.doc
	}
	return s.toAllowed(s.sub.NextDoc())
}

func (s *filteredScorer) Advance(target int) int {
	if s.doc == NO_MORE_DOCS {
		return s.doc
	}
	return s.toAllowed(s.sub.Advance(target))
}

func (s *filteredScorer) Score() float32               { return s.sub.Score() }
func (s *filteredScorer) Explain(doc int) *Explanation { return s.sub.Explain(doc) }
func (s *filteredScorer) Close() error                 { return s.sub.Close() }
