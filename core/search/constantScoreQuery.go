package search

import (
	"fmt"

	"github.com/balzaczyy/gosearch/core/index"
	. "github.com/balzaczyy/gosearch/core/search/model"
	"github.com/balzaczyy/gosearch/core/util"
)

// search/ConstantScoreQuery.java

/*
A query that wraps a filter and simply returns a constant score equal
to the query boost for every document in the filter.
*/
type ConstantScoreQuery struct {
	*AbstractQuery
	filter Filter
}

func NewConstantScoreQuery(filter Filter) *ConstantScoreQuery {
	ans := &ConstantScoreQuery{filter: filter}
	ans.AbstractQuery = NewAbstractQuery(ans)
	return ans
}

func (q *ConstantScoreQuery) Filter() Filter { return q.filter }

func (q *ConstantScoreQuery) CreateWeight(s Searcher) (Weight, error) {
	return &ConstantScoreWeight{NewWeightImpl(q, s.Similarity(), 1), q}, nil
}

func (q *ConstantScoreQuery) ToString(field string) string {
	if q.boost == 1 {
		return fmt.Sprintf("ConstantScore(%v)", q.filter)
	}
	return fmt.Sprintf("ConstantScore(%v)%v", q.filter, formatBoost(q.boost))
}

func (q *ConstantScoreQuery) QueryHash() uint64 {
	return q.filter.Hash()
}

func (q *ConstantScoreQuery) QueryEqual(o Query) bool {
	return q.filter.Equal(o.(*ConstantScoreQuery).filter)
}

type ConstantScoreWeight struct {
	*WeightImpl
	owner *ConstantScoreQuery
}

func (w *ConstantScoreWeight) Scorer(r index.IndexReader) (Scorer, error) {
	bits, err := w.owner.filter.Bits(r)
	if err != nil {
		return nil, err
	}
	return newBitsScorer(bits, w.value, "ConstantScoreScorer"), nil
}

func (w *ConstantScoreWeight) Explain(r index.IndexReader, doc int) (*Explanation, error) {
	bits, err := w.owner.filter.Bits(r)
	if err != nil {
		return nil, err
	}
	if !bits.At(doc) {
		return NewExplanation(0, "ConstantScoreQuery(%v), does not match id %v", w.owner.filter, doc), nil
	}
	return NewExplanation(w.value, "ConstantScoreQuery(%v), product of:", w.owner.filter).
		AddDetail(NewExplanation(w.owner.boost, "boost")).
		AddDetail(NewExplanation(w.qnorm, "query_norm")), nil
}

func (w *ConstantScoreWeight) String() string {
	return fmt.Sprintf("ConstantScoreWeight(%v)", w.value)
}

/* bitsScorer walks a DocSet, scoring every doc the same. */
type bitsScorer struct {
	bits  *util.DocSet
	score float32
	name  string
	doc   int
}

func newBitsScorer(bits *util.DocSet, score float32, name string) *bitsScorer {
	return &bitsScorer{bits: bits, score: score, name: name, doc: -1}
}

func (s *bitsScorer) DocId() int { return s.doc }

func (s *bitsScorer) NextDoc() int {
	return s.Advance(s.doc + 1)
}

func (s *bitsScorer) Advance(target int) int {
	if s.doc == NO_MORE_DOCS {
		return s.doc
	}
	if target <= s.doc {
		target = s.doc + 1
	}
	if s.doc = s.bits.NextSetBit(target); s.doc < 0 {
		s.doc = NO_MORE_DOCS
	}
	return s.doc
}

func (s *bitsScorer) Score() float32 { return s.score }
func (s *bitsScorer) Close() error   { return nil }

func (s *bitsScorer) Explain(doc int) *Explanation {
	if !s.bits.At(doc) {
		return NewExplanation(0, "%v does not match doc %v", s.name, doc)
	}
	return NewExplanation(1, s.name)
}
