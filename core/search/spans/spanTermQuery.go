package spans

import (
	"fmt"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
	"github.com/balzaczyy/gosearch/core/search"
	. "github.com/balzaczyy/gosearch/core/search/model"
)

// search/spans/SpanTermQuery.java

/* Matches spans containing a term. */
type SpanTermQuery struct {
	*search.AbstractQuery
	term model.Term
}

func NewSpanTermQuery(field, text string) *SpanTermQuery {
	ans := &SpanTermQuery{term: model.NewTerm(field, text)}
	ans.AbstractQuery = search.NewAbstractQuery(ans)
	return ans
}

func (q *SpanTermQuery) Term() model.Term    { return q.term }
func (q *SpanTermQuery) Field() string       { return q.term.Field }
func (q *SpanTermQuery) SpanTerms() []string { return []string{q.term.Text} }

func (q *SpanTermQuery) Spans(r index.IndexReader) (SpanEnum, error) {
	tpe := r.TermPositions()
	tpe.Seek(q.term)
	return newTermSpans(q, tpe), nil
}

func (q *SpanTermQuery) CreateWeight(s search.Searcher) (search.Weight, error) {
	return newSpanWeight(q, s), nil
}

func (q *SpanTermQuery) ExtractTerms(terms model.TermSet) {
	terms.Add(q.term)
}

func (q *SpanTermQuery) ToString(field string) string {
	if q.term.Field == field {
		return fmt.Sprintf("span_terms(%v)", q.term.Text)
	}
	return fmt.Sprintf("span_terms(%v:%v)", q.term.Field, q.term.Text)
}

func (q *SpanTermQuery) QueryHash() uint64 {
	return search.StringHash(q.term.Field) ^ search.StringHash(q.term.Text)
}

func (q *SpanTermQuery) QueryEqual(o search.Query) bool {
	return q.term == o.(*SpanTermQuery).term
}

// search/spans/TermSpans.java

/* One span per occurrence of a term: [position, position+1). */
type termSpans struct {
	query    *SpanTermQuery
	tpe      model.TermDocEnum
	doc      int
	freq     int
	count    int
	position int
}

func newTermSpans(q *SpanTermQuery, tpe model.TermDocEnum) *termSpans {
	return &termSpans{query: q, tpe: tpe, doc: -1, position: -1}
}

func (s *termSpans) Next() bool {
	if s.doc == NO_MORE_DOCS {
		return false
	}
	if s.count == s.freq {
		if !s.tpe.Next() {
			s.doc = NO_MORE_DOCS
			return false
		}
		s.doc = s.tpe.Doc()
		s.freq = s.tpe.Freq()
		s.count = 0
	}
	s.position = s.tpe.NextPosition()
	s.count++
	return true
}

func (s *termSpans) SkipTo(target int) bool {
	if s.doc == NO_MORE_DOCS {
		return false
	}
	if s.doc >= target { // already there
		return true
	}
	if !s.tpe.SkipTo(target) {
		s.doc = NO_MORE_DOCS
		return false
	}
	s.doc = s.tpe.Doc()
	s.freq = s.tpe.Freq()
	s.position = s.tpe.NextPosition()
	s.count = 1
	return true
}

func (s *termSpans) Doc() int     { return s.doc }
func (s *termSpans) Start() int   { return s.position }
func (s *termSpans) End() int     { return s.position + 1 }
func (s *termSpans) Close() error { return s.tpe.Close() }

func (s *termSpans) String() string {
	return fmt.Sprintf("TermSpans(%v)@%v", s.query.ToString(""), spanPosition(s))
}
