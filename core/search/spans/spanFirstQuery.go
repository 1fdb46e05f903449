package spans

import (
	"fmt"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
	"github.com/balzaczyy/gosearch/core/search"
)

// search/spans/SpanFirstQuery.java

/* Matches spans near the beginning of a field. */
type SpanFirstQuery struct {
	*search.AbstractQuery
	match SpanQuery
	end   int
}

/*
NewSpanFirstQuery constructs a query matching spans of match which
end at or before end.
*/
func NewSpanFirstQuery(match SpanQuery, end int) *SpanFirstQuery {
	ans := &SpanFirstQuery{match: match, end: end}
	ans.AbstractQuery = search.NewAbstractQuery(ans)
	return ans
}

func (q *SpanFirstQuery) Match() SpanQuery    { return q.match }
func (q *SpanFirstQuery) End() int            { return q.end }
func (q *SpanFirstQuery) Field() string       { return q.match.Field() }
func (q *SpanFirstQuery) SpanTerms() []string { return q.match.SpanTerms() }

func (q *SpanFirstQuery) Spans(r index.IndexReader) (SpanEnum, error) {
	sub, err := q.match.Spans(r)
	if err != nil {
		return nil, err
	}
	return &firstSpans{query: q, sub: sub}, nil
}

func (q *SpanFirstQuery) CreateWeight(s search.Searcher) (search.Weight, error) {
	return newSpanWeight(q, s), nil
}

func (q *SpanFirstQuery) Rewrite(r index.IndexReader) (search.Query, error) {
	rq, err := rewriteClause(q.match, r)
	if err != nil {
		return nil, err
	}
	if rq == q.match {
		return q, nil
	}
	clone := search.CloneQuery(q).(*SpanFirstQuery)
	clone.match = rq
	return clone, nil
}

func (q *SpanFirstQuery) ExtractTerms(terms model.TermSet) {
	q.match.ExtractTerms(terms)
}

func (q *SpanFirstQuery) ToString(field string) string {
	return fmt.Sprintf("span_first(%v, %v)", q.match.ToString(field), q.end)
}

func (q *SpanFirstQuery) QueryHash() uint64 {
	return search.StringHash(q.Field()) ^ q.match.Hash() ^ uint64(q.end)
}

func (q *SpanFirstQuery) QueryEqual(o search.Query) bool {
	other := o.(*SpanFirstQuery)
	return q.end == other.end && q.match.Equal(other.match)
}

type firstSpans struct {
	query *SpanFirstQuery
	sub   SpanEnum
}

func (s *firstSpans) Next() bool {
	for s.sub.Next() { // scan to next match
		if s.sub.End() <= s.query.end {
			return true
		}
	}
	return false
}

func (s *firstSpans) SkipTo(target int) bool {
	if !s.sub.SkipTo(target) {
		return false
	}
	if s.sub.End() <= s.query.end { // there is a match
		return true
	}
	return s.Next()
}

func (s *firstSpans) Doc() int     { return s.sub.Doc() }
func (s *firstSpans) Start() int   { return s.sub.Start() }
func (s *firstSpans) End() int     { return s.sub.End() }
func (s *firstSpans) Close() error { return s.sub.Close() }

func (s *firstSpans) String() string {
	return fmt.Sprintf("FirstSpans(%v)@%v", s.query.ToString(""), spanPosition(s))
}
