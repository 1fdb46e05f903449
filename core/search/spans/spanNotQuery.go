package spans

import (
	"fmt"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
	"github.com/balzaczyy/gosearch/core/search"
)

// search/spans/SpanNotQuery.java

/* Removes the matches which overlap with another span query. */
type SpanNotQuery struct {
	*search.AbstractQuery
	include SpanQuery
	exclude SpanQuery
}

/*
NewSpanNotQuery constructs a query matching the spans of include
which have no overlap with spans of exclude.
*/
func NewSpanNotQuery(include, exclude SpanQuery) (*SpanNotQuery, error) {
	if include.Field() != exclude.Field() {
		return nil, search.ArgErrorf("All clauses in a SpanQuery must have the same field. "+
			"Attempted to add a SpanQuery with field \"%v\" along with a SpanQuery with "+
			"field \"%v\" to a SpanNotQuery", include.Field(), exclude.Field())
	}
	ans := &SpanNotQuery{include: include, exclude: exclude}
	ans.AbstractQuery = search.NewAbstractQuery(ans)
	return ans, nil
}

func (q *SpanNotQuery) Include() SpanQuery { return q.include }
func (q *SpanNotQuery) Exclude() SpanQuery { return q.exclude }
func (q *SpanNotQuery) Field() string      { return q.include.Field() }

// Only the included terms contribute to the weight.
func (q *SpanNotQuery) SpanTerms() []string { return q.include.SpanTerms() }

func (q *SpanNotQuery) Spans(r index.IndexReader) (SpanEnum, error) {
	inc, err := q.include.Spans(r)
	if err != nil {
		return nil, err
	}
	exc, err := q.exclude.Spans(r)
	if err != nil {
		inc.Close()
		return nil, err
	}
	return &notSpans{query: q, inc: inc, exc: exc, moreInc: true, firstTime: true}, nil
}

func (q *SpanNotQuery) CreateWeight(s search.Searcher) (search.Weight, error) {
	return newSpanWeight(q, s), nil
}

func (q *SpanNotQuery) Rewrite(r index.IndexReader) (search.Query, error) {
	inc, err := rewriteClause(q.include, r)
	if err != nil {
		return nil, err
	}
	exc, err := rewriteClause(q.exclude, r)
	if err != nil {
		return nil, err
	}
	if inc == q.include && exc == q.exclude {
		return q, nil
	}
	clone := search.CloneQuery(q).(*SpanNotQuery)
	clone.include, clone.exclude = inc, exc
	return clone, nil
}

func (q *SpanNotQuery) ExtractTerms(terms model.TermSet) {
	q.include.ExtractTerms(terms)
}

func (q *SpanNotQuery) ToString(field string) string {
	return fmt.Sprintf("span_not(inc:<%v>, exc:<%v>)", q.include.ToString(field), q.exclude.ToString(field))
}

func (q *SpanNotQuery) QueryHash() uint64 {
	return search.StringHash(q.Field()) ^ q.include.Hash() ^ q.exclude.Hash()
}

func (q *SpanNotQuery) QueryEqual(o search.Query) bool {
	other := o.(*SpanNotQuery)
	return q.include.Equal(other.include) && q.exclude.Equal(other.exclude)
}

/*
notSpans passes the include spans through, dropping each one that an
exclude span on the same document overlaps. The exclude enumerator
only moves forward, lazily.
*/
type notSpans struct {
	query     *SpanNotQuery
	inc       SpanEnum
	exc       SpanEnum
	moreInc   bool
	moreExc   bool
	firstTime bool
}

func (s *notSpans) init() {
	if s.firstTime {
		s.moreExc = s.exc.Next()
		s.firstTime = false
	}
}

// Skips exclude spans ending before inc and reports whether the
// current include span survives.
func (s *notSpans) accepted() bool {
	inc, exc := s.inc, s.exc
	if s.moreExc && inc.Doc() > exc.Doc() { // skip excl
		s.moreExc = exc.SkipTo(inc.Doc())
	}
	for s.moreExc && inc.Doc() == exc.Doc() && exc.End() <= inc.Start() { // while excl is before
		s.moreExc = exc.Next() // increment excl
	}
	return !s.moreExc || inc.Doc() != exc.Doc() || inc.End() <= exc.Start() // no intersection
}

func (s *notSpans) Next() bool {
	s.init()
	if s.moreInc { // move to next incl
		s.moreInc = s.inc.Next()
	}
	for s.moreInc && !s.accepted() {
		s.moreInc = s.inc.Next() // intersected: keep scanning
	}
	return s.moreInc
}

func (s *notSpans) SkipTo(target int) bool {
	s.init()
	if s.moreInc { // move to next incl
		s.moreInc = s.inc.SkipTo(target)
	}
	if !s.moreInc {
		return false
	}
	if s.accepted() { // we found a match
		return true
	}
	return s.Next() // scan to next match
}

func (s *notSpans) Doc() int     { return s.inc.Doc() }
func (s *notSpans) Start() int   { return s.inc.Start() }
func (s *notSpans) End() int     { return s.inc.End() }
func (s *notSpans) Close() error { return closeSpans(s.inc, s.exc) }

func (s *notSpans) String() string {
	return fmt.Sprintf("NotSpans(%v)@%v", s.query.ToString(""), spanPosition(s))
}
