package spans

import (
	"fmt"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
	"github.com/balzaczyy/gosearch/core/search"
	. "github.com/balzaczyy/gosearch/core/search/model"
)

// search/spans/SpanNearQuery.java

/*
Matches spans which are near one another. One can specify slop, the
maximum number of intervening unmatched positions, as well as whether
matches are required to be in-order.
*/
type SpanNearQuery struct {
	*search.AbstractQuery
	field   string
	clauses []SpanQuery
	slop    int
	inOrder bool
}

func NewSpanNearQuery(slop int, inOrder bool, clauses ...SpanQuery) (*SpanNearQuery, error) {
	ans := &SpanNearQuery{slop: slop, inOrder: inOrder}
	ans.AbstractQuery = search.NewAbstractQuery(ans)
	for _, c := range clauses {
		if err := ans.AddClause(c); err != nil {
			return nil, err
		}
	}
	return ans, nil
}

// Adds a clause. All clauses must share the field of the first one.
func (q *SpanNearQuery) AddClause(clause SpanQuery) error {
	if len(q.clauses) == 0 {
		q.field = clause.Field()
	} else if err := checkField("SpanNearQuery", q.field, clause); err != nil {
		return err
	}
	q.clauses = append(q.clauses, clause)
	return nil
}

func (q *SpanNearQuery) Clauses() []SpanQuery { return q.clauses }
func (q *SpanNearQuery) Field() string        { return q.field }
func (q *SpanNearQuery) Slop() int            { return q.slop }
func (q *SpanNearQuery) InOrder() bool        { return q.inOrder }

func (q *SpanNearQuery) SpanTerms() (terms []string) {
	for _, c := range q.clauses {
		terms = mergeTerms(terms, c.SpanTerms())
	}
	return
}

func (q *SpanNearQuery) Spans(r index.IndexReader) (SpanEnum, error) {
	switch len(q.clauses) {
	case 0:
		return emptySpans{}, nil
	case 1:
		return q.clauses[0].Spans(r)
	}
	subs := make([]SpanEnum, 0, len(q.clauses))
	for _, c := range q.clauses {
		sub, err := c.Spans(r)
		if err != nil {
			closeSpans(subs...)
			return nil, err
		}
		subs = append(subs, sub)
	}
	return &nearSpans{
		query:     q,
		subs:      subs,
		doc:       -1,
		start:     -1,
		end:       -1,
		firstTime: true,
	}, nil
}

func (q *SpanNearQuery) CreateWeight(s search.Searcher) (search.Weight, error) {
	return newSpanWeight(q, s), nil
}

func (q *SpanNearQuery) Rewrite(r index.IndexReader) (search.Query, error) {
	clauses, err := rewriteClauses(q.clauses, r)
	if err != nil || clauses == nil {
		return q, err
	}
	clone := search.CloneQuery(q).(*SpanNearQuery)
	clone.clauses = clauses
	return clone, nil
}

func (q *SpanNearQuery) ExtractTerms(terms model.TermSet) {
	for _, c := range q.clauses {
		c.ExtractTerms(terms)
	}
}

func (q *SpanNearQuery) ToString(field string) string {
	return "span_near[" + clausesString(q.clauses, field) + "]"
}

func (q *SpanNearQuery) QueryHash() uint64 {
	hash := clausesHash(q.field, q.clauses) ^ uint64(q.slop)
	hash <<= 1
	if q.inOrder {
		hash |= 1
	}
	return hash
}

func (q *SpanNearQuery) QueryEqual(o search.Query) bool {
	other := o.(*SpanNearQuery)
	return q.field == other.field &&
		q.slop == other.slop &&
		q.inOrder == other.inOrder &&
		clausesEqual(q.clauses, other.clauses)
}

/*
nearSpans finds windows in which every sub-span takes part, with at
most slop positions of the window left uncovered:

	end - start - sum(sub-span lengths) <= slop

In order, sub-span i+1 may not start before sub-span i, and the window
runs from the first sub-span's start to the last one's end. Unordered,
the window runs from the least start to the greatest end.

Both sweeps only ever move the sub-span that starts the window, so
every window of a document is considered before the enumerators leave
it.
*/
type nearSpans struct {
	query     *SpanNearQuery
	subs      []SpanEnum
	current   int // the sub-span to advance on the next call
	doc       int
	start     int
	end       int
	firstTime bool
}

func (s *nearSpans) Next() bool {
	if s.doc == NO_MORE_DOCS {
		return false
	}
	if s.firstTime {
		s.firstTime = false
		for _, sub := range s.subs {
			if !sub.Next() {
				return s.exhaust()
			}
		}
	} else if !s.subs[s.current].Next() {
		return s.exhaust()
	}
	return s.nextMatch()
}

func (s *nearSpans) SkipTo(target int) bool {
	if s.doc == NO_MORE_DOCS {
		return false
	}
	if !s.firstTime && s.doc >= target {
		return true
	}
	s.firstTime = false
	for _, sub := range s.subs {
		if sub.Doc() < target && !sub.SkipTo(target) {
			return s.exhaust()
		}
	}
	return s.nextMatch()
}

func (s *nearSpans) exhaust() bool {
	s.doc, s.start, s.end = NO_MORE_DOCS, -1, -1
	return false
}

// Moves the sub-spans forward until they all sit on one document.
func (s *nearSpans) toSameDoc() bool {
	for {
		target, same := s.subs[0].Doc(), true
		for _, sub := range s.subs[1:] {
			if doc := sub.Doc(); doc != target {
				same = false
				if doc > target {
					target = doc
				}
			}
		}
		if same {
			return true
		}
		for _, sub := range s.subs {
			if sub.Doc() < target && !sub.SkipTo(target) {
				return false
			}
		}
	}
}

func (s *nearSpans) nextMatch() bool {
	if !s.toSameDoc() {
		return s.exhaust()
	}
	var ok bool
	if s.query.inOrder {
		ok = s.nextOrderedMatch()
	} else {
		ok = s.nextUnorderedMatch()
	}
	if !ok {
		return s.exhaust()
	}
	return true
}

// Advances sub, then realigns all sub-spans if it left the document.
func (s *nearSpans) advance(sub SpanEnum) bool {
	doc := sub.Doc()
	if !sub.Next() {
		return false
	}
	return sub.Doc() == doc || s.toSameDoc()
}

func (s *nearSpans) nextUnorderedMatch() bool {
	for {
		minIdx, minStart, maxEnd, lengths := 0, s.subs[0].Start(), 0, 0
		for i, sub := range s.subs {
			start, end := sub.Start(), sub.End()
			if start < minStart {
				minIdx, minStart = i, start
			}
			if end > maxEnd {
				maxEnd = end
			}
			lengths += end - start
		}
		if maxEnd-minStart-lengths <= s.query.slop { // we have a match
			s.doc, s.start, s.end = s.subs[minIdx].Doc(), minStart, maxEnd
			s.current = minIdx // the minimum span moves next time around
			return true
		}
		if !s.advance(s.subs[minIdx]) {
			return false
		}
	}
}

// Sub-span b may follow a in an ordered match.
func spansOrdered(a, b SpanEnum) bool {
	return a.Start() < b.Start() || (a.Start() == b.Start() && a.End() <= b.End())
}

func (s *nearSpans) nextOrderedMatch() bool {
	for {
		first := s.subs[0]
		doc := first.Doc()
		prev := first
		lengths := first.End() - first.Start()
		aligned := true
		for _, sub := range s.subs[1:] {
			for sub.Doc() == doc && !spansOrdered(prev, sub) {
				if !sub.Next() {
					return false
				}
			}
			if sub.Doc() != doc { // nothing left to follow prev on doc
				aligned = false
				break
			}
			lengths += sub.End() - sub.Start()
			prev = sub
		}
		if !aligned {
			if !s.toSameDoc() {
				return false
			}
			continue
		}
		start, end := first.Start(), prev.End()
		if end-start-lengths <= s.query.slop { // we have a match
			s.doc, s.start, s.end = doc, start, end
			s.current = 0 // the first span always moves next time around
			return true
		}
		if !s.advance(first) {
			return false
		}
	}
}

func (s *nearSpans) Doc() int     { return s.doc }
func (s *nearSpans) Start() int   { return s.start }
func (s *nearSpans) End() int     { return s.end }
func (s *nearSpans) Close() error { return closeSpans(s.subs...) }

func (s *nearSpans) String() string {
	return fmt.Sprintf("NearSpans(%v)@%v", s.query.ToString(""), spanPosition(s))
}
