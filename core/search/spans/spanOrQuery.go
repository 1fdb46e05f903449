package spans

import (
	"fmt"
	"strings"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
	"github.com/balzaczyy/gosearch/core/search"
	. "github.com/balzaczyy/gosearch/core/search/model"
	"github.com/balzaczyy/gosearch/core/util"
)

// search/spans/SpanOrQuery.java

/* Matches the union of its clauses. */
type SpanOrQuery struct {
	*search.AbstractQuery
	field   string
	clauses []SpanQuery
}

func NewSpanOrQuery(clauses ...SpanQuery) (*SpanOrQuery, error) {
	ans := &SpanOrQuery{}
	ans.AbstractQuery = search.NewAbstractQuery(ans)
	for _, c := range clauses {
		if err := ans.AddClause(c); err != nil {
			return nil, err
		}
	}
	return ans, nil
}

// Adds a clause. All clauses must share the field of the first one.
func (q *SpanOrQuery) AddClause(clause SpanQuery) error {
	if len(q.clauses) == 0 {
		q.field = clause.Field()
	} else if err := checkField("SpanOrQuery", q.field, clause); err != nil {
		return err
	}
	q.clauses = append(q.clauses, clause)
	return nil
}

func (q *SpanOrQuery) Clauses() []SpanQuery { return q.clauses }
func (q *SpanOrQuery) Field() string        { return q.field }

func (q *SpanOrQuery) SpanTerms() (terms []string) {
	for _, c := range q.clauses {
		terms = mergeTerms(terms, c.SpanTerms())
	}
	return
}

func (q *SpanOrQuery) Spans(r index.IndexReader) (SpanEnum, error) {
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
	return &orSpans{
		query:     q,
		subs:      subs,
		queue:     util.NewPriorityQueue(len(subs), spanLess),
		firstTime: true,
	}, nil
}

func (q *SpanOrQuery) CreateWeight(s search.Searcher) (search.Weight, error) {
	return newSpanWeight(q, s), nil
}

func (q *SpanOrQuery) Rewrite(r index.IndexReader) (search.Query, error) {
	clauses, err := rewriteClauses(q.clauses, r)
	if err != nil || clauses == nil {
		return q, err
	}
	clone := search.CloneQuery(q).(*SpanOrQuery)
	clone.clauses = clauses
	return clone, nil
}

func (q *SpanOrQuery) ExtractTerms(terms model.TermSet) {
	for _, c := range q.clauses {
		c.ExtractTerms(terms)
	}
}

func (q *SpanOrQuery) ToString(field string) string {
	return "span_or[" + clausesString(q.clauses, field) + "]"
}

func clausesString(clauses []SpanQuery, field string) string {
	parts := make([]string, len(clauses))
	for i, c := range clauses {
		parts[i] = c.ToString(field)
	}
	return strings.Join(parts, ",")
}

func (q *SpanOrQuery) QueryHash() uint64 {
	return clausesHash(q.field, q.clauses)
}

func clausesHash(field string, clauses []SpanQuery) uint64 {
	hash := search.StringHash(field)
	for _, c := range clauses {
		hash ^= c.Hash()
	}
	return hash
}

func (q *SpanOrQuery) QueryEqual(o search.Query) bool {
	other := o.(*SpanOrQuery)
	return q.field == other.field && clausesEqual(q.clauses, other.clauses)
}

func clausesEqual(a, b []SpanQuery) bool {
	if len(a) != len(b) {
		return false
	}
	for i, c := range a {
		if !c.Equal(b[i]) {
			return false
		}
	}
	return true
}

/*
orSpans merges its sub-spans in (doc, start, end) order. The current
span is the top of the queue.
*/
type orSpans struct {
	query     *SpanOrQuery
	subs      []SpanEnum
	queue     *util.PriorityQueue[SpanEnum]
	firstTime bool
}

func (s *orSpans) Next() bool {
	if s.firstTime { // first time -- initialize
		for _, sub := range s.subs {
			if sub.Next() { // move to first entry
				s.queue.Push(sub)
			}
		}
		s.firstTime = false
		return s.queue.Len() != 0
	}
	if s.queue.Len() == 0 {
		return false // all done
	}
	if s.queue.Top().Next() { // move to next
		s.queue.UpdateTop()
		return true
	}
	s.queue.Pop() // exhausted a clause
	return s.queue.Len() != 0
}

func (s *orSpans) SkipTo(target int) bool {
	if s.firstTime { // first time -- initialize
		for _, sub := range s.subs {
			if sub.SkipTo(target) { // move to target
				s.queue.Push(sub)
			}
		}
		s.firstTime = false
		return s.queue.Len() != 0
	}
	for s.queue.Len() > 0 && s.queue.Top().Doc() < target {
		if s.queue.Top().SkipTo(target) {
			s.queue.UpdateTop()
		} else {
			s.queue.Pop()
		}
	}
	return s.queue.Len() != 0
}

func (s *orSpans) Doc() int {
	switch {
	case s.firstTime:
		return -1
	case s.queue.Len() == 0:
		return NO_MORE_DOCS
	}
	return s.queue.Top().Doc()
}

func (s *orSpans) Start() int {
	if s.firstTime || s.queue.Len() == 0 {
		return -1
	}
	return s.queue.Top().Start()
}

func (s *orSpans) End() int {
	if s.firstTime || s.queue.Len() == 0 {
		return -1
	}
	return s.queue.Top().End()
}

func (s *orSpans) Close() error { return closeSpans(s.subs...) }

func (s *orSpans) String() string {
	return fmt.Sprintf("OrSpans(%v)@%v", s.query.ToString(""), spanPosition(s))
}
