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

// Number of terms a SpanMultiTermQuery holds by default.
const DefaultSpanMultiTermCapacity = 1024

/*
SpanMultiTermQuery matches spans containing any of a fixed list of
terms of one field, e.g. the expansion of a SpanPrefixQuery. Terms
added past its capacity are ignored.
*/
type SpanMultiTermQuery struct {
	*search.AbstractQuery
	field    string
	terms    []string
	capacity int
}

func NewSpanMultiTermQuery(field string) *SpanMultiTermQuery {
	return NewSpanMultiTermQueryConf(field, DefaultSpanMultiTermCapacity)
}

func NewSpanMultiTermQueryConf(field string, capacity int) *SpanMultiTermQuery {
	ans := &SpanMultiTermQuery{field: field, capacity: capacity}
	ans.AbstractQuery = search.NewAbstractQuery(ans)
	return ans
}

// Adds term unless the query is full.
func (q *SpanMultiTermQuery) AddTerm(term string) *SpanMultiTermQuery {
	if len(q.terms) < q.capacity {
		q.terms = append(q.terms, term)
	}
	return q
}

func (q *SpanMultiTermQuery) Field() string       { return q.field }
func (q *SpanMultiTermQuery) Terms() []string     { return q.terms }
func (q *SpanMultiTermQuery) SpanTerms() []string { return mergeTerms(nil, q.terms) }

func (q *SpanMultiTermQuery) Spans(r index.IndexReader) (SpanEnum, error) {
	cursors := make([]*termPositionsCursor, len(q.terms))
	for i, text := range q.terms {
		tpe := r.TermPositions()
		tpe.Seek(model.NewTerm(q.field, text))
		cursors[i] = &termPositionsCursor{tpe: tpe, doc: -1, pos: -1}
	}
	return &multiTermSpans{query: q, cursors: cursors, doc: -1, pos: -1}, nil
}

func (q *SpanMultiTermQuery) CreateWeight(s search.Searcher) (search.Weight, error) {
	return newSpanWeight(q, s), nil
}

func (q *SpanMultiTermQuery) ExtractTerms(terms model.TermSet) {
	extractSpanTerms(q, terms)
}

func (q *SpanMultiTermQuery) ToString(field string) string {
	terms := "[" + strings.Join(q.terms, ",") + "]"
	if q.field == field {
		return fmt.Sprintf("span_terms(%v)", terms)
	}
	return fmt.Sprintf("span_terms(%v:%v)", q.field, terms)
}

func (q *SpanMultiTermQuery) QueryHash() uint64 {
	hash := search.StringHash(q.field)
	for _, t := range q.terms {
		hash ^= search.StringHash(t)
	}
	return hash
}

func (q *SpanMultiTermQuery) QueryEqual(o search.Query) bool {
	other := o.(*SpanMultiTermQuery)
	if q.field != other.field || len(q.terms) != len(other.terms) {
		return false
	}
	for i, t := range q.terms {
		if t != other.terms[i] {
			return false
		}
	}
	return true
}

// A postings cursor positioned on one (doc, position) of its term.
type termPositionsCursor struct {
	tpe model.TermDocEnum
	doc int
	pos int
}

func (c *termPositionsCursor) next() bool {
	if c.doc >= 0 {
		if c.pos = c.tpe.NextPosition(); c.pos >= 0 {
			return true
		}
	}
	if !c.tpe.Next() {
		return false
	}
	c.doc = c.tpe.Doc()
	c.pos = c.tpe.NextPosition()
	return true
}

func (c *termPositionsCursor) skipTo(target int) bool {
	if !c.tpe.SkipTo(target) {
		return false
	}
	c.doc = c.tpe.Doc()
	c.pos = c.tpe.NextPosition()
	return true
}

func cursorLess(a, b *termPositionsCursor) bool {
	return a.doc < b.doc || (a.doc == b.doc && a.pos < b.pos)
}

/*
multiTermSpans merges the positions of several terms. Terms sharing a
position yield a single span.

The queue holds the cursors not yet consumed, each on its pending
position, and is built on the first call.
*/
type multiTermSpans struct {
	query   *SpanMultiTermQuery
	cursors []*termPositionsCursor
	queue   *util.PriorityQueue[*termPositionsCursor]
	doc     int
	pos     int
}

func (s *multiTermSpans) init(advance func(c *termPositionsCursor) bool) {
	s.queue = util.NewPriorityQueue(len(s.cursors), cursorLess)
	for _, c := range s.cursors {
		if advance(c) {
			s.queue.Push(c)
		} else {
			c.tpe.Close()
		}
	}
}

func (s *multiTermSpans) Next() bool {
	if s.doc == NO_MORE_DOCS {
		return false
	}
	if s.queue == nil {
		s.init((*termPositionsCursor).next)
	}
	if s.queue.Len() == 0 {
		s.doc = NO_MORE_DOCS
		return false
	}
	top := s.queue.Top()
	s.doc, s.pos = top.doc, top.pos
	for s.queue.Len() > 0 {
		top = s.queue.Top()
		if top.doc != s.doc || top.pos != s.pos {
			break
		}
		if top.next() {
			s.queue.UpdateTop()
		} else {
			s.queue.Pop().tpe.Close()
		}
	}
	return true
}

func (s *multiTermSpans) SkipTo(target int) bool {
	if s.doc == NO_MORE_DOCS {
		return false
	}
	if s.doc >= target {
		return true
	}
	if s.queue == nil {
		s.init(func(c *termPositionsCursor) bool { return c.skipTo(target) })
	} else {
		for s.queue.Len() > 0 && s.queue.Top().doc < target {
			if top := s.queue.Top(); top.skipTo(target) {
				s.queue.UpdateTop()
			} else {
				s.queue.Pop().tpe.Close()
			}
		}
	}
	return s.Next()
}

func (s *multiTermSpans) Doc() int   { return s.doc }
func (s *multiTermSpans) Start() int { return s.pos }
func (s *multiTermSpans) End() int   { return s.pos + 1 }

func (s *multiTermSpans) Close() (err error) {
	if s.queue == nil {
		for _, c := range s.cursors {
			if e := c.tpe.Close(); e != nil && err == nil {
				err = e
			}
		}
		return
	}
	for s.queue.Len() > 0 {
		if e := s.queue.Pop().tpe.Close(); e != nil && err == nil {
			err = e
		}
	}
	return
}

func (s *multiTermSpans) String() string {
	return fmt.Sprintf("MultiTermSpans(%v)@%v", s.query.ToString(""), spanPosition(s))
}

// Number of terms a SpanPrefixQuery expands to at most.
var DefaultSpanPrefixMaxTerms = 256

/*
SpanPrefixQuery matches spans of terms starting with a prefix. It
rewrites to a SpanMultiTermQuery over the terms of the index.
*/
type SpanPrefixQuery struct {
	*search.AbstractQuery
	field    string
	prefix   string
	maxTerms int
}

func NewSpanPrefixQuery(field, prefix string) *SpanPrefixQuery {
	ans := &SpanPrefixQuery{field: field, prefix: prefix, maxTerms: DefaultSpanPrefixMaxTerms}
	ans.AbstractQuery = search.NewAbstractQuery(ans)
	return ans
}

func (q *SpanPrefixQuery) Field() string              { return q.field }
func (q *SpanPrefixQuery) Prefix() string             { return q.prefix }
func (q *SpanPrefixQuery) SetMaxTerms(n int)          { q.maxTerms = n }
func (q *SpanPrefixQuery) SpanTerms() []string        { return nil }
func (q *SpanPrefixQuery) ExtractTerms(model.TermSet) {}

func (q *SpanPrefixQuery) Spans(r index.IndexReader) (SpanEnum, error) {
	return nil, search.ArgErrorf("%v must be rewritten before its spans can be enumerated", q.ToString(""))
}

func (q *SpanPrefixQuery) Rewrite(r index.IndexReader) (search.Query, error) {
	mtq := NewSpanMultiTermQueryConf(q.field, q.maxTerms)
	mtq.SetBoost(q.Boost())
	te := r.Terms(q.field)
	if te == nil {
		return mtq, nil
	}
	defer te.Close()
	for ok := te.SkipTo(q.prefix); ok; ok = te.Next() {
		term := te.Term()
		if !strings.HasPrefix(term, q.prefix) {
			break
		}
		if len(mtq.terms) == mtq.capacity {
			log.Debugf("%v expands to more than %v terms, ignoring the rest", q, q.maxTerms)
			break
		}
		mtq.AddTerm(term) // found a match
	}
	return mtq, nil
}

func (q *SpanPrefixQuery) ToString(field string) string {
	var sb strings.Builder
	if q.field != field {
		sb.WriteString(q.field)
		sb.WriteRune(':')
	}
	sb.WriteString(q.prefix)
	sb.WriteRune('*')
	if q.Boost() != 1 {
		sb.WriteString(search.FormatBoost(q.Boost()))
	}
	return sb.String()
}

func (q *SpanPrefixQuery) QueryHash() uint64 {
	return search.StringHash(q.field) ^ search.StringHash(q.prefix)
}

func (q *SpanPrefixQuery) QueryEqual(o search.Query) bool {
	other := o.(*SpanPrefixQuery)
	return q.prefix == other.prefix && q.field == other.field
}
