package spans

import (
	"fmt"
	"strings"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
	"github.com/balzaczyy/gosearch/core/search"
	. "github.com/balzaczyy/gosearch/core/search/model"
	"golang.org/x/exp/slices"
)

// search/spans/SpanQuery.java

/* Base interface for span-based queries. */
type SpanQuery interface {
	search.Query
	// The field all spans of this query come from.
	Field() string
	// Spans returns the enumerator of this query's spans over r. The
	// query must have been rewritten.
	Spans(r index.IndexReader) (SpanEnum, error)
	// SpanTerms lists the distinct term texts whose idf makes up the
	// weight of this query.
	SpanTerms() []string
}

// Appends the texts of src missing from dst, keeping first-seen order.
func mergeTerms(dst []string, src []string) []string {
	for _, t := range src {
		if !slices.Contains(dst, t) {
			dst = append(dst, t)
		}
	}
	return dst
}

func extractSpanTerms(q SpanQuery, terms model.TermSet) {
	for _, t := range q.SpanTerms() {
		terms.Add(model.NewTerm(q.Field(), t))
	}
}

/*
rewriteClauses rewrites every clause, returning nil when none of them
changed.
*/
func rewriteClauses(clauses []SpanQuery, r index.IndexReader) ([]SpanQuery, error) {
	var ans []SpanQuery
	for i, c := range clauses {
		rq, err := rewriteClause(c, r)
		if err != nil {
			return nil, err
		}
		if rq != c {
			if ans == nil {
				ans = append([]SpanQuery(nil), clauses...)
			}
			ans[i] = rq
		}
	}
	return ans, nil
}

func rewriteClause(c SpanQuery, r index.IndexReader) (SpanQuery, error) {
	rq, err := c.Rewrite(r)
	if err != nil {
		return nil, err
	}
	sq, ok := rq.(SpanQuery)
	if !ok {
		return nil, search.ArgErrorf("%v rewrote to %T, which is not a SpanQuery", c, rq)
	}
	return sq, nil
}

func checkField(owner string, field string, clause SpanQuery) error {
	if clause.Field() != field {
		return search.ArgErrorf("All clauses in a SpanQuery must have the same field. "+
			"Attempted to add a SpanQuery with field \"%v\" to a %v with field \"%v\"",
			clause.Field(), owner, field)
	}
	return nil
}

// search/spans/SpanWeight.java

/*
SpanWeight weighs any span query: its idf is the sum of the idfs of
the distinct terms it refers to.
*/
type SpanWeight struct {
	*search.WeightImpl
	owner SpanQuery
	terms []string
}

func newSpanWeight(owner SpanQuery, s search.Searcher) *SpanWeight {
	sim := s.Similarity()
	terms := owner.SpanTerms()
	var idf float32
	for _, t := range terms {
		idf += search.IdfTerm(sim, model.NewTerm(owner.Field(), t), s)
	}
	return &SpanWeight{
		WeightImpl: search.NewWeightImpl(owner, sim, idf),
		owner:      owner,
		terms:      terms,
	}
}

func (w *SpanWeight) Scorer(r index.IndexReader) (search.Scorer, error) {
	field := w.owner.Field()
	if r.FieldInfos().FieldInfo(field) == nil {
		return nil, nil
	}
	spans, err := w.owner.Spans(r)
	if err != nil {
		return nil, err
	}
	return newSpanScorer(w, spans, r.Norms(field)), nil
}

func (w *SpanWeight) Explain(r index.IndexReader, doc int) (*search.Explanation, error) {
	field := w.owner.Field()
	if r.FieldInfos().FieldInfo(field) == nil {
		return search.NewExplanation(0, "field \"%v\" does not exist in the index", field), nil
	}
	docFreqs := make([]string, len(w.terms))
	for i, t := range w.terms {
		docFreqs[i] = fmt.Sprintf("%v=%v", t, r.DocFreq(model.NewTerm(field, t)))
	}
	idfExpl := func() *search.Explanation {
		return search.NewExplanation(w.Idf(), "idf(%v: %v)", field, strings.Join(docFreqs, ", "))
	}

	scorer, err := w.Scorer(r)
	if err != nil {
		return nil, err
	}
	tfExpl := scorer.Explain(doc)
	if err = scorer.Close(); err != nil {
		return nil, err
	}
	fieldDesc := field + ":" + w.owner.ToString("")
	return w.ExplainScore(doc, fieldDesc, idfExpl, tfExpl, field, r.Norms(field)), nil
}

func (w *SpanWeight) String() string {
	return fmt.Sprintf("SpanWeight(%v)", w.Value())
}

// search/spans/SpanScorer.java

/*
spanScorer scores a document by the spans it holds: every span adds
SloppyFreq(end-start) to the frequency fed into Tf.
*/
type spanScorer struct {
	weight    *SpanWeight
	sim       search.Similarity
	spans     SpanEnum
	norms     []byte
	value     float32
	freq      float32
	doc       int
	firstTime bool
	more      bool
}

func newSpanScorer(w *SpanWeight, spans SpanEnum, norms []byte) *spanScorer {
	return &spanScorer{
		weight:    w,
		sim:       w.Similarity(),
		spans:     spans,
		norms:     norms,
		value:     w.Value(),
		doc:       -1,
		firstTime: true,
		more:      true,
	}
}

func (s *spanScorer) DocId() int { return s.doc }

func (s *spanScorer) NextDoc() int {
	if s.doc == NO_MORE_DOCS {
		return NO_MORE_DOCS
	}
	if s.firstTime {
		s.more = s.spans.Next()
		s.firstTime = false
	}
	return s.collect()
}

func (s *spanScorer) Advance(target int) int {
	if s.doc == NO_MORE_DOCS {
		return NO_MORE_DOCS
	}
	if target <= s.doc {
		return s.NextDoc()
	}
	if s.firstTime {
		s.more = s.spans.SkipTo(target)
		s.firstTime = false
	} else if s.more && s.spans.Doc() < target {
		s.more = s.spans.SkipTo(target)
	}
	return s.collect()
}

// Consumes every span of the document under the enumerator.
func (s *spanScorer) collect() int {
	if !s.more {
		s.doc = NO_MORE_DOCS
		return s.doc
	}
	s.doc = s.spans.Doc()
	s.freq = 0
	for s.more && s.spans.Doc() == s.doc {
		s.freq += s.sim.SloppyFreq(s.spans.End() - s.spans.Start())
		s.more = s.spans.Next()
	}
	return s.doc
}

func (s *spanScorer) Score() float32 {
	raw := s.sim.Tf(s.freq) * s.value
	return raw * search.DecodeNorm(s.sim, s.norms, s.doc) // normalize
}

func (s *spanScorer) Explain(doc int) *search.Explanation {
	if s.doc < doc {
		s.Advance(doc)
	}
	var freq float32
	if s.doc == doc {
		freq = s.freq
	}
	return search.NewExplanation(s.sim.Tf(freq), "tf(phrase_freq(%v))", freq)
}

func (s *spanScorer) Close() error {
	return s.spans.Close()
}

func (s *spanScorer) String() string {
	return fmt.Sprintf("scorer(%v)", s.weight)
}

// MatchRange is an inclusive range of token positions.
type MatchRange struct {
	Start, End int
}

/*
MatchRanges lists where q matches doc, for highlighting. Overlapping
and adjacent spans are merged and the ranges come out in position
order.
*/
func MatchRanges(q SpanQuery, r index.IndexReader, doc int) ([]MatchRange, error) {
	if r.FieldInfos().FieldInfo(q.Field()) == nil {
		return nil, nil
	}
	spans, err := q.Spans(r)
	if err != nil {
		return nil, err
	}
	defer spans.Close()
	var ans []MatchRange
	for ok := spans.SkipTo(doc); ok && spans.Doc() == doc; ok = spans.Next() {
		ans = append(ans, MatchRange{spans.Start(), spans.End() - 1})
	}
	return compactRanges(ans), nil
}

func compactRanges(ranges []MatchRange) []MatchRange {
	if len(ranges) < 2 {
		return ranges
	}
	slices.SortFunc(ranges, func(a, b MatchRange) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})
	ans := ranges[:1]
	for _, mr := range ranges[1:] {
		last := &ans[len(ans)-1]
		if mr.Start <= last.End+1 {
			if mr.End > last.End {
				last.End = mr.End
			}
			continue
		}
		ans = append(ans, mr)
	}
	return ans
}
