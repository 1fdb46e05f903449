package search

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
	. "github.com/balzaczyy/gosearch/core/search/model"
	"github.com/balzaczyy/gosearch/core/util"
)

// Default number of terms a MultiTermQuery keeps.
var DefaultMultiTermMaxTerms = 512

type boostedTerm struct {
	term  string
	boost float32
}

// Lower boost first; equal boosts order by term.
func boostedTermLess(a, b boostedTerm) bool {
	if a.boost != b.boost {
		return a.boost < b.boost
	}
	return a.term < b.term
}

/*
MultiTermQuery matches documents containing any of a set of terms of
one field, each with its own boost. It is the target of prefix,
wildcard and fuzzy expansion.

At most maxTerms terms are kept: once full, a new term must beat the
weakest boost held so far, which then becomes the minimum boost.
*/
type MultiTermQuery struct {
	*AbstractQuery
	field    string
	terms    *util.PriorityQueue[boostedTerm]
	minBoost float32
}

func NewMultiTermQuery(field string) *MultiTermQuery {
	ans, err := NewMultiTermQueryConf(field, DefaultMultiTermMaxTerms, 0)
	assert(err == nil)
	return ans
}

func NewMultiTermQueryConf(field string, maxTerms int, minBoost float32) (*MultiTermQuery, error) {
	if maxTerms <= 0 {
		return nil, argErrorf("max_terms must be greater than zero. %v <= 0.", maxTerms)
	}
	ans := &MultiTermQuery{
		field:    field,
		terms:    util.NewPriorityQueue(maxTerms, boostedTermLess),
		minBoost: minBoost,
	}
	ans.AbstractQuery = NewAbstractQuery(ans)
	return ans, nil
}

func (q *MultiTermQuery) Field() string     { return q.field }
func (q *MultiTermQuery) MinBoost() float32 { return q.minBoost }

// Adds term with boost, unless the boost is not above the minimum.
func (q *MultiTermQuery) AddTerm(term string, boost float32) {
	if boost <= q.minBoost || term == "" {
		return
	}
	q.terms.Insert(boostedTerm{term, boost})
	if q.terms.Len() == q.terms.Capacity() {
		q.minBoost = q.terms.Top().boost
	}
}

// The boosted terms, weakest first.
func (q *MultiTermQuery) boostedTerms() []boostedTerm {
	ans := make([]boostedTerm, 0, q.terms.Len())
	q.terms.Each(func(bt boostedTerm) { ans = append(ans, bt) })
	sort.Slice(ans, func(i, j int) bool { return boostedTermLess(ans[i], ans[j]) })
	return ans
}

// Terms returns the held terms, weakest boost first.
func (q *MultiTermQuery) Terms() []string {
	bts := q.boostedTerms()
	ans := make([]string, len(bts))
	for i, bt := range bts {
		ans[i] = bt.term
	}
	return ans
}

func (q *MultiTermQuery) CreateWeight(s Searcher) (Weight, error) {
	return newMultiTermWeight(q, s), nil
}

func (q *MultiTermQuery) ExtractTerms(terms model.TermSet) {
	q.terms.Each(func(bt boostedTerm) {
		terms.Add(model.NewTerm(q.field, bt.term))
	})
}

func (q *MultiTermQuery) ToString(field string) string {
	var buf bytes.Buffer
	if q.field != field {
		buf.WriteString(q.field)
		buf.WriteRune(':')
	}
	buf.WriteRune('"')
	for i, bt := range q.boostedTerms() {
		if i > 0 {
			buf.WriteRune('|')
		}
		buf.WriteString(bt.term)
		if bt.boost != 1 {
			buf.WriteString(formatBoost(bt.boost))
		}
	}
	buf.WriteRune('"')
	if q.boost != 1 {
		buf.WriteString(formatBoost(q.boost))
	}
	return buf.String()
}

func (q *MultiTermQuery) QueryHash() uint64 {
	hash := StringHash(q.field)
	q.terms.Each(func(bt boostedTerm) {
		hash ^= StringHash(bt.term) ^ uint64(math.Float32bits(bt.boost))
	})
	return hash
}

func (q *MultiTermQuery) QueryEqual(o Query) bool {
	other := o.(*MultiTermQuery)
	if q.field != other.field || q.terms.Len() != other.terms.Len() {
		return false
	}
	bts1, bts2 := q.boostedTerms(), other.boostedTerms()
	for i, bt := range bts1 {
		if bt != bts2[i] {
			return false
		}
	}
	return true
}

type MultiTermWeight struct {
	*WeightImpl
	owner *MultiTermQuery
}

func newMultiTermWeight(owner *MultiTermQuery, s Searcher) *MultiTermWeight {
	sim := s.Similarity()
	docFreq := 0
	owner.terms.Each(func(bt boostedTerm) {
		docFreq += s.DocFreq(model.NewTerm(owner.field, bt.term))
	})
	return &MultiTermWeight{
		WeightImpl: NewWeightImpl(owner, sim, sim.Idf(docFreq, s.MaxDoc())),
		owner:      owner,
	}
}

func (w *MultiTermWeight) Scorer(r index.IndexReader) (Scorer, error) {
	q := w.owner
	if q.terms.Len() == 0 {
		return nil, nil
	}
	te := r.Terms(q.field)
	if te == nil {
		return nil, nil
	}
	defer te.Close()

	var tdews []*termDocsWrapper
	for _, bt := range q.boostedTerms() {
		if te.SkipTo(bt.term) && te.Term() == bt.term {
			tde := r.TermDocs()
			tde.Seek(model.NewTerm(q.field, bt.term))
			tdews = append(tdews, &termDocsWrapper{term: bt.term, tde: tde, boost: bt.boost, doc: -1})
		}
	}
	if len(tdews) == 0 {
		return nil, nil
	}
	return newMultiTermScorer(w, tdews, r.Norms(q.field)), nil
}

func (w *MultiTermWeight) Explain(r index.IndexReader, doc int) (*Explanation, error) {
	q := w.owner
	if r.FieldInfos().FieldInfo(q.field) == nil {
		return NewExplanation(0, "field \"%v\" does not exist in the index", q.field), nil
	}
	var docFreqs []string
	total := 0
	for _, bt := range q.boostedTerms() {
		df := r.DocFreq(model.NewTerm(q.field, bt.term))
		docFreqs = append(docFreqs, fmt.Sprintf("(%v=%v)", bt.term, df))
		total += df
	}
	idfExpl := func() *Explanation {
		return NewExplanation(w.idf, "idf(%v:<%v = %v>)", q.field, strings.Join(docFreqs, " + "), total)
	}

	var tfExpl *Explanation
	scorer, err := w.Scorer(r)
	if err != nil {
		return nil, err
	}
	if scorer == nil {
		tfExpl = NewExplanation(0, "no terms were found")
	} else {
		tfExpl = scorer.Explain(doc)
		if err = scorer.Close(); err != nil {
			return nil, err
		}
	}
	return w.ExplainScore(doc, q.ToString(""), idfExpl, tfExpl, q.field, r.Norms(q.field)), nil
}

func (w *MultiTermWeight) String() string {
	return fmt.Sprintf("MultiTermWeight(%v)", w.value)
}

// The postings cursor of one boosted term.
type termDocsWrapper struct {
	term  string
	tde   model.TermDocEnum
	boost float32
	doc   int
	freq  int
}

func (w *termDocsWrapper) next() bool {
	if !w.tde.Next() {
		return false
	}
	w.doc, w.freq = w.tde.Doc(), w.tde.Freq()
	return true
}

func (w *termDocsWrapper) skipTo(target int) bool {
	if w.doc >= target {
		return true
	}
	if !w.tde.SkipTo(target) {
		return false
	}
	w.doc, w.freq = w.tde.Doc(), w.tde.Freq()
	return true
}

/*
MultiTermScorer merges the postings of all terms by document. The
score of a document is the sum of tf(freq)*boost over the terms on it,
times the weight value and the field norm.
*/
type MultiTermScorer struct {
	weight      *MultiTermWeight
	similarity  Similarity
	field       string
	norms       []byte
	tdews       []*termDocsWrapper
	queue       *util.PriorityQueue[*termDocsWrapper]
	weightValue float32
	scoreCache  [SCORE_CACHE_SIZE]float32
	totalScore  float32
	// term, freq and boost of every term on the current doc
	matches []termDocsWrapper
	doc     int
}

func newMultiTermScorer(w *MultiTermWeight, tdews []*termDocsWrapper, norms []byte) *MultiTermScorer {
	ans := &MultiTermScorer{
		weight:      w,
		similarity:  w.similarity,
		field:       w.owner.field,
		norms:       norms,
		tdews:       tdews,
		weightValue: w.value,
		doc:         -1,
	}
	for i := range ans.scoreCache {
		ans.scoreCache[i] = ans.similarity.Tf(float32(i))
	}
	return ans
}

func (s *MultiTermScorer) initQueue(target int) {
	s.queue = util.NewPriorityQueue(len(s.tdews), func(a, b *termDocsWrapper) bool {
		return a.doc < b.doc
	})
	for _, tdew := range s.tdews {
		var ok bool
		if target < 0 {
			ok = tdew.next()
		} else {
			ok = tdew.skipTo(target)
		}
		if ok {
			s.queue.Insert(tdew)
		}
	}
}

func (s *MultiTermScorer) tf(freq int) float32 {
	if freq < SCORE_CACHE_SIZE {
		return s.scoreCache[freq]
	}
	return s.similarity.Tf(float32(freq))
}

// Sums up and moves past the terms on the top document.
func (s *MultiTermScorer) collect() int {
	if s.queue.Len() == 0 {
		s.doc = NO_MORE_DOCS
		return s.doc
	}
	s.doc = s.queue.Top().doc
	s.totalScore = 0
	s.matches = s.matches[:0]
	for s.queue.Len() > 0 && s.queue.Top().doc == s.doc {
		tdew := s.queue.Top()
		s.totalScore += s.tf(tdew.freq) * tdew.boost
		s.matches = append(s.matches, *tdew)
		if tdew.next() {
			s.queue.UpdateTop()
		} else {
			s.queue.Pop()
		}
	}
	return s.doc
}

func (s *MultiTermScorer) DocId() int { return s.doc }

func (s *MultiTermScorer) NextDoc() int {
	if s.doc == NO_MORE_DOCS {
		return s.doc
	}
	if s.queue == nil {
		s.initQueue(-1)
	}
	return s.collect()
}

func (s *MultiTermScorer) Advance(target int) int {
	if s.doc == NO_MORE_DOCS {
		return s.doc
	}
	if target <= s.doc {
		return s.NextDoc()
	}
	if s.queue == nil {
		s.initQueue(target)
	}
	for s.queue.Len() > 0 && s.queue.Top().doc < target {
		if tdew := s.queue.Top(); tdew.skipTo(target) {
			s.queue.UpdateTop()
		} else {
			s.queue.Pop()
		}
	}
	return s.collect()
}

func (s *MultiTermScorer) Score() float32 {
	return s.totalScore * s.weightValue * decodeNorm(s.similarity, s.norms, s.doc)
}

func (s *MultiTermScorer) Explain(doc int) *Explanation {
	if s.doc < doc {
		s.Advance(doc)
	}
	if s.doc != doc {
		return NewExplanation(0, "None of the required terms exist in the index")
	}
	e := NewExplanation(0, "The sum of:")
	var total float32
	for _, m := range s.matches {
		tf := s.similarity.Tf(float32(m.freq)) * m.boost
		e.AddDetail(NewExplanation(tf, "tf(term_freq(%v:%v)=%v)%v", s.field, m.term, m.freq, formatBoost(m.boost)))
		total += tf
	}
	e.value = total
	return e
}

func (s *MultiTermScorer) Close() (err error) {
	for _, tdew := range s.tdews {
		if e := tdew.tde.Close(); e != nil && err == nil {
			err = e
		}
	}
	return
}
