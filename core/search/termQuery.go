package search

import (
	"bytes"
	"fmt"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
	. "github.com/balzaczyy/gosearch/core/search/model"
)

/* A Query that matches documents containing a term. */
type TermQuery struct {
	*AbstractQuery
	term model.Term
}

func NewTermQuery(t model.Term) *TermQuery {
	ans := &TermQuery{term: t}
	ans.AbstractQuery = NewAbstractQuery(ans)
	return ans
}

func (q *TermQuery) Term() model.Term { return q.term }

func (q *TermQuery) CreateWeight(s Searcher) (Weight, error) {
	return newTermWeight(q, s), nil
}

func (q *TermQuery) ExtractTerms(terms model.TermSet) {
	terms.Add(q.term)
}

func (q *TermQuery) ToString(field string) string {
	var buf bytes.Buffer
	if q.term.Field != field {
		buf.WriteString(q.term.Field)
		buf.WriteRune(':')
	}
	buf.WriteString(q.term.Text)
	if q.boost != 1.0 {
		buf.WriteString(formatBoost(q.boost))
	}
	return buf.String()
}

func (q *TermQuery) QueryHash() uint64 {
	return StringHash(q.term.Text) ^ StringHash(q.term.Field)
}

func (q *TermQuery) QueryEqual(o Query) bool {
	return q.term == o.(*TermQuery).term
}

type TermWeight struct {
	*WeightImpl
	owner *TermQuery
}

func newTermWeight(owner *TermQuery, s Searcher) *TermWeight {
	sim := s.Similarity()
	return &TermWeight{
		WeightImpl: NewWeightImpl(owner, sim, IdfTerm(sim, owner.term, s)),
		owner:      owner,
	}
}

func (tw *TermWeight) Scorer(r index.IndexReader) (Scorer, error) {
	if r.FieldInfos().FieldInfo(tw.owner.term.Field) == nil {
		return nil, nil
	}
	tde := r.TermDocs()
	tde.Seek(tw.owner.term)
	return newTermScorer(tw, tde, r.Norms(tw.owner.term.Field)), nil
}

func (tw *TermWeight) Explain(r index.IndexReader, doc int) (*Explanation, error) {
	t := tw.owner.term
	if r.FieldInfos().FieldInfo(t.Field) == nil {
		return NewExplanation(0, "field \"%v\" does not exist in the index", t.Field), nil
	}
	scorer, err := tw.Scorer(r)
	if err != nil {
		return nil, err
	}
	tfExpl := scorer.Explain(doc)
	if err = scorer.Close(); err != nil {
		return nil, err
	}
	docFreq := r.DocFreq(t)
	idfExpl := func() *Explanation {
		return NewExplanation(tw.idf, "idf(doc_freq=%v)", docFreq)
	}
	return tw.ExplainScore(doc, t.String(), idfExpl, tfExpl, t.Field, r.Norms(t.Field)), nil
}

func (tw *TermWeight) String() string {
	return fmt.Sprintf("TermWeight(%v)", tw.value)
}

// search/TermScorer.java

// Number of tf*weight values cached for low frequencies.
const SCORE_CACHE_SIZE = 32

/* Expert: A Scorer for documents matching a Term. */
type TermScorer struct {
	weight      *TermWeight
	similarity  Similarity
	tde         model.TermDocEnum
	norms       []byte
	weightValue float32
	scoreCache  [SCORE_CACHE_SIZE]float32
	doc         int
}

func newTermScorer(w *TermWeight, tde model.TermDocEnum, norms []byte) *TermScorer {
	ans := &TermScorer{
		weight:      w,
		similarity:  w.similarity,
		tde:         tde,
		norms:       norms,
		weightValue: w.value,
		doc:         -1,
	}
	for i := range ans.scoreCache {
		ans.scoreCache[i] = ans.similarity.Tf(float32(i)) * ans.weightValue
	}
	return ans
}

func (ts *TermScorer) DocId() int { return ts.doc }

func (ts *TermScorer) NextDoc() int {
	if ts.doc == NO_MORE_DOCS {
		return NO_MORE_DOCS
	}
	if ts.tde.Next() {
		ts.doc = ts.tde.Doc()
	} else {
		ts.doc = NO_MORE_DOCS
	}
	return ts.doc
}

func (ts *TermScorer) Advance(target int) int {
	if ts.doc == NO_MORE_DOCS {
		return NO_MORE_DOCS
	}
	if target <= ts.doc {
		return ts.NextDoc()
	}
	if ts.tde.SkipTo(target) {
		ts.doc = ts.tde.Doc()
	} else {
		ts.doc = NO_MORE_DOCS
	}
	return ts.doc
}

func (ts *TermScorer) Freq() int {
	return ts.tde.Freq()
}

func (ts *TermScorer) Score() float32 {
	assert(ts.doc != NO_MORE_DOCS)
	freq := ts.tde.Freq()
	var score float32
	if freq < SCORE_CACHE_SIZE { // check cache
		score = ts.scoreCache[freq]
	} else {
		score = ts.similarity.Tf(float32(freq)) * ts.weightValue
	}
	return score * decodeNorm(ts.similarity, ts.norms, ts.doc) // normalize for field
}

func (ts *TermScorer) Explain(doc int) *Explanation {
	if ts.doc < doc {
		ts.Advance(doc)
	}
	tf := 0
	if ts.doc == doc {
		tf = ts.tde.Freq()
	}
	return NewExplanation(ts.similarity.Tf(float32(tf)),
		"tf(term_freq(%v)=%v)", ts.weight.owner.term, tf)
}

func (ts *TermScorer) Close() error {
	return ts.tde.Close()
}

func (ts *TermScorer) String() string {
	return fmt.Sprintf("scorer(%v)", ts.weight)
}
