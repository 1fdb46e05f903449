package search

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
)

// search/PhraseQuery.java

/*
PhrasePosition is one slot of a phrase: the relative position and the
alternative terms that may occur there.
*/
type PhrasePosition struct {
	Pos   int
	Terms []string
}

/*
A Query that matches documents containing a particular sequence of
terms. A slop above zero allows the terms to be that many moves apart
in total, in any order.
*/
type PhraseQuery struct {
	*AbstractQuery
	field     string
	positions []PhrasePosition
	slop      int
}

func NewPhraseQuery(field string) *PhraseQuery {
	ans := &PhraseQuery{field: field}
	ans.AbstractQuery = NewAbstractQuery(ans)
	return ans
}

func (q *PhraseQuery) Field() string { return q.field }
func (q *PhraseQuery) Slop() int     { return q.slop }

// Sets the number of other words permitted between words in query phrase.
func (q *PhraseQuery) SetSlop(slop int) { q.slop = slop }

// Positions returns the phrase slots ordered by position.
func (q *PhraseQuery) Positions() []PhrasePosition {
	ans := append([]PhrasePosition(nil), q.positions...)
	sort.SliceStable(ans, func(i, j int) bool {
		if ans[i].Pos != ans[j].Pos {
			return ans[i].Pos < ans[j].Pos
		}
		return ans[i].Terms[0] < ans[j].Terms[0]
	})
	return ans
}

/*
AddTerm adds a term to the end of the phrase, posInc positions after
the previous one. The first term always lands on position 0.
*/
func (q *PhraseQuery) AddTerm(term string, posInc int) *PhraseQuery {
	pos := 0
	if n := len(q.positions); n > 0 {
		pos = q.positions[n-1].Pos + posInc
	}
	return q.AddTermAt(term, pos)
}

// AddTermAt adds a term at an absolute phrase position.
func (q *PhraseQuery) AddTermAt(term string, pos int) *PhraseQuery {
	q.positions = append(q.positions, PhrasePosition{Pos: pos, Terms: []string{term}})
	return q
}

// AppendMultiTerm adds an alternative term to the last position.
func (q *PhraseQuery) AppendMultiTerm(term string) *PhraseQuery {
	n := len(q.positions)
	if n == 0 {
		return q.AddTerm(term, 0)
	}
	last := &q.positions[n-1]
	last.Terms = append(last.Terms[:len(last.Terms):len(last.Terms)], term)
	return q
}

func (q *PhraseQuery) CreateWeight(s Searcher) (Weight, error) {
	return newPhraseWeight(q, s), nil
}

func (q *PhraseQuery) Rewrite(r index.IndexReader) (Query, error) {
	if len(q.positions) != 1 { // optimize one-position case
		return q, nil
	}
	terms := q.positions[0].Terms
	var ans Query
	if len(terms) == 1 {
		ans = NewTermQuery(model.NewTerm(q.field, terms[0]))
	} else {
		mtq := NewMultiTermQuery(q.field)
		for _, t := range terms {
			mtq.AddTerm(t, 1)
		}
		ans = mtq
	}
	ans.SetBoost(q.boost)
	return ans, nil
}

func (q *PhraseQuery) ExtractTerms(terms model.TermSet) {
	for _, pp := range q.positions {
		for _, t := range pp.Terms {
			terms.Add(model.NewTerm(q.field, t))
		}
	}
}

func (q *PhraseQuery) ToString(field string) string {
	var buf bytes.Buffer
	if q.field != field {
		buf.WriteString(q.field)
		buf.WriteRune(':')
	}
	buf.WriteRune('"')
	positions := q.Positions()
	if len(positions) > 0 {
		lastPos := positions[0].Pos - 1
		for i, pp := range positions {
			if pp.Pos == lastPos {
				buf.WriteRune('&')
			} else {
				if i > 0 {
					buf.WriteRune(' ')
				}
				for j := lastPos; j < pp.Pos-1; j++ {
					buf.WriteString("<> ")
				}
			}
			lastPos = pp.Pos
			buf.WriteString(strings.Join(pp.Terms, "|"))
		}
	}
	buf.WriteRune('"')
	if q.slop != 0 {
		buf.WriteRune('~')
		buf.WriteString(strconv.Itoa(q.slop))
	}
	if q.boost != 1 {
		buf.WriteString(formatBoost(q.boost))
	}
	return buf.String()
}

func (q *PhraseQuery) QueryHash() uint64 {
	hash := StringHash(q.field)
	for _, pp := range q.positions {
		for _, t := range pp.Terms {
			hash = hash<<1 ^ (StringHash(t) ^ uint64(pp.Pos))
		}
	}
	return hash ^ uint64(q.slop)
}

func (q *PhraseQuery) QueryEqual(o Query) bool {
	other := o.(*PhraseQuery)
	if q.slop != other.slop || q.field != other.field || len(q.positions) != len(other.positions) {
		return false
	}
	for i, pp := range q.positions {
		op := other.positions[i]
		if pp.Pos != op.Pos || len(pp.Terms) != len(op.Terms) {
			return false
		}
		for j, t := range pp.Terms {
			if t != op.Terms[j] {
				return false
			}
		}
	}
	return true
}

func (q *PhraseQuery) terms() (ans []model.Term) {
	for _, pp := range q.positions {
		for _, t := range pp.Terms {
			ans = append(ans, model.NewTerm(q.field, t))
		}
	}
	return
}

type PhraseWeight struct {
	*WeightImpl
	owner *PhraseQuery
}

func newPhraseWeight(owner *PhraseQuery, s Searcher) *PhraseWeight {
	sim := s.Similarity()
	return &PhraseWeight{
		WeightImpl: NewWeightImpl(owner, sim, IdfPhrase(sim, owner.terms(), s)),
		owner:      owner,
	}
}

func (w *PhraseWeight) Scorer(r index.IndexReader) (Scorer, error) {
	q := w.owner
	if len(q.positions) == 0 || r.FieldInfos().FieldInfo(q.field) == nil {
		return nil, nil
	}
	pps := make([]*phrasePositions, len(q.positions))
	for i, pp := range q.positions {
		var tpe model.TermDocEnum
		if len(pp.Terms) == 1 {
			tpe = r.TermPositions()
			tpe.Seek(model.NewTerm(q.field, pp.Terms[0]))
		} else {
			tpe = index.NewMultiTermDocPosEnum(r, q.field, pp.Terms)
		}
		pps[i] = newPhrasePositions(tpe, pp.Pos)
	}
	norms := r.Norms(q.field)
	if q.slop == 0 { // optimize exact case
		return newExactPhraseScorer(w, pps, norms), nil
	}
	return newSloppyPhraseScorer(w, pps, norms, q.slop, hasRepeats(q.positions)), nil
}

// hasRepeats reports whether any term occurs in more than one slot.
func hasRepeats(positions []PhrasePosition) bool {
	seen := make(map[string]struct{})
	for _, pp := range positions {
		for _, t := range pp.Terms {
			if _, ok := seen[t]; ok {
				return true
			}
			seen[t] = struct{}{}
		}
	}
	return false
}

func (w *PhraseWeight) Explain(r index.IndexReader, doc int) (*Explanation, error) {
	q := w.owner
	if r.FieldInfos().FieldInfo(q.field) == nil {
		return NewExplanation(0, "field \"%v\" does not exist in the index", q.field), nil
	}
	var docFreqs []string
	for _, pp := range q.Positions() {
		for _, t := range pp.Terms {
			docFreqs = append(docFreqs, fmt.Sprintf("%v=%v", t, r.DocFreq(model.NewTerm(q.field, t))))
		}
	}
	idfExpl := func() *Explanation {
		return NewExplanation(w.idf, "idf(%v:<%v>)", q.field, strings.Join(docFreqs, ", "))
	}

	var tfExpl *Explanation
	scorer, err := w.Scorer(r)
	if err != nil {
		return nil, err
	}
	if scorer == nil {
		tfExpl = NewExplanation(0, "tf(phrase_freq=0)")
	} else {
		tfExpl = scorer.Explain(doc)
		if err = scorer.Close(); err != nil {
			return nil, err
		}
	}
	return w.ExplainScore(doc, q.ToString(""), idfExpl, tfExpl, q.field, r.Norms(q.field)), nil
}

func (w *PhraseWeight) String() string {
	return fmt.Sprintf("PhraseWeight(%v)", w.value)
}
