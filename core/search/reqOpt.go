package search

import (
	. "github.com/balzaczyy/gosearch/core/search/model"
)

// search/ReqOptSumScorer.java

/*
A Scorer for queries with a required part and an optional part. The
required scorer drives the iteration; the optional scorer only adds
its score when it happens to be on the same document, and is dropped
once exhausted.
*/
type ReqOptSumScorer struct {
	reqScorer    Scorer
	optScorer    Scorer
	firstTimeOpt bool
}

func NewReqOptSumScorer(reqScorer, optScorer Scorer) *ReqOptSumScorer {
	return &ReqOptSumScorer{reqScorer: reqScorer, optScorer: optScorer, firstTimeOpt: true}
}

func (s *ReqOptSumScorer) DocId() int             { return s.reqScorer.DocId() }
func (s *ReqOptSumScorer) NextDoc() int           { return s.reqScorer.NextDoc() }
func (s *ReqOptSumScorer) Advance(target int) int { return s.reqScorer.Advance(target) }

func (s *ReqOptSumScorer) nullifyOpt() {
	s.optScorer.Close()
	s.optScorer = nil
}

func (s *ReqOptSumScorer) Score() float32 {
	curDoc := s.reqScorer.DocId()
	reqScore := s.reqScorer.Score()

	if s.firstTimeOpt {
		s.firstTimeOpt = false
		if s.optScorer.Advance(curDoc) == NO_MORE_DOCS {
			s.nullifyOpt()
			return reqScore
		}
	} else if s.optScorer == nil {
		return reqScore
	} else if s.optScorer.DocId() < curDoc && s.optScorer.Advance(curDoc) == NO_MORE_DOCS {
		s.nullifyOpt()
		return reqScore
	}
	// optScorer != nil && optScorer.DocId() >= curDoc
	if s.optScorer.DocId() == curDoc {
		return reqScore + s.optScorer.Score()
	}
	return reqScore
}

func (s *ReqOptSumScorer) Explain(doc int) *Explanation {
	e := NewExplanation(0, "required, optional:")
	reqExpl := s.reqScorer.Explain(doc)
	e.AddDetail(reqExpl)
	if !reqExpl.IsMatch() {
		return e
	}
	e.value = reqExpl.value
	if s.optScorer != nil {
		optExpl := s.optScorer.Explain(doc)
		e.AddDetail(optExpl)
		if optExpl.IsMatch() {
			e.value += optExpl.value
		}
	}
	return e
}

func (s *ReqOptSumScorer) Close() error {
	return closeAll(s.reqScorer, s.optScorer)
}
