package search

import (
	. "github.com/balzaczyy/gosearch/core/search/model"
)

// search/ReqExclScorer.java

/*
A Scorer for queries with a required sub-scorer and an excluding
(prohibited) sub-scorer. The excluded scorer is skipped forward in
lock-step and never rewound; once it is exhausted every further
required match passes unfiltered.
*/
type ReqExclScorer struct {
	reqScorer  Scorer
	exclScorer Scorer
	firstTime  bool
	doc        int
}

func NewReqExclScorer(reqScorer, exclScorer Scorer) *ReqExclScorer {
	return &ReqExclScorer{reqScorer: reqScorer, exclScorer: exclScorer, firstTime: true, doc: -1}
}

func (s *ReqExclScorer) nullifyExcl() {
	s.exclScorer.Close()
	s.exclScorer = nil
}

func (s *ReqExclScorer) exhaust() int {
	s.doc = NO_MORE_DOCS
	return s.doc
}

/*
toNonExcluded advances the required scorer from its current document
to the first one the excluded scorer is not on.
*/
func (s *ReqExclScorer) toNonExcluded() int {
	exclDoc := s.exclScorer.DocId()
	for {
		// may be excluded
		reqDoc := s.reqScorer.DocId()
		if reqDoc < exclDoc {
			// reqScorer advanced to before exclScorer, ie. not excluded
			s.doc = reqDoc
			return s.doc
		} else if reqDoc > exclDoc {
			if s.exclScorer.Advance(reqDoc) == NO_MORE_DOCS {
				// emptied, no more exclusions
				s.nullifyExcl()
				s.doc = reqDoc
				return s.doc
			}
			exclDoc = s.exclScorer.DocId()
			if exclDoc > reqDoc {
				s.doc = reqDoc
				return s.doc // not excluded
			}
		}
		if s.reqScorer.NextDoc() == NO_MORE_DOCS {
			return s.exhaust() // emptied, nothing left
		}
	}
}

func (s *ReqExclScorer) DocId() int { return s.doc }

func (s *ReqExclScorer) NextDoc() int {
	if s.doc == NO_MORE_DOCS {
		return s.doc
	}
	if s.firstTime {
		if s.exclScorer.NextDoc() == NO_MORE_DOCS {
			s.nullifyExcl() // emptied at start
		}
		s.firstTime = false
	}
	if s.reqScorer.NextDoc() == NO_MORE_DOCS {
		return s.exhaust()
	}
	if s.exclScorer == nil {
		s.doc = s.reqScorer.DocId()
		return s.doc
	}
	return s.toNonExcluded()
}

func (s *ReqExclScorer) Advance(target int) int {
	if s.doc == NO_MORE_DOCS {
		return s.doc
	}
	if target <= s.doc {
		return s.NextDoc()
	}
	if s.firstTime {
		s.firstTime = false
		if s.exclScorer.Advance(target) == NO_MORE_DOCS {
			s.nullifyExcl() // emptied
		}
	}
	if s.reqScorer.Advance(target) == NO_MORE_DOCS {
		return s.exhaust()
	}
	if s.exclScorer == nil {
		s.doc = s.reqScorer.DocId()
		return s.doc
	}
	return s.toNonExcluded()
}

func (s *ReqExclScorer) Score() float32 {
	return s.reqScorer.Score()
}

func (s *ReqExclScorer) Explain(doc int) *Explanation {
	if s.exclScorer != nil {
		if s.exclScorer.DocId() < doc {
			s.exclScorer.Advance(doc)
		}
		if s.exclScorer.DocId() == doc {
			return NewExplanation(0, "excluded:")
		}
	}
	reqExpl := s.reqScorer.Explain(doc)
	return NewExplanation(reqExpl.value, "not excluded:").AddDetail(reqExpl)
}

func (s *ReqExclScorer) Close() error {
	return closeAll(s.reqScorer, s.exclScorer)
}
