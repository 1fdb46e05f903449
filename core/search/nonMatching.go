package search

import (
	. "github.com/balzaczyy/gosearch/core/search/model"
)

// NonMatchingScorer matches nothing.
type NonMatchingScorer struct {
	doc int
}

func NewNonMatchingScorer() *NonMatchingScorer { return &NonMatchingScorer{doc: -1} }

func (s *NonMatchingScorer) DocId() int { return s.doc }

func (s *NonMatchingScorer) NextDoc() int {
	s.doc = NO_MORE_DOCS
	return s.doc
}

func (s *NonMatchingScorer) Advance(target int) int { return s.NextDoc() }
func (s *NonMatchingScorer) Score() float32         { return 0 }
func (s *NonMatchingScorer) Close() error           { return nil }

func (s *NonMatchingScorer) Explain(doc int) *Explanation {
	return NewExplanation(0, "No documents matched")
}
