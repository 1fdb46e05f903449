package search

import (
	"fmt"

	. "github.com/balzaczyy/gosearch/core/search/model"
)

// search/Scorer.java

/*
Scorer is a forward-only cursor over the documents matching a query,
in increasing document order, together with their scores.

A new Scorer is positioned before the first document (DocId() == -1).
NextDoc() and Advance() strictly move forward and return NO_MORE_DOCS
once the scorer is exhausted, which is permanent. Score() is only
valid while positioned on a match and may be called more than once
there. Explain() repositions the scorer and must therefore not be
mixed with iteration.
*/
type Scorer interface {
	DocIdSetIterator
	Score() float32
	Explain(doc int) *Explanation
	// Close releases the children and postings owned by this scorer.
	Close() error
}

// Scorers ordered by their current doc, the common merge ordering.
func scorerDocLess(a, b Scorer) bool {
	return a.DocId() < b.DocId()
}

func closeAll(scorers ...Scorer) (err error) {
	for _, s := range scorers {
		if s == nil {
			continue
		}
		if e := s.Close(); e != nil && err == nil {
			err = e
		}
	}
	return
}

/*
ScoreAll drives s to exhaustion, handing every (doc, score) pair to
fn.
*/
func ScoreAll(s Scorer, fn func(doc int, score float32)) {
	for doc := s.NextDoc(); doc != NO_MORE_DOCS; doc = s.NextDoc() {
		fn(doc, s.Score())
	}
}

func assert(ok bool) {
	if !ok {
		panic("assert fail")
	}
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
