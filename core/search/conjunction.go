package search

import (
	. "github.com/balzaczyy/gosearch/core/search/model"
)

// search/ConjunctionScorer.java

/*
Scorer for conjunctions, sets of queries, all of which are required.

The sub-scorers are kept in a ring ordered by their current document.
The scorer on the smallest document is skipped to the largest known
document and becomes the new last, until all of them agree.
*/
type ConjunctionScorer struct {
	scorers   []Scorer
	coord     float32
	firstTime bool
	more      bool
	firstIdx  int
	doc       int

	// set when counting towards a BooleanScorer's coordination
	coordinator *coordinator
}

func NewConjunctionScorer(sim Similarity, scorers ...Scorer) *ConjunctionScorer {
	n := len(scorers)
	return &ConjunctionScorer{
		scorers:   scorers,
		coord:     sim.Coord(n, n),
		firstTime: true,
		more:      n > 0,
		doc:       -1,
	}
}

func newCountingConjunctionScorer(c *coordinator, scorers []Scorer) *ConjunctionScorer {
	ans := NewConjunctionScorer(NewDefaultSimilarity(), scorers...)
	ans.coordinator = c
	return ans
}

func (cs *ConjunctionScorer) next(i int) int { return (i + 1) % len(cs.scorers) }
func (cs *ConjunctionScorer) prev(i int) int { return (i + len(cs.scorers) - 1) % len(cs.scorers) }

func (cs *ConjunctionScorer) init(nextScorers bool) {
	if nextScorers {
		// move each scorer to its first entry
		for _, s := range cs.scorers {
			if !cs.more {
				break
			}
			cs.more = s.NextDoc() != NO_MORE_DOCS
		}
		if cs.more {
			cs.sortScorers()
		}
	}
	cs.firstTime = false
}

// sortScorers makes the docs of the ring non-decreasing from index 0.
func (cs *ConjunctionScorer) sortScorers() {
	current := cs.scorers[0]
	for _, s := range cs.scorers[1:] {
		previous := current
		current = s
		if previous.DocId() > current.DocId() {
			if current.Advance(previous.DocId()) == NO_MORE_DOCS {
				cs.more = false
				return
			}
		}
	}
	cs.firstIdx = 0
}

func (cs *ConjunctionScorer) doNext() int {
	first := cs.scorers[cs.firstIdx]
	last := cs.scorers[cs.prev(cs.firstIdx)]

	// skip to doc with all clauses
	for cs.more && first.DocId() < last.DocId() {
		// skip first upto last
		cs.more = first.Advance(last.DocId()) != NO_MORE_DOCS
		// move first to last
		last = first
		cs.firstIdx = cs.next(cs.firstIdx)
		first = cs.scorers[cs.firstIdx]
	}
	if cs.more {
		cs.doc = first.DocId()
	} else {
		cs.exhaust()
	}
	return cs.doc
}

func (cs *ConjunctionScorer) exhaust() {
	cs.more = false
	cs.doc = NO_MORE_DOCS
}

func (cs *ConjunctionScorer) DocId() int { return cs.doc }

func (cs *ConjunctionScorer) NextDoc() int {
	if cs.doc == NO_MORE_DOCS || !cs.more {
		cs.exhaust()
		return cs.doc
	}
	if cs.firstTime {
		cs.init(true)
	} else {
		// trigger further scanning
		last := cs.scorers[cs.prev(cs.firstIdx)]
		cs.more = last.NextDoc() != NO_MORE_DOCS
	}
	return cs.doNext()
}

func (cs *ConjunctionScorer) Advance(target int) int {
	if cs.doc == NO_MORE_DOCS || !cs.more {
		cs.exhaust()
		return cs.doc
	}
	if target <= cs.doc {
		return cs.NextDoc()
	}
	if cs.firstTime {
		cs.init(false)
	}
	for _, s := range cs.scorers {
		if !cs.more {
			break
		}
		cs.more = s.Advance(target) != NO_MORE_DOCS
	}
	if cs.more {
		// resort the scorers
		cs.sortScorers()
	}
	return cs.doNext()
}

func (cs *ConjunctionScorer) Score() float32 {
	if cs.coordinator != nil {
		cs.coordinator.numMatches += len(cs.scorers)
	}
	var sum float32
	for _, s := range cs.scorers {
		sum += s.Score()
	}
	return sum * cs.coord
}

func (cs *ConjunctionScorer) Explain(doc int) *Explanation {
	e := NewExplanation(0, "product of coord(%v/%v) and sum of:", len(cs.scorers), len(cs.scorers))
	var sum float32
	for _, s := range cs.scorers {
		detail := s.Explain(doc)
		if !detail.IsMatch() {
			return NewExplanation(0, "conjunction does not match doc %v", doc)
		}
		sum += detail.value
		e.AddDetail(detail)
	}
	e.value = sum * cs.coord
	return e
}

func (cs *ConjunctionScorer) Close() error {
	return closeAll(cs.scorers...)
}
