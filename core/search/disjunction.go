package search

import (
	. "github.com/balzaczyy/gosearch/core/search/model"
	"github.com/balzaczyy/gosearch/core/util"
)

// search/DisjunctionSumScorer.java

/*
A Scorer for OR like queries, counterpart of ConjunctionScorer. A
document matches when at least minNrShouldMatch sub-scorers are on it;
its score is the sum of the scores of those sub-scorers.

The sub-scorers sit in a priority queue ordered by their current
document, which is filled on the first call to NextDoc() or Advance().
*/
type DisjunctionSumScorer struct {
	subScorers       []Scorer
	minNrShouldMatch int
	queue            *util.PriorityQueue[Scorer]
	doc              int
	// the score and number of sub-scorers of the current match
	currentScore float32
	nrMatchers   int

	// set when counting towards a BooleanScorer's coordination
	coordinator *coordinator
}

func NewDisjunctionSumScorer(subScorers []Scorer, minNrShouldMatch int) (*DisjunctionSumScorer, error) {
	if minNrShouldMatch <= 0 {
		return nil, configErrorf("minimum number of sub-scorers that should match must be > 0, got %v",
			minNrShouldMatch)
	}
	return &DisjunctionSumScorer{
		subScorers:       subScorers,
		minNrShouldMatch: minNrShouldMatch,
		doc:              -1,
		currentScore:     -1,
		nrMatchers:       -1,
	}, nil
}

func newCountingDisjunctionSumScorer(c *coordinator, subScorers []Scorer) *DisjunctionSumScorer {
	ans, err := NewDisjunctionSumScorer(subScorers, 1)
	assert(err == nil)
	ans.coordinator = c
	return ans
}

func (ds *DisjunctionSumScorer) initScorerQueue() {
	ds.queue = util.NewPriorityQueue(len(ds.subScorers), scorerDocLess)
	for _, s := range ds.subScorers {
		if s.NextDoc() != NO_MORE_DOCS {
			ds.queue.Insert(s)
		}
	}
}

/*
advanceAfterCurrent collects the sub-scorers on the top document and
moves them past it, repeating until a document with enough matchers is
found.
*/
func (ds *DisjunctionSumScorer) advanceAfterCurrent() int {
	for {
		top := ds.queue.Top()
		ds.doc = top.DocId()
		ds.currentScore = top.Score()
		ds.nrMatchers = 1
		// until all sub-scorers are after ds.doc
		for {
			if top.NextDoc() != NO_MORE_DOCS {
				ds.queue.UpdateTop()
			} else {
				ds.queue.Pop()
				if ds.queue.Len() < ds.minNrShouldMatch-ds.nrMatchers {
					// not enough sub-scorers left for a match on this
					// document, also no more chance of any further match
					return ds.exhaust()
				}
				if ds.queue.Len() == 0 {
					break // nothing more to advance, check for last match
				}
			}
			top = ds.queue.Top()
			if top.DocId() != ds.doc {
				break // all remaining sub-scorers are after ds.doc
			}
			ds.currentScore += top.Score()
			ds.nrMatchers++
		}

		if ds.nrMatchers >= ds.minNrShouldMatch {
			return ds.doc
		} else if ds.queue.Len() < ds.minNrShouldMatch {
			return ds.exhaust()
		}
	}
}

func (ds *DisjunctionSumScorer) exhaust() int {
	ds.doc = NO_MORE_DOCS
	return ds.doc
}

func (ds *DisjunctionSumScorer) DocId() int { return ds.doc }

func (ds *DisjunctionSumScorer) NextDoc() int {
	if ds.doc == NO_MORE_DOCS {
		return ds.doc
	}
	if ds.queue == nil {
		ds.initScorerQueue()
	}
	if ds.queue.Len() < ds.minNrShouldMatch {
		return ds.exhaust()
	}
	return ds.advanceAfterCurrent()
}

func (ds *DisjunctionSumScorer) Advance(target int) int {
	if ds.doc == NO_MORE_DOCS {
		return ds.doc
	}
	if ds.queue == nil {
		ds.initScorerQueue()
	}
	if ds.queue.Len() < ds.minNrShouldMatch {
		return ds.exhaust()
	}
	if target <= ds.doc {
		target = ds.doc + 1
	}
	for {
		top := ds.queue.Top()
		if top.DocId() >= target {
			return ds.advanceAfterCurrent()
		} else if top.Advance(target) != NO_MORE_DOCS {
			ds.queue.UpdateTop()
		} else {
			ds.queue.Pop()
			if ds.queue.Len() < ds.minNrShouldMatch {
				return ds.exhaust()
			}
		}
	}
}

// Returns the number of sub-scorers matching the current document.
func (ds *DisjunctionSumScorer) NrMatchers() int { return ds.nrMatchers }

func (ds *DisjunctionSumScorer) Score() float32 {
	if ds.coordinator != nil {
		ds.coordinator.numMatches += ds.nrMatchers
	}
	return ds.currentScore
}

func (ds *DisjunctionSumScorer) Explain(doc int) *Explanation {
	e := NewExplanation(0, "At least %v of:", ds.minNrShouldMatch)
	matched := 0
	var sum float32
	for _, s := range ds.subScorers {
		detail := s.Explain(doc)
		if detail.IsMatch() {
			matched++
			sum += detail.value
		}
		e.AddDetail(detail)
	}
	if matched >= ds.minNrShouldMatch {
		e.value = sum
	}
	return e
}

func (ds *DisjunctionSumScorer) Close() error {
	return closeAll(ds.subScorers...)
}
