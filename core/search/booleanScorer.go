package search

// search/BooleanScorer2.java

/*
coordinator counts, per scored document, how many of the top-level
clauses matched. Counting scorers add to numMatches from Score(), and
BooleanScorer turns the total into a coord factor.
*/
type coordinator struct {
	maxCoord     int
	coordFactors []float32
	numMatches   int
}

func newCoordinator(sim Similarity, maxCoord int) *coordinator {
	ans := &coordinator{maxCoord: maxCoord}
	ans.coordFactors = make([]float32, maxCoord+1)
	for i := range ans.coordFactors {
		ans.coordFactors[i] = sim.Coord(i, maxCoord)
	}
	return ans
}

func (c *coordinator) factor() float32 {
	return c.coordFactors[c.numMatches]
}

/* Counts a match for a single clause scorer on every Score(). */
type SingleMatchScorer struct {
	Scorer
	coordinator *coordinator
}

func (s *SingleMatchScorer) Score() float32 {
	s.coordinator.numMatches++
	return s.Scorer.Score()
}

/*
BooleanScorer combines the required, optional and prohibited clause
scorers of a BooleanQuery into one counting scorer:

  - the required scorers form a conjunction,
  - the optional scorers a disjunction, which is itself required when
    there are no required scorers,
  - the prohibited scorers are excluded from the result.

The score of the combination is multiplied with coord(matched, max).
*/
type BooleanScorer struct {
	similarity    Similarity
	coordinator   *coordinator
	counting      Scorer
	required      []Scorer
	optional      []Scorer
	prohibited    []Scorer
	maxCoordCount int

	// score of scoredDoc, so children are scored once per document
	scoredDoc  int
	score      float32
	numMatches int
}

/*
maxCoord is the number of non-prohibited clauses of the query, which
may exceed the number of scorers when some clauses cannot match.
*/
func newBooleanScorer(sim Similarity, maxCoord int, required, optional, prohibited []Scorer) *BooleanScorer {
	ans := &BooleanScorer{
		similarity:    sim,
		required:      required,
		optional:      optional,
		prohibited:    prohibited,
		maxCoordCount: maxCoord,
		scoredDoc:     -1,
	}
	ans.coordinator = newCoordinator(sim, ans.maxCoordCount)
	ans.counting = ans.makeCountingSumScorer()
	return ans
}

func (bs *BooleanScorer) singleMatch(s Scorer) Scorer {
	return &SingleMatchScorer{s, bs.coordinator}
}

func (bs *BooleanScorer) makeCountingSumScorer() Scorer {
	switch len(bs.required) {
	case 0:
		switch len(bs.optional) {
		case 0:
			closeAll(bs.prohibited...)
			bs.prohibited = nil
			return NewNonMatchingScorer()
		case 1:
			return bs.withOptional(bs.singleMatch(bs.optional[0]), nil)
		default:
			return bs.withOptional(newCountingDisjunctionSumScorer(bs.coordinator, bs.optional), nil)
		}
	case 1:
		return bs.withOptional(bs.singleMatch(bs.required[0]), bs.optional)
	default:
		return bs.withOptional(newCountingConjunctionScorer(bs.coordinator, bs.required), bs.optional)
	}
}

func (bs *BooleanScorer) withOptional(req Scorer, optional []Scorer) Scorer {
	switch len(optional) {
	case 0:
		return bs.withProhibited(req)
	case 1:
		return NewReqOptSumScorer(bs.withProhibited(req), bs.singleMatch(optional[0]))
	default:
		return NewReqOptSumScorer(bs.withProhibited(req),
			newCountingDisjunctionSumScorer(bs.coordinator, optional))
	}
}

func (bs *BooleanScorer) withProhibited(req Scorer) Scorer {
	switch len(bs.prohibited) {
	case 0:
		return req
	case 1:
		return NewReqExclScorer(req, bs.prohibited[0])
	default:
		excl, err := NewDisjunctionSumScorer(bs.prohibited, 1)
		assert(err == nil)
		return NewReqExclScorer(req, excl)
	}
}

func (bs *BooleanScorer) DocId() int             { return bs.counting.DocId() }
func (bs *BooleanScorer) NextDoc() int           { return bs.counting.NextDoc() }
func (bs *BooleanScorer) Advance(target int) int { return bs.counting.Advance(target) }

func (bs *BooleanScorer) Score() float32 {
	if doc := bs.counting.DocId(); doc != bs.scoredDoc {
		bs.coordinator.numMatches = 0
		sum := bs.counting.Score()
		bs.scoredDoc = doc
		bs.score = sum * bs.coordinator.factor()
		bs.numMatches = bs.coordinator.numMatches
	}
	return bs.score
}

func (bs *BooleanScorer) Explain(doc int) *Explanation {
	if bs.DocId() < doc {
		bs.Advance(doc)
	}
	if bs.DocId() != doc {
		return NewExplanation(0, "no match on required clauses")
	}
	score := bs.Score()
	return NewExplanation(score, "boolean score, coord(%v/%v)",
		bs.numMatches, bs.maxCoordCount).
		AddDetail(bs.counting.Explain(doc))
}

func (bs *BooleanScorer) Close() error {
	return bs.counting.Close()
}

var _ Scorer = (*BooleanScorer)(nil)
