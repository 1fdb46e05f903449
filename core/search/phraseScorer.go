package search

import (
	"math"
	"sort"

	"github.com/balzaczyy/gosearch/core/index/model"
	. "github.com/balzaczyy/gosearch/core/search/model"
	"github.com/balzaczyy/gosearch/core/util"
)

// search/PhrasePositions.java

/*
phrasePositions walks the postings of one phrase slot. position is
relative to the phrase start: the term position minus the slot offset,
so all slots of a match share the same position in exact phrases.
*/
type phrasePositions struct {
	tpe      model.TermDocEnum
	offset   int
	count    int
	doc      int
	position int
}

func newPhrasePositions(tpe model.TermDocEnum, offset int) *phrasePositions {
	return &phrasePositions{tpe: tpe, offset: offset, count: -1, doc: -1, position: -1}
}

func (pp *phrasePositions) exhaust() bool {
	pp.tpe.Close() // close stream
	pp.tpe = nil
	pp.doc = NO_MORE_DOCS // sentinel value
	return false
}

func (pp *phrasePositions) next() bool {
	if pp.tpe == nil || !pp.tpe.Next() {
		if pp.tpe != nil {
			return pp.exhaust()
		}
		return false
	}
	pp.doc = pp.tpe.Doc()
	pp.position = 0
	return true
}

func (pp *phrasePositions) skipTo(target int) bool {
	if pp.tpe == nil {
		return false
	}
	if pp.doc >= target {
		pp.position = 0
		return true
	}
	if !pp.tpe.SkipTo(target) {
		return pp.exhaust()
	}
	pp.doc = pp.tpe.Doc()
	pp.position = 0
	return true
}

func (pp *phrasePositions) firstPosition() bool {
	pp.count = pp.tpe.Freq() // read first pos
	return pp.nextPosition()
}

func (pp *phrasePositions) nextPosition() bool {
	pp.count--
	if pp.count >= 0 { // read subsequent pos's
		pp.position = pp.tpe.NextPosition() - pp.offset
		return true
	}
	return false
}

func (pp *phrasePositions) close() error {
	if pp.tpe != nil {
		return pp.tpe.Close()
	}
	return nil
}

// Orders by doc, then position, then offset.
func phrasePositionsLess(a, b *phrasePositions) bool {
	if a.doc != b.doc {
		return a.doc < b.doc
	}
	if a.position != b.position {
		return a.position < b.position
	}
	return a.offset < b.offset
}

// search/PhraseScorer.java

/*
PhraseScorer finds documents containing all phrase slots with the same
ring walk as ConjunctionScorer, then asks phraseFreq() how often the
phrase occurs there. Documents with a zero frequency are skipped.
*/
type PhraseScorer struct {
	weight     *PhraseWeight
	similarity Similarity
	norms      []byte
	value      float32
	pps        []*phrasePositions
	firstIdx   int
	firstTime  bool
	more       bool
	freq       float32
	doc        int
	phraseFreq func() float32
}

func newPhraseScorer(w *PhraseWeight, pps []*phrasePositions, norms []byte) *PhraseScorer {
	return &PhraseScorer{
		weight:     w,
		similarity: w.similarity,
		norms:      norms,
		value:      w.value,
		pps:        pps,
		firstTime:  true,
		more:       true,
		doc:        -1,
	}
}

func (ps *PhraseScorer) next(i int) int { return (i + 1) % len(ps.pps) }
func (ps *PhraseScorer) prev(i int) int { return (i + len(ps.pps) - 1) % len(ps.pps) }

func (ps *PhraseScorer) sortPositions() {
	sort.Slice(ps.pps, func(i, j int) bool { return phrasePositionsLess(ps.pps[i], ps.pps[j]) })
	ps.firstIdx = 0
}

func (ps *PhraseScorer) init() {
	for i := len(ps.pps) - 1; i >= 0; i-- {
		if ps.more = ps.pps[i].next(); !ps.more {
			break
		}
	}
	if ps.more {
		ps.sortPositions()
	}
}

func (ps *PhraseScorer) doNext() int {
	first := ps.pps[ps.firstIdx]
	last := ps.pps[ps.prev(ps.firstIdx)]
	for ps.more {
		// find doc with all the terms
		for ps.more && first.doc < last.doc {
			// skip first upto last
			ps.more = first.skipTo(last.doc)
			last = first
			ps.firstIdx = ps.next(ps.firstIdx)
			first = ps.pps[ps.firstIdx]
		}

		if ps.more {
			// found a doc with all of the terms
			ps.freq = ps.phraseFreq()
			if ps.freq == 0 { // no match
				// continuing search so re-set first and last
				first = ps.pps[ps.firstIdx]
				last = ps.pps[ps.prev(ps.firstIdx)]
				ps.more = last.next() // trigger further scanning
			} else {
				ps.doc = first.doc
				return ps.doc // found a match
			}
		}
	}
	ps.doc = NO_MORE_DOCS
	return ps.doc
}

func (ps *PhraseScorer) DocId() int { return ps.doc }

func (ps *PhraseScorer) NextDoc() int {
	if ps.doc == NO_MORE_DOCS {
		return ps.doc
	}
	if ps.firstTime {
		ps.init()
		ps.firstTime = false
	} else if ps.more {
		// trigger further scanning
		ps.more = ps.pps[ps.prev(ps.firstIdx)].next()
	}
	return ps.doNext()
}

func (ps *PhraseScorer) Advance(target int) int {
	if ps.doc == NO_MORE_DOCS {
		return ps.doc
	}
	if target <= ps.doc {
		return ps.NextDoc()
	}
	ps.firstTime = false
	for i := len(ps.pps) - 1; i >= 0; i-- {
		if ps.more = ps.pps[i].skipTo(target); !ps.more {
			break
		}
	}
	if ps.more {
		ps.sortPositions()
	}
	return ps.doNext()
}

// Freq returns the phrase frequency of the current document.
func (ps *PhraseScorer) Freq() float32 { return ps.freq }

func (ps *PhraseScorer) Score() float32 {
	rawScore := ps.similarity.Tf(ps.freq) * ps.value
	return rawScore * decodeNorm(ps.similarity, ps.norms, ps.doc) // normalize
}

func (ps *PhraseScorer) Explain(doc int) *Explanation {
	if ps.doc < doc {
		ps.Advance(doc)
	}
	var phraseFreq float32
	if ps.doc == doc {
		phraseFreq = ps.freq
	}
	return NewExplanation(ps.similarity.Tf(phraseFreq), "tf(phrase_freq=%v)", phraseFreq)
}

func (ps *PhraseScorer) Close() (err error) {
	for _, pp := range ps.pps {
		if e := pp.close(); e != nil && err == nil {
			err = e
		}
	}
	return
}

// search/ExactPhraseScorer.java

func newExactPhraseScorer(w *PhraseWeight, pps []*phrasePositions, norms []byte) *PhraseScorer {
	ps := newPhraseScorer(w, pps, norms)
	ps.phraseFreq = ps.exactPhraseFreq
	return ps
}

/*
exactPhraseFreq counts the relative positions all slots share in the
current document.
*/
func (ps *PhraseScorer) exactPhraseFreq() float32 {
	pps := ps.pps
	n := len(pps)
	for _, pp := range pps {
		pp.firstPosition()
	}
	sort.Slice(pps, func(i, j int) bool { return pps[i].position < pps[j].position })

	firstIdx := 0
	first, last := pps[0], pps[n-1]
	var freq float32
	// scan to position with all terms
	for {
		// scan forward in first
		for first.position < last.position {
			for {
				if !first.nextPosition() {
					ps.firstIdx = firstIdx // maintain first position
					return freq
				}
				if first.position >= last.position {
					break
				}
			}
			last = first
			firstIdx = ps.next(firstIdx)
			first = pps[firstIdx]
		}
		freq++ // all equal: a match
		if !last.nextPosition() {
			break
		}
	}
	ps.firstIdx = firstIdx // maintain first position
	return freq
}

// search/SloppyPhraseScorer.java

func newSloppyPhraseScorer(w *PhraseWeight, pps []*phrasePositions, norms []byte,
	slop int, checkRepeats bool) *PhraseScorer {

	ps := newPhraseScorer(w, pps, norms)
	ps.phraseFreq = func() float32 { return ps.sloppyPhraseFreq(slop, checkRepeats) }
	return ps
}

/*
positionsCollide reports whether two slots with different offsets read
the same document position, taking moved to sit at relative position at.
Such a window uses one occurrence of a repeated term twice.
*/
func positionsCollide(pps []*phrasePositions, moved *phrasePositions, at int) bool {
	docPos := func(pp *phrasePositions) int {
		if pp == moved {
			return at + pp.offset
		}
		return pp.position + pp.offset
	}
	for i := 1; i < len(pps); i++ {
		for j := 0; j < i; j++ {
			// equal offsets are slots meant to match at the same position
			if pps[i].offset != pps[j].offset && docPos(pps[i]) == docPos(pps[j]) {
				return true
			}
		}
	}
	return false
}

/*
sloppyPhraseFreq slides a window over the slot positions, smallest
first. Each window whose width is within slop contributes
SloppyFreq(width). When the phrase repeats a term, windows in which two
slots share a document position are not counted, but every slot keeps
walking its own positions so later windows are still seen.
*/
func (ps *PhraseScorer) sloppyPhraseFreq(slop int, repeats bool) float32 {
	pq := util.NewPriorityQueue(len(ps.pps), func(a, b *phrasePositions) bool {
		if a.position == b.position {
			return a.offset < b.offset
		}
		return a.position < b.position
	})
	lastPos := math.MinInt32
	var freq float32
	for _, pp := range ps.pps {
		// there is at least one position or this doc would not be here
		ok := pp.firstPosition()
		assert(ok)
		if pp.position > lastPos {
			lastPos = pp.position
		}
		pq.Push(pp)
	}

	for done := false; !done; {
		pp := pq.Pop()
		pos := pp.position
		start := pos
		nextPos := NO_MORE_DOCS // single slot phrases only compete with themselves
		if pq.Len() > 0 {
			nextPos = pq.Top().position
		}
		for pos <= nextPos {
			start = pos // advance pp to min window
			if !pp.nextPosition() {
				done = true
				break
			}
			pos = pp.position
		}
		matchLength := lastPos - start
		if matchLength <= slop && !(repeats && positionsCollide(ps.pps, pp, start)) {
			freq += ps.similarity.SloppyFreq(matchLength) // score match
		}
		if pp.position > lastPos {
			lastPos = pp.position
		}
		pq.Push(pp) // restore pq
	}
	return freq
}
