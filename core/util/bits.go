package util

import (
	"github.com/RoaringBitmap/roaring/v2"
)

/*
DocSet is a compressed set of document ids backed by a roaring
bitmap. It serves as deletion set, filter result and the iteration
source of constant scoring queries.
*/
type DocSet struct {
	bm     *roaring.Bitmap
	length int
}

// NewDocSet creates an empty set addressing docs in [0, length).
func NewDocSet(length int) *DocSet {
	return &DocSet{bm: roaring.New(), length: length}
}

func (s *DocSet) Set(doc int) {
	s.bm.Add(uint32(doc))
	if doc >= s.length {
		s.length = doc + 1
	}
}

func (s *DocSet) Clear(doc int)    { s.bm.Remove(uint32(doc)) }
func (s *DocSet) At(doc int) bool  { return doc >= 0 && s.bm.Contains(uint32(doc)) }
func (s *DocSet) Length() int      { return s.length }
func (s *DocSet) Cardinality() int { return int(s.bm.GetCardinality()) }
func (s *DocSet) IsEmpty() bool    { return s.bm.IsEmpty() }

/*
NextSetBit returns the index of the first set bit at or after from,
or -1 if there is none.
*/
func (s *DocSet) NextSetBit(from int) int {
	if from < 0 {
		from = 0
	}
	it := s.bm.Iterator()
	it.AdvanceIfNeeded(uint32(from))
	if it.HasNext() {
		return int(it.Next())
	}
	return -1
}

// And keeps only the docs also present in o.
func (s *DocSet) And(o *DocSet) {
	s.bm.And(o.bm)
}

// Or adds every doc of o.
func (s *DocSet) Or(o *DocSet) {
	s.bm.Or(o.bm)
	if o.length > s.length {
		s.length = o.length
	}
}

func (s *DocSet) Clone() *DocSet {
	return &DocSet{bm: s.bm.Clone(), length: s.length}
}

// ToArray lists the set docs in ascending order.
func (s *DocSet) ToArray() []int {
	ans := make([]int, 0, s.bm.GetCardinality())
	it := s.bm.Iterator()
	for it.HasNext() {
		ans = append(ans, int(it.Next()))
	}
	return ans
}

// Iterator walks the set docs in ascending order.
func (s *DocSet) Iterator() *DocSetIterator {
	return &DocSetIterator{it: s.bm.Iterator(), doc: -1}
}

/*
DocSetIterator is a forward-only cursor over a DocSet. It reports
math.MaxInt32 once exhausted.
*/
type DocSetIterator struct {
	it  roaring.IntPeekable
	doc int
}

const exhausted = int(^uint32(0) >> 1)

func (it *DocSetIterator) DocId() int { return it.doc }

func (it *DocSetIterator) NextDoc() int {
	if it.doc == exhausted {
		return exhausted
	}
	if it.it.HasNext() {
		it.doc = int(it.it.Next())
	} else {
		it.doc = exhausted
	}
	return it.doc
}

// Advance moves to the first doc >= target beyond the current one.
func (it *DocSetIterator) Advance(target int) int {
	if it.doc == exhausted {
		return exhausted
	}
	if target <= it.doc {
		target = it.doc + 1
	}
	it.it.AdvanceIfNeeded(uint32(target))
	return it.NextDoc()
}
