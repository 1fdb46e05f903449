package model

import (
	"math"
)

const NO_MORE_DOCS = math.MaxInt32

/*
DocIdSetIterator walks an ascending set of document ids.

DocId() returns -1 before the first call to NextDoc() or Advance(),
NO_MORE_DOCS once the iterator is exhausted, and the current document
otherwise. An exhausted iterator stays exhausted: further calls keep
returning NO_MORE_DOCS.
*/
type DocIdSetIterator interface {
	DocId() int
	// Advances to the next document in the set and returns it, or
	// NO_MORE_DOCS if there are no more docs in the set.
	NextDoc() int
	/*
		Advances to the first document beyond the current whose number is
		greater than or equal to target, and returns it. When target is not
		beyond the current document this behaves like NextDoc(). Exhausts
		the iterator and returns NO_MORE_DOCS if there is no such document.
	*/
	Advance(target int) int
}
