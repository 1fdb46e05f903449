package model

/*
TermDocEnum is the postings cursor of a single term. It is unpositioned
after Seek() and must be advanced with Next() or SkipTo() before Doc()
and Freq() are meaningful. Cursors only move forward.
*/
type TermDocEnum interface {
	// Seek positions the cursor before the first document of t. Seeking
	// an absent term leaves an empty cursor.
	Seek(t Term)
	// Next advances to the next document, returning false once the
	// postings are exhausted.
	Next() bool
	// SkipTo advances to the first document >= target beyond the
	// current one.
	SkipTo(target int) bool
	Doc() int
	Freq() int
	// NextPosition returns the next position of the term in the current
	// document, or -1 when they are exhausted.
	NextPosition() int
	Close() error
}

/*
TermEnum steps through the terms of one field in ascending order. It
is unpositioned when first obtained.
*/
type TermEnum interface {
	Next() bool
	// SkipTo positions on the first term >= text, returning false if
	// there is none.
	SkipTo(text string) bool
	Term() string
	DocFreq() int
	Close() error
}
