package model

import (
	"fmt"
)

/*
A Term represents a word from text. This is the unit of search. It is
composed of two elements, the text of the word, as a string, and the
name of the field that the text occurred in.
*/
type Term struct {
	Field string
	Text  string
}

func NewTerm(field, text string) Term {
	return Term{Field: field, Text: text}
}

// Compares two terms, returning a negative integer if this term
// belongs before the argument, zero if equal and a positive integer
// if it belongs after.
//
// The ordering of terms is first by field, then by text.
func (t Term) CompareTo(other Term) int {
	switch {
	case t.Field < other.Field:
		return -1
	case t.Field > other.Field:
		return 1
	case t.Text < other.Text:
		return -1
	case t.Text > other.Text:
		return 1
	}
	return 0
}

func (t Term) String() string {
	return fmt.Sprintf("%v:%v", t.Field, t.Text)
}

// TermSet collects distinct terms, e.g. the terms a query refers to.
type TermSet map[Term]struct{}

func (s TermSet) Add(t Term)           { s[t] = struct{}{} }
func (s TermSet) Contains(t Term) bool { _, ok := s[t]; return ok }
