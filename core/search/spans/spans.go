/*
Package spans implements position-aware queries. A span is a
(document, start, end) interval of token positions with end exclusive;
span queries combine them into proximity, first-N, union and
exclusion constraints and score documents by how many spans they hold
and how tight those are.
*/
package spans

import (
	"fmt"

	. "github.com/balzaczyy/gosearch/core/search/model"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("spans")

// search/spans/Spans.java

/*
SpanEnum walks the spans of a query in (doc, start, end) order.

A new SpanEnum is positioned before the first span and Doc() returns
-1. Once exhausted, Doc() returns NO_MORE_DOCS and both Next() and
SkipTo() keep returning false.
*/
type SpanEnum interface {
	// Moves to the next span, returning false when there is none.
	Next() bool
	/*
		SkipTo moves to the first span whose document is >= target. It
		does not move when the current span already satisfies this.
	*/
	SkipTo(target int) bool
	Doc() int
	// Start position of the current span.
	Start() int
	// End position of the current span, exclusive.
	End() int
	Close() error
	String() string
}

// Spans ordered by doc, then start, then end.
func spanLess(a, b SpanEnum) bool {
	if a.Doc() != b.Doc() {
		return a.Doc() < b.Doc()
	}
	if a.Start() != b.Start() {
		return a.Start() < b.Start()
	}
	return a.End() < b.End()
}

func spanPosition(s SpanEnum) string {
	switch doc := s.Doc(); doc {
	case -1:
		return "START"
	case NO_MORE_DOCS:
		return "END"
	default:
		return fmt.Sprintf("%v:%v-%v", doc, s.Start(), s.End())
	}
}

func closeSpans(spans ...SpanEnum) (err error) {
	for _, s := range spans {
		if e := s.Close(); e != nil && err == nil {
			err = e
		}
	}
	return
}

// emptySpans matches nothing, e.g. a near query without clauses.
type emptySpans struct{}

func (emptySpans) Next() bool             { return false }
func (emptySpans) SkipTo(target int) bool { return false }
func (emptySpans) Doc() int               { return NO_MORE_DOCS }
func (emptySpans) Start() int             { return -1 }
func (emptySpans) End() int               { return -1 }
func (emptySpans) Close() error           { return nil }
func (emptySpans) String() string         { return "EmptySpans" }
