package search

import (
	"fmt"

	"github.com/balzaczyy/gosearch/core/util"
)

// search/ScoreDoc.java

/* Holds one hit in TopDocs. */
type ScoreDoc struct {
	// The score of this document for the query.
	Score float32
	// A hit document's number.
	Doc int
	// The sort values of the hit, only set by sorted searches.
	Fields []Comparable
	// Only set by MultiSearcher: the sub-searcher the hit came from.
	shardIndex int
}

/*
FieldDoc is a hit of a sorted search. Fields holds one value per sort
key, in the order of the Sort, enough to re-derive the ordering without
the index (see FieldDocLess).
*/
type FieldDoc = ScoreDoc

func newScoreDoc(doc int, score float32) *ScoreDoc {
	return &ScoreDoc{Score: score, Doc: doc, shardIndex: -1}
}

func (d *ScoreDoc) ShardIndex() int { return d.shardIndex }

func (d *ScoreDoc) String() string {
	if d.Fields != nil {
		return fmt.Sprintf("doc=%v score=%v fields=%v", d.Doc, d.Score, d.Fields)
	}
	return fmt.Sprintf("doc=%v score=%v", d.Doc, d.Score)
}

// search/TopDocs.java

/* Represents hits returned by Searcher.Search(). */
type TopDocs struct {
	// The total number of hits for the query, not just the window.
	TotalHits int
	// The hits of the requested window, best first.
	ScoreDocs []*ScoreDoc
	// The best score seen, 0 when nothing matched.
	MaxScore float32
}

func (td *TopDocs) Size() int { return len(td.ScoreDocs) }

func (td *TopDocs) String() string {
	return fmt.Sprintf("TopDocs(total_hits=%v, max_score=%v, hits=%v)",
		td.TotalHits, td.MaxScore, td.ScoreDocs)
}

/*
Orders hits so that the worst one sits on top of the queue: a lower
score is worse, and among equal scores the higher document number is
worse, so earlier documents win ties.
*/
func hitLess(a, b *ScoreDoc) bool {
	if a.Score == b.Score {
		return a.Doc > b.Doc
	}
	return a.Score < b.Score
}

// search/TopDocsCollector.java

/*
TopDocsCollector keeps the best hits seen in a bounded queue and cuts
a [start, start+howMany) window out of them once collection is done.
The queue capacity must be at least start+howMany for the window to be
exact.
*/
type TopDocsCollector struct {
	pq        *util.PriorityQueue[*ScoreDoc]
	TotalHits int
	MaxScore  float32
	// turns a popped hit into its final form, e.g. attaching sort values
	populate func(hit *ScoreDoc) *ScoreDoc
}

/*
NewTopScoreDocCollector returns a collector ordering hits by score
descending, then document ascending.
*/
func NewTopScoreDocCollector(numHits int) *TopDocsCollector {
	assert2(numHits >= 0, "numHits must be >= 0, got %v", numHits)
	return &TopDocsCollector{pq: util.NewPriorityQueue(numHits, hitLess)}
}

/*
NewTopFieldCollector returns a collector ordering hits with sorter.
Collected hits carry their sort values.
*/
func NewTopFieldCollector(numHits int, sorter *Sorter) *TopDocsCollector {
	assert2(numHits >= 0, "numHits must be >= 0, got %v", numHits)
	return &TopDocsCollector{
		pq:       util.NewPriorityQueue(numHits, sorter.Less),
		populate: sorter.FieldDoc,
	}
}

/*
Collect offers one scored document. Every call counts towards
TotalHits whether or not the hit survives in the queue.
*/
func (c *TopDocsCollector) Collect(doc int, score float32) {
	c.TotalHits++
	if score > c.MaxScore {
		c.MaxScore = score
	}
	if c.pq.Capacity() == 0 {
		return
	}
	if c.pq.Len() == c.pq.Capacity() {
		// Doesn't compete with the bottom entry; saves an allocation.
		if !c.pq.Less(c.pq.Top(), &ScoreDoc{Score: score, Doc: doc}) {
			return
		}
	}
	c.pq.Insert(newScoreDoc(doc, score))
}

// collectHit offers an already built hit, keeping its sort values.
func (c *TopDocsCollector) collectHit(hit *ScoreDoc) {
	c.pq.Insert(hit)
}

func (c *TopDocsCollector) topDocsSize() int {
	return c.pq.Len()
}

/*
TopDocsRange returns the hits in the range [start, start+howMany) of
the collected ordering. If start is beyond the collected hits the
result is empty, and a shorter window is returned when fewer than
howMany hits remain.

NOTE: the queue is drained, so this can only be called once per
collection.
*/
func (c *TopDocsCollector) TopDocsRange(start, howMany int) *TopDocs {
	size := c.topDocsSize()
	if start < 0 || start >= size || howMany <= 0 {
		c.pq.Clear()
		return &TopDocs{TotalHits: c.TotalHits, ScoreDocs: []*ScoreDoc{}, MaxScore: c.MaxScore}
	}

	// We know that start < size, so just fix howMany.
	if size-start < howMany {
		howMany = size - start
	}
	results := make([]*ScoreDoc, howMany)

	// Pop() returns the worst hit, so discard the ones beyond the
	// requested window first. This only happens when the queue was
	// sized larger than start+howMany.
	for i := size - start - howMany; i > 0; i-- {
		c.pq.Pop()
	}
	for i := howMany - 1; i >= 0; i-- {
		hit := c.pq.Pop()
		if c.populate != nil {
			hit = c.populate(hit)
		}
		results[i] = hit
	}
	c.pq.Clear()
	return &TopDocs{TotalHits: c.TotalHits, ScoreDocs: results, MaxScore: c.MaxScore}
}

// TopDocs returns every collected hit, best first.
func (c *TopDocsCollector) TopDocs() *TopDocs {
	return c.TopDocsRange(0, c.topDocsSize())
}
