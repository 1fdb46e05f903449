package search

import (
	"fmt"

	"github.com/balzaczyy/gosearch/core/index"
)

// search/Weight.java

/*
Expert: calculate query weights and build query scorers.

The purpose of Weight is to ensure searching does not modify a Query,
so that a Query instance can be reused. Searcher dependent state of
the query should reside in the Weight. IndexReader dependent state
should reside in the Scorer.

A Weight is used in the following way:
 1. A Weight is constructed by a top-level query, given a Searcher
    (Query.CreateWeight()).
 2. The ValueForNormalization() method is called on the Weight to
    compute the query normalization factor Similarity.QueryNorm() of
    the query clauses contained in the query.
 3. The query normalization factor is passed to Normalize(). At this
    point the weighting is complete.
 4. A Scorer is constructed by Scorer().
*/
type Weight interface {
	// The query that this concerns.
	Query() Query
	// The weight for this query.
	Value() float32
	// The value for normalization of contained query clauses (e.g. sum
	// of squared weights).
	ValueForNormalization() float32
	// Assigns the query normalization factor to this.
	Normalize(norm float32)
	// Returns a Scorer over the documents of r. nil means no document
	// can match, e.g. because the field does not exist.
	Scorer(r index.IndexReader) (Scorer, error)
	// An explanation of the score computation for the named document.
	Explain(r index.IndexReader, doc int) (*Explanation, error)
	String() string
}

/*
WeightImpl holds the normalization state shared by leaf weights: the
idf of their terms, the query weight idf*boost and the query norm.
*/
type WeightImpl struct {
	query      Query
	similarity Similarity
	value      float32
	qweight    float32
	qnorm      float32
	idf        float32
}

func NewWeightImpl(query Query, similarity Similarity, idf float32) *WeightImpl {
	return &WeightImpl{
		query:      query,
		similarity: similarity,
		idf:        idf,
		value:      query.Boost(),
	}
}

func (w *WeightImpl) Query() Query           { return w.query }
func (w *WeightImpl) Value() float32         { return w.value }
func (w *WeightImpl) Similarity() Similarity { return w.similarity }
func (w *WeightImpl) Idf() float32           { return w.idf }
func (w *WeightImpl) QueryNorm() float32     { return w.qnorm }

func (w *WeightImpl) ValueForNormalization() float32 {
	w.qweight = w.idf * w.query.Boost() // compute query weight
	return w.qweight * w.qweight        // square it
}

func (w *WeightImpl) Normalize(norm float32) {
	w.qnorm = norm
	w.qweight *= norm           // normalize query weight
	w.value = w.qweight * w.idf // idf for document
}

/*
ExplainScore builds the explanation shared by term, phrase, multi-term
and span weights:

	weight(query in doc), product of:
	  query_weight(query), product of:
	    boost
	    idf(...)
	    query_norm
	  field_weight(field:... in doc), product of:
	    tf(...)
	    idf(...)
	    field_norm(field=..., doc=...)

When the query weight is exactly 1 only the field weight is returned.
*/
func (w *WeightImpl) ExplainScore(doc int, fieldDesc string, idfExpl func() *Explanation,
	tfExpl *Explanation, field string, norms []byte) *Explanation {

	queryStr := w.query.ToString("")
	expl := NewExplanation(0, "weight(%v in %v), product of:", queryStr, doc)

	queryExpl := NewExplanation(0, "query_weight(%v), product of:", queryStr)
	boost := w.query.Boost()
	if boost != 1 {
		queryExpl.AddDetail(NewExplanation(boost, "boost"))
	}
	queryExpl.AddDetail(idfExpl())
	queryExpl.AddDetail(NewExplanation(w.qnorm, "query_norm"))
	queryExpl.value = boost * w.idf * w.qnorm
	expl.AddDetail(queryExpl)

	fieldExpl := NewExplanation(0, "field_weight(%v in %v), product of:", fieldDesc, doc)
	fieldExpl.AddDetail(tfExpl)
	fieldExpl.AddDetail(idfExpl())
	fieldNorm := decodeNorm(w.similarity, norms, doc)
	fieldExpl.AddDetail(NewExplanation(fieldNorm, "field_norm(field=%v, doc=%v)", field, doc))
	fieldExpl.value = tfExpl.value * w.idf * fieldNorm

	if queryExpl.value == 1 {
		return fieldExpl
	}
	expl.value = queryExpl.value * fieldExpl.value
	expl.AddDetail(fieldExpl)
	return expl
}

func (w *WeightImpl) String() string {
	return fmt.Sprintf("%T(%v)", w.query, w.value)
}
