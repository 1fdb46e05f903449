package search

import (
	"math"

	"github.com/balzaczyy/gosearch/core/index/model"
	"github.com/balzaczyy/gosearch/core/util"
)

// search/Similarity.java

/*
Similarity defines the components of scoring.

At indexing time the length of each field is reduced to a norm byte
via LengthNorm() and EncodeNorm(). At query time a Weight computes the
idf of its terms once, the top-level query is normalized with
QueryNorm(), and the scorers combine Tf(), the decoded norm and Coord()
per matching document.
*/
type Similarity interface {
	// Computes the normalization value for a field given the total
	// number of terms contained in it.
	LengthNorm(field string, numTerms int) float32
	// Computes the normalization value for a query given the sum of
	// the squared weights of each of the query terms.
	QueryNorm(sumOfSquaredWeights float32) float32
	// Computes a score factor based on a term or phrase's frequency in
	// a document.
	Tf(freq float32) float32
	// Computes the amount of a sloppy phrase match, based on an edit
	// distance.
	SloppyFreq(distance int) float32
	// Computes a score factor based on a term's document frequency.
	Idf(docFreq, numDocs int) float32
	// Computes a score factor based on the fraction of all query terms
	// that a document contains.
	Coord(overlap, maxOverlap int) float32
	DecodeNorm(b byte) float32
	EncodeNorm(f float32) byte
}

// search/DefaultSimilarity.java

/* Expert: Default scoring implementation. */
type DefaultSimilarity struct{}

func NewDefaultSimilarity() *DefaultSimilarity {
	return &DefaultSimilarity{}
}

/* Implemented as 1/sqrt(numTerms). */
func (ds *DefaultSimilarity) LengthNorm(field string, numTerms int) float32 {
	return float32(1.0 / math.Sqrt(float64(numTerms)))
}

/* Implemented as 1/sqrt(sumOfSquaredWeights). */
func (ds *DefaultSimilarity) QueryNorm(sumOfSquaredWeights float32) float32 {
	return float32(1.0 / math.Sqrt(float64(sumOfSquaredWeights)))
}

/* Implemented as sqrt(freq). */
func (ds *DefaultSimilarity) Tf(freq float32) float32 {
	return float32(math.Sqrt(float64(freq)))
}

/* Implemented as 1/(distance+1). */
func (ds *DefaultSimilarity) SloppyFreq(distance int) float32 {
	return 1.0 / float32(distance+1)
}

/* Implemented as log(numDocs/(docFreq+1)) + 1. */
func (ds *DefaultSimilarity) Idf(docFreq, numDocs int) float32 {
	return float32(math.Log(float64(numDocs)/float64(docFreq+1)) + 1.0)
}

/* Implemented as overlap/maxOverlap. */
func (ds *DefaultSimilarity) Coord(overlap, maxOverlap int) float32 {
	return float32(overlap) / float32(maxOverlap)
}

func (ds *DefaultSimilarity) DecodeNorm(b byte) float32 {
	return util.DecodeNorm315(b)
}

func (ds *DefaultSimilarity) EncodeNorm(f float32) byte {
	return util.FloatToByte315(f)
}

/*
coordDisabledSimilarity wraps another similarity and ignores the
coordination factor, for BooleanQuery with coord disabled.
*/
type coordDisabledSimilarity struct {
	Similarity
}

func (s coordDisabledSimilarity) Coord(overlap, maxOverlap int) float32 {
	return 1
}

// IdfTerm computes the idf of a single term against s.
func IdfTerm(sim Similarity, t model.Term, s Searcher) float32 {
	return sim.Idf(s.DocFreq(t), s.MaxDoc())
}

// IdfPhrase sums the idf of all terms of a phrase.
func IdfPhrase(sim Similarity, terms []model.Term, s Searcher) (idf float32) {
	for _, t := range terms {
		idf += IdfTerm(sim, t, s)
	}
	return
}

// decodeNorm reads doc's norm, treating a field without norms as 1.
func decodeNorm(sim Similarity, norms []byte, doc int) float32 {
	if norms == nil {
		return 1
	}
	return sim.DecodeNorm(norms[doc])
}

// DecodeNorm is decodeNorm for scorers living in other packages.
func DecodeNorm(sim Similarity, norms []byte, doc int) float32 {
	return decodeNorm(sim, norms, doc)
}
