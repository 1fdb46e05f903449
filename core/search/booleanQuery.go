package search

import (
	"bytes"
	"fmt"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
)

// Default upper bound of clauses a BooleanQuery accepts. Overridden by
// the search.max_clause_count configuration entry.
var DefaultMaxClauseCount = 1024

/*
A Query that matches documents matching boolean combinations of other
queries, e.g. TermQuerys, PhraseQuerys or other BooleanQuerys.

A query consisting of prohibited clauses only matches nothing.
*/
type BooleanQuery struct {
	*AbstractQuery
	clauses        []*BooleanClause
	disableCoord   bool
	maxClauseCount int
}

func NewBooleanQuery() *BooleanQuery {
	return NewBooleanQueryDisableCoord(false)
}

func NewBooleanQueryDisableCoord(disableCoord bool) *BooleanQuery {
	ans := &BooleanQuery{
		disableCoord:   disableCoord,
		maxClauseCount: DefaultMaxClauseCount,
	}
	ans.AbstractQuery = NewAbstractQuery(ans)
	return ans
}

func (q *BooleanQuery) IsCoordDisabled() bool     { return q.disableCoord }
func (q *BooleanQuery) Clauses() []*BooleanClause { return q.clauses }
func (q *BooleanQuery) MaxClauseCount() int       { return q.maxClauseCount }

func (q *BooleanQuery) SetMaxClauseCount(n int) error {
	if n < 1 {
		return configErrorf("max clause count must be >= 1, got %v", n)
	}
	q.maxClauseCount = n
	return nil
}

func (q *BooleanQuery) Add(query Query, occur Occur) (*BooleanClause, error) {
	c, err := NewBooleanClause(query, occur)
	if err != nil {
		return nil, err
	}
	return c, q.AddClause(c)
}

func (q *BooleanQuery) AddClause(clause *BooleanClause) error {
	if len(q.clauses) >= q.maxClauseCount {
		return configErrorf("Two many clauses. The max clause limit is set to <%v> but your "+
			"query has <%v> clauses.", q.maxClauseCount, len(q.clauses)+1)
	}
	q.clauses = append(q.clauses, clause)
	return nil
}

type BooleanWeight struct {
	owner      *BooleanQuery
	similarity Similarity
	weights    []Weight
	value      float32
	maxCoord   int // num optional + num required
}

func newBooleanWeight(owner *BooleanQuery, searcher Searcher) (w *BooleanWeight, err error) {
	w = &BooleanWeight{
		owner:      owner,
		similarity: searcher.Similarity(),
		value:      owner.boost,
	}
	if owner.disableCoord {
		w.similarity = coordDisabledSimilarity{w.similarity}
	}
	var subWeight Weight
	for _, c := range owner.clauses {
		if subWeight, err = c.query.CreateWeight(searcher); err != nil {
			return nil, err
		}
		w.weights = append(w.weights, subWeight)
		if !c.IsProhibited() {
			w.maxCoord++
		}
	}
	return w, nil
}

func (w *BooleanWeight) Query() Query   { return w.owner }
func (w *BooleanWeight) Value() float32 { return w.value }

func (w *BooleanWeight) ValueForNormalization() (sum float32) {
	for i, subWeight := range w.weights {
		// call sumOfSquaredWeights for all clauses in case of side effects
		s := subWeight.ValueForNormalization() // sum sub weights
		if !w.owner.clauses[i].IsProhibited() {
			// only add to sum for non-prohibited clauses
			sum += s
		}
	}

	sum *= (w.owner.boost * w.owner.boost) // boost each sub-weight
	return
}

func (w *BooleanWeight) Normalize(norm float32) {
	norm *= w.owner.boost
	for _, subWeight := range w.weights {
		// normalize all clauses, (even if prohibited in case of side effects)
		subWeight.Normalize(norm)
	}
}

func (w *BooleanWeight) Scorer(r index.IndexReader) (Scorer, error) {
	var required, optional, prohibited []Scorer
	for i, subWeight := range w.weights {
		c := w.owner.clauses[i]
		subScorer, err := subWeight.Scorer(r)
		if err != nil {
			closeAll(required...)
			closeAll(optional...)
			closeAll(prohibited...)
			return nil, err
		}
		if subScorer == nil {
			if c.IsRequired() {
				closeAll(required...)
				closeAll(optional...)
				closeAll(prohibited...)
				return nil, nil
			}
		} else if c.IsRequired() {
			required = append(required, subScorer)
		} else if c.IsProhibited() {
			prohibited = append(prohibited, subScorer)
		} else {
			optional = append(optional, subScorer)
		}
	}
	return newBooleanScorer(w.similarity, w.maxCoord, required, optional, prohibited), nil
}

func (w *BooleanWeight) Explain(r index.IndexReader, doc int) (*Explanation, error) {
	sumExpl := NewExplanation(0, "sum of:")
	coord, maxCoord := 0, 0
	var sum float32
	for i, subWeight := range w.weights {
		c := w.owner.clauses[i]
		e, err := subWeight.Explain(r, doc)
		if err != nil {
			return nil, err
		}
		if !c.IsProhibited() {
			maxCoord++
		}
		if e.IsMatch() {
			if c.IsProhibited() {
				return NewExplanation(0, "match prohibited").AddDetail(e), nil
			}
			sumExpl.AddDetail(e)
			sum += e.value
			coord++
		} else if c.IsRequired() {
			return NewExplanation(0, "match required").AddDetail(e), nil
		}
	}
	sumExpl.value = sum
	if coord == 1 { // only one clause matched
		sumExpl = sumExpl.details[0] // eliminate wrapper
	}

	coordFactor := w.similarity.Coord(coord, maxCoord)
	if coordFactor == 1 { // coord is no-op
		return sumExpl, nil // eliminate wrapper
	}
	return NewExplanation(sum*coordFactor, "product of:").
		AddDetail(sumExpl).
		AddDetail(NewExplanation(coordFactor, "coord(%v/%v)", coord, maxCoord)), nil
}

func (w *BooleanWeight) String() string {
	return fmt.Sprintf("BooleanWeight(%v)", w.value)
}

func (q *BooleanQuery) CreateWeight(searcher Searcher) (Weight, error) {
	return newBooleanWeight(q, searcher)
}

func (q *BooleanQuery) Rewrite(reader index.IndexReader) (Query, error) {
	if len(q.clauses) == 1 { // optimize 1-clause queries
		if c := q.clauses[0]; !c.IsProhibited() { // just return clause
			query, err := c.query.Rewrite(reader) // rewrite first
			if err != nil {
				return nil, err
			}
			if q.boost != 1 { // incorporate boost
				if query == c.query { // if rewrite was no-op
					query = CloneQuery(query) // then clone before boost
				}
				query.SetBoost(q.boost * query.Boost())
			}
			return query, nil
		}
	}

	var clone *BooleanQuery // recursively rewrite
	for i, c := range q.clauses {
		query, err := c.query.Rewrite(reader)
		if err != nil {
			return nil, err
		}
		if query != c.query {
			// clause rewrote: must clone
			if clone == nil {
				// The BooleanQuery clone is lazily initialized so only
				// initialize it if a rewritten clause differs from the
				// original clause (and hasn't been initialized already). If
				// nothing differs, the clone isn't needlessly created
				clone = CloneQuery(q).(*BooleanQuery)
				clone.clauses = append([]*BooleanClause(nil), q.clauses...)
			}
			clone.clauses[i] = &BooleanClause{query: query, occur: c.occur}
		}
	}
	if clone != nil {
		return clone, nil // some clauses rewrote
	}
	return q, nil
}

func (q *BooleanQuery) ExtractTerms(terms model.TermSet) {
	for _, c := range q.clauses {
		if !c.IsProhibited() {
			c.query.ExtractTerms(terms)
		}
	}
}

func (q *BooleanQuery) ToString(field string) string {
	var buf bytes.Buffer
	needParens := q.boost != 1
	if needParens {
		buf.WriteRune('(')
	}

	for i, c := range q.clauses {
		if i > 0 {
			buf.WriteRune(' ')
		}
		if c.IsProhibited() {
			buf.WriteRune('-')
		} else if c.IsRequired() {
			buf.WriteRune('+')
		}

		if _, ok := c.query.(*BooleanQuery); ok { // wrap sub-bools in parens
			buf.WriteRune('(')
			buf.WriteString(c.query.ToString(field))
			buf.WriteRune(')')
		} else {
			buf.WriteString(c.query.ToString(field))
		}
	}

	if needParens {
		buf.WriteRune(')')
		buf.WriteString(formatBoost(q.boost))
	}
	return buf.String()
}

func (q *BooleanQuery) QueryHash() uint64 {
	var hash uint64
	for _, c := range q.clauses {
		hash ^= c.query.Hash()<<2 ^ uint64(c.occur)
	}
	hash = hash<<1 ^ uint64(q.maxClauseCount)
	if q.disableCoord {
		hash ^= 1
	}
	return hash
}

func (q *BooleanQuery) QueryEqual(o Query) bool {
	other := o.(*BooleanQuery)
	if q.disableCoord != other.disableCoord ||
		q.maxClauseCount != other.maxClauseCount ||
		len(q.clauses) != len(other.clauses) {
		return false
	}
	for i, c := range q.clauses {
		oc := other.clauses[i]
		if c.occur != oc.occur || !c.query.Equal(oc.query) {
			return false
		}
	}
	return true
}
