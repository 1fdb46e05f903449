package search

import (
	"hash/fnv"
	"math"
	"reflect"
	"strconv"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
)

// search/Query.java

/*
The abstract base class for queries.

Queries are value objects: Rewrite() never modifies the receiver, it
returns a new query when anything changed and the receiver otherwise.
*/
type Query interface {
	SetBoost(b float32)
	Boost() float32
	QuerySPI
	// CreateWeight builds the searcher dependent state of the query.
	// Rewrite-only queries return ErrUnsupportedOperation.
	CreateWeight(s Searcher) (w Weight, err error)
	Rewrite(r index.IndexReader) (Query, error)
	// Adds all terms occurring in this query to the terms set. Only
	// works on rewritten queries.
	ExtractTerms(terms model.TermSet)
	Hash() uint64
	Equal(o Query) bool
	String() string
}

type QuerySPI interface {
	ToString(field string) string
	QueryHash() uint64
	QueryEqual(o Query) bool
}

type AbstractQuery struct {
	spi   QuerySPI
	value Query
	boost float32
}

func NewAbstractQuery(self interface{}) *AbstractQuery {
	return &AbstractQuery{
		spi:   self.(QuerySPI),
		value: self.(Query),
		boost: 1.0,
	}
}

func (q *AbstractQuery) SetBoost(b float32) { q.boost = b }
func (q *AbstractQuery) Boost() float32     { return q.boost }

func (q *AbstractQuery) String() string { return q.spi.ToString("") }

func (q *AbstractQuery) CreateWeight(s Searcher) (w Weight, err error) {
	return nil, unsupportedErrorf("%T must be rewritten before a weight can be created: %v",
		q.value, q.spi.ToString(""))
}

func (q *AbstractQuery) Rewrite(r index.IndexReader) (Query, error) {
	return q.value, nil
}

func (q *AbstractQuery) ExtractTerms(terms model.TermSet) {}

func (q *AbstractQuery) Hash() uint64 {
	return q.spi.QueryHash()<<1 ^ uint64(math.Float32bits(q.boost))
}

func (q *AbstractQuery) Equal(o Query) bool {
	if o == nil || reflect.TypeOf(q.value) != reflect.TypeOf(o) {
		return false
	}
	return q.boost == o.Boost() && q.spi.QueryEqual(o)
}

/*
CloneQuery returns a shallow copy of q which can be re-boosted without
touching q. Shared slices must still be treated as read-only.
*/
func CloneQuery(q Query) Query {
	v := reflect.ValueOf(q).Elem()
	c := reflect.New(v.Type())
	c.Elem().Set(v)
	ans := c.Interface().(Query)
	aq := NewAbstractQuery(ans)
	aq.boost = q.Boost()
	c.Elem().FieldByName("AbstractQuery").Set(reflect.ValueOf(aq))
	return ans
}

func formatBoost(boost float32) string {
	return "^" + strconv.FormatFloat(float64(boost), 'f', -1, 32)
}

// FormatBoost renders "^boost" for ToString implementations.
func FormatBoost(boost float32) string {
	return formatBoost(boost)
}

// StringHash hashes s for QueryHash implementations.
func StringHash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
