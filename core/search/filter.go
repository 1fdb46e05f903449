package search

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/balzaczyy/gosearch/core/index"
	. "github.com/balzaczyy/gosearch/core/search/model"
	"github.com/balzaczyy/gosearch/core/util"
)

// search/Filter.java

/*
Filter restricts the documents a search may return. Bits() returns
the set of allowed documents of a reader; implementations built on
FilterCache compute it once per reader.
*/
type Filter interface {
	Bits(r index.IndexReader) (*util.DocSet, error)
	Hash() uint64
	Equal(o Filter) bool
	String() string
}

/*
PostFilter is consulted for every hit after scoring. It returns a
factor the score is multiplied with; 0 removes the hit.
*/
type PostFilter func(doc int, score float32, s Searcher) float32

/*
FilterCache memoizes the bitsets of a filter per reader. Concurrent
first requests for the same reader compute the bitset once.
*/
type FilterCache struct {
	lock  sync.RWMutex
	group singleflight.Group
	cache map[index.IndexReader]*util.DocSet
}

func (c *FilterCache) Get(r index.IndexReader, compute func(r index.IndexReader) (*util.DocSet, error)) (*util.DocSet, error) {
	c.lock.RLock()
	bits, ok := c.cache[r]
	c.lock.RUnlock()
	if ok {
		return bits, nil
	}
	v, err, _ := c.group.Do(fmt.Sprintf("%p", r), func() (interface{}, error) {
		bits, err := compute(r)
		if err != nil {
			return nil, err
		}
		c.lock.Lock()
		defer c.lock.Unlock()
		if c.cache == nil {
			c.cache = make(map[index.IndexReader]*util.DocSet)
		}
		c.cache[r] = bits
		return bits, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*util.DocSet), nil
}

// search/QueryWrapperFilter.java

/* Restricts results to the documents matched by a query. */
type QueryFilter struct {
	query Query
	cache FilterCache
}

func NewQueryFilter(q Query) *QueryFilter {
	return &QueryFilter{query: q}
}

func (f *QueryFilter) Query() Query { return f.query }

func (f *QueryFilter) Bits(r index.IndexReader) (*util.DocSet, error) {
	return f.cache.Get(r, f.bits)
}

func (f *QueryFilter) bits(r index.IndexReader) (*util.DocSet, error) {
	bits := util.NewDocSet(r.MaxDoc())
	weight, err := NewIndexSearcher(r).CreateWeight(f.query)
	if err != nil {
		return nil, err
	}
	scorer, err := weight.Scorer(r)
	if err != nil || scorer == nil {
		return bits, err
	}
	for doc := scorer.NextDoc(); doc != NO_MORE_DOCS; doc = scorer.NextDoc() {
		bits.Set(doc)
	}
	return bits, scorer.Close()
}

func (f *QueryFilter) Hash() uint64 {
	return StringHash("QueryFilter") ^ f.query.Hash()
}

func (f *QueryFilter) Equal(o Filter) bool {
	other, ok := o.(*QueryFilter)
	return ok && (f == other || f.query.Equal(other.query))
}

func (f *QueryFilter) String() string {
	return fmt.Sprintf("QueryFilter< %v >", f.query.ToString(""))
}
