package search

import (
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
)

// search/FieldCache.java

/*
FieldIndex holds one sort value per document of a reader for a single
field, derived from the field's terms. It is only meant for sorting,
not as a store of the field's values: a document with several terms
keeps the value of the last one in term order, and a document without
any keeps the zero value (or no string).
*/
type FieldIndex struct {
	Field string
	Type  SortType
	// BYTE: ordinal of the term in the dictionary, starting at 1.
	// INTEGER: the parsed value.
	ints   []int64
	floats []float32
	// STRING: ords index values, ords[doc] == 0 means no term.
	ords   []int
	values []string
}

func newFieldIndex(field string, typ SortType, maxDoc int) *FieldIndex {
	fi := &FieldIndex{Field: field, Type: typ}
	switch typ {
	case SORT_TYPE_BYTE, SORT_TYPE_INTEGER:
		fi.ints = make([]int64, maxDoc)
	case SORT_TYPE_FLOAT:
		fi.floats = make([]float32, maxDoc)
	case SORT_TYPE_STRING:
		fi.ords = make([]int, maxDoc)
		fi.values = []string{""}
	default:
		panic(fmt.Sprintf("no field index for sort type %v", typ))
	}
	return fi
}

func (fi *FieldIndex) handleTerm(tde model.TermDocEnum, text string) {
	switch fi.Type {
	case SORT_TYPE_BYTE:
		val := int64(len(fi.values) + 1)
		fi.values = append(fi.values, text)
		for tde.Next() {
			fi.ints[tde.Doc()] = val
		}
	case SORT_TYPE_INTEGER:
		val, _ := strconv.ParseInt(text, 10, 64)
		for tde.Next() {
			fi.ints[tde.Doc()] = val
		}
	case SORT_TYPE_FLOAT:
		val, _ := strconv.ParseFloat(text, 32)
		for tde.Next() {
			fi.floats[tde.Doc()] = float32(val)
		}
	case SORT_TYPE_STRING:
		ord := len(fi.values)
		fi.values = append(fi.values, text)
		for tde.Next() {
			fi.ords[tde.Doc()] = ord
		}
	}
}

// Int returns the BYTE ordinal or INTEGER value of doc.
func (fi *FieldIndex) Int(doc int) int64 { return fi.ints[doc] }

func (fi *FieldIndex) Float(doc int) float32 { return fi.floats[doc] }

// String returns the STRING value of doc and false if it has none.
func (fi *FieldIndex) String(doc int) (string, bool) {
	ord := fi.ords[doc]
	return fi.values[ord], ord != 0
}

/*
loadFieldIndex walks the terms of field and records, for every
document, the value its terms map to.
*/
func loadFieldIndex(r index.IndexReader, field string, typ SortType) (*FieldIndex, error) {
	if r.FieldInfos().FieldInfo(field) == nil {
		return nil, argErrorf("Cannot sort by field \"%v\". It doesn't exist in the index.", field)
	}
	fi := newFieldIndex(field, typ, r.MaxDoc())
	if r.MaxDoc() == 0 {
		return fi, nil
	}
	te := r.Terms(field)
	if te == nil {
		return fi, nil
	}
	defer te.Close()
	tde := r.TermDocs()
	defer tde.Close()
	for te.Next() {
		tde.Seek(model.NewTerm(field, te.Term()))
		fi.handleTerm(tde, te.Term())
	}
	return fi, nil
}

type fieldIndexKey struct {
	field string
	typ   SortType
}

/*
FieldIndexCache builds each FieldIndex once per (reader, field, type).
Concurrent first requests for the same key share one build.
*/
type FieldIndexCache struct {
	lock    sync.RWMutex
	group   singleflight.Group
	readers map[index.IndexReader]map[fieldIndexKey]*FieldIndex
}

func NewFieldIndexCache() *FieldIndexCache {
	return &FieldIndexCache{readers: make(map[index.IndexReader]map[fieldIndexKey]*FieldIndex)}
}

// The cache shared by searchers that were not given their own.
var DefaultFieldIndexCache = NewFieldIndexCache()

func (c *FieldIndexCache) Get(r index.IndexReader, field string, typ SortType) (*FieldIndex, error) {
	key := fieldIndexKey{field, typ}
	c.lock.RLock()
	fi, ok := c.readers[r][key]
	c.lock.RUnlock()
	if ok {
		return fi, nil
	}

	v, err, _ := c.group.Do(fmt.Sprintf("%p/%v/%d", r, field, typ), func() (interface{}, error) {
		fi, err := loadFieldIndex(r, field, typ)
		if err != nil {
			return nil, err
		}
		log.Debugf("Loaded %v field index of %q (%v docs)", typ, field, r.MaxDoc())
		c.lock.Lock()
		defer c.lock.Unlock()
		byKey, ok := c.readers[r]
		if !ok {
			byKey = make(map[fieldIndexKey]*FieldIndex)
			c.readers[r] = byKey
		}
		byKey[key] = fi
		return fi, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*FieldIndex), nil
}

// Purge drops every field index built for r.
func (c *FieldIndexCache) Purge(r index.IndexReader) {
	c.lock.Lock()
	defer c.lock.Unlock()
	delete(c.readers, r)
}

// Size returns the number of field indexes cached for r.
func (c *FieldIndexCache) Size(r index.IndexReader) int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.readers[r])
}
