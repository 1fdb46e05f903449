package search

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/balzaczyy/gosearch/core/index"
)

/*
Comparable is one extracted sort value of a FieldDoc. Value holds a
float32 for SCORE and FLOAT keys, an int for DOC, an int64 for BYTE
and INTEGER keys, and a string for STRING keys, or nil when the
document has no term in a STRING field.
*/
type Comparable struct {
	Type    SortType
	Reverse bool
	Value   interface{}
}

func (c Comparable) String() string {
	if c.Value == nil {
		return "nil"
	}
	return fmt.Sprint(c.Value)
}

// Collators used by STRING keys, the counterpart of strcoll. A
// Collator keeps scratch buffers, so each comparison borrows one.
var collators = sync.Pool{
	New: func() interface{} { return collate.New(language.Und) },
}

func collateStrings(s1, s2 string) int {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	return c.CompareString(s1, s2)
}

func compareStrings(s1 string, ok1 bool, s2 string, ok2 bool) int {
	switch {
	case !ok1 && !ok2:
		return 0
	case !ok1:
		// documents without a value sort last
		return 1
	case !ok2:
		return -1
	}
	return collateStrings(s1, s2)
}

func compareFloats(a, b float32) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

func compareInts(a, b int64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

/*
compareComparables orders two values of the same key. A positive
result means the first hit sorts after the second one, before the
key's reverse flag is applied.
*/
func compareComparables(c1, c2 Comparable) int {
	switch c1.Type {
	case SORT_TYPE_SCORE:
		return compareFloats(c2.Value.(float32), c1.Value.(float32))
	case SORT_TYPE_FLOAT:
		return compareFloats(c1.Value.(float32), c2.Value.(float32))
	case SORT_TYPE_DOC:
		return compareInts(int64(c1.Value.(int)), int64(c2.Value.(int)))
	case SORT_TYPE_BYTE, SORT_TYPE_INTEGER:
		return compareInts(c1.Value.(int64), c2.Value.(int64))
	case SORT_TYPE_STRING:
		s1, ok1 := c1.Value.(string)
		s2, ok2 := c2.Value.(string)
		return compareStrings(s1, ok1, s2, ok2)
	}
	panic(fmt.Sprintf("Unknown sort type: %v.", c1.Type))
}

// search/FieldComparator.java

/*
Comparator compares two hits on one sort key. Field keys read their
values from a FieldIndex of the reader being searched; score and doc
keys read the hit itself.
*/
type Comparator struct {
	typ     SortType
	reverse bool
	index   *FieldIndex
}

func (c *Comparator) Type() SortType { return c.typ }

/*
Compare returns a positive number when hit1 sorts after hit2 on this
key, ignoring the reverse flag: lower scores, higher documents and
higher field values sort later.
*/
func (c *Comparator) Compare(hit1, hit2 *ScoreDoc) int {
	switch c.typ {
	case SORT_TYPE_SCORE:
		return compareFloats(hit2.Score, hit1.Score)
	case SORT_TYPE_DOC:
		return compareInts(int64(hit1.Doc), int64(hit2.Doc))
	case SORT_TYPE_BYTE, SORT_TYPE_INTEGER:
		return compareInts(c.index.Int(hit1.Doc), c.index.Int(hit2.Doc))
	case SORT_TYPE_FLOAT:
		return compareFloats(c.index.Float(hit1.Doc), c.index.Float(hit2.Doc))
	case SORT_TYPE_STRING:
		s1, ok1 := c.index.String(hit1.Doc)
		s2, ok2 := c.index.String(hit2.Doc)
		return compareStrings(s1, ok1, s2, ok2)
	}
	panic(fmt.Sprintf("Unknown sort type: %v.", c.typ))
}

// Value extracts the comparable value of hit for a FieldDoc.
func (c *Comparator) Value(hit *ScoreDoc) Comparable {
	ans := Comparable{Type: c.typ, Reverse: c.reverse}
	switch c.typ {
	case SORT_TYPE_SCORE:
		ans.Value = hit.Score
	case SORT_TYPE_DOC:
		ans.Value = hit.Doc
	case SORT_TYPE_BYTE, SORT_TYPE_INTEGER:
		ans.Value = c.index.Int(hit.Doc)
	case SORT_TYPE_FLOAT:
		ans.Value = c.index.Float(hit.Doc)
	case SORT_TYPE_STRING:
		if s, ok := c.index.String(hit.Doc); ok {
			ans.Value = s
		}
	}
	return ans
}

/*
autoSortType guesses the type of a field from one of its terms: an
integer if the whole text parses as one, else a float, else a string.
*/
func autoSortType(text string) SortType {
	text = strings.TrimSpace(text)
	if text == "" {
		return SORT_TYPE_INTEGER
	}
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return SORT_TYPE_INTEGER
	}
	if _, err := strconv.ParseFloat(text, 32); err == nil {
		return SORT_TYPE_FLOAT
	}
	return SORT_TYPE_STRING
}

/*
resolveSortType replaces AUTO with the type guessed from the first
term of the field. The SortField itself is left untouched.
*/
func resolveSortType(sf *SortField, r index.IndexReader) (SortType, error) {
	if sf.typ != SORT_TYPE_AUTO {
		return sf.typ, nil
	}
	if r.FieldInfos().FieldInfo(sf.field) == nil {
		return 0, argErrorf("Cannot sort by field \"%v\". It doesn't exist in the index.", sf.field)
	}
	te := r.Terms(sf.field)
	if te == nil {
		return SORT_TYPE_STRING, nil
	}
	defer te.Close()
	if !te.Next() {
		if r.NumDocs() > 0 {
			return 0, argErrorf("Cannot sort by field \"%v\" as there are no terms in that field in the index.", sf.field)
		}
		return SORT_TYPE_INTEGER, nil
	}
	return autoSortType(te.Term()), nil
}

// search/FieldValueHitQueue.java

/*
Sorter holds one Comparator per key of a Sort, bound to one reader.
Keys are compared in order and the first non-equal one decides; hits
equal on every key are ordered by document number ascending,
whatever the reverse flags.
*/
type Sorter struct {
	sort        *Sort
	comparators []*Comparator
}

/*
NewSorter builds the comparators of sort against r, loading field
indexes through cache. Fails with ErrArgument if a field is unknown.
*/
func NewSorter(sort *Sort, r index.IndexReader, cache *FieldIndexCache) (*Sorter, error) {
	if cache == nil {
		cache = DefaultFieldIndexCache
	}
	sorter := &Sorter{sort: sort, comparators: make([]*Comparator, len(sort.fields))}
	for i, sf := range sort.fields {
		typ, err := resolveSortType(sf, r)
		if err != nil {
			return nil, err
		}
		c := &Comparator{typ: typ, reverse: sf.reverse}
		if typ > SORT_TYPE_DOC {
			if c.index, err = cache.Get(r, sf.field, typ); err != nil {
				return nil, err
			}
		}
		sorter.comparators[i] = c
	}
	return sorter, nil
}

func (s *Sorter) Sort() *Sort                { return s.sort }
func (s *Sorter) Comparators() []*Comparator { return s.comparators }

/*
Less reports whether hit1 ranks below hit2, the ordering of the hit
queue: the worst hit sits on top.
*/
func (s *Sorter) Less(hit1, hit2 *ScoreDoc) bool {
	for _, c := range s.comparators {
		var diff int
		if c.reverse {
			diff = c.Compare(hit2, hit1)
		} else {
			diff = c.Compare(hit1, hit2)
		}
		if diff != 0 {
			return diff > 0
		}
	}
	return hit1.Doc > hit2.Doc
}

// FieldDoc attaches the sort values of hit, turning it into a FieldDoc.
func (s *Sorter) FieldDoc(hit *ScoreDoc) *FieldDoc {
	hit.Fields = make([]Comparable, len(s.comparators))
	for i, c := range s.comparators {
		hit.Fields[i] = c.Value(hit)
	}
	return hit
}

/*
FieldDocLess is Sorter.Less for hits that already carry their sort
values, which is how hits from different readers are merged.
*/
func FieldDocLess(fd1, fd2 *FieldDoc) bool {
	for i := range fd1.Fields {
		var diff int
		if fd1.Fields[i].Reverse {
			diff = compareComparables(fd2.Fields[i], fd1.Fields[i])
		} else {
			diff = compareComparables(fd1.Fields[i], fd2.Fields[i])
		}
		if diff != 0 {
			return diff > 0
		}
	}
	return fd1.Doc > fd2.Doc
}
