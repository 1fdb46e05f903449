package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
	"github.com/balzaczyy/gosearch/core/util"
)

/*
Range describes the bounds of a term range over one field. A nil
bound is open. Bounds are compared as strings, or as numbers by typed
ranges when both the bound and the term parse as one.
*/
type Range struct {
	field        string
	lower, upper *string
	includeLower bool
	includeUpper bool
}

func checkBounds(lower, upper *string, includeLower, includeUpper bool) error {
	if lower == nil && upper == nil {
		return argErrorf("Nil bounds for range. A range must include either " +
			"lower bound or an upper bound")
	}
	if includeLower && lower == nil {
		return argErrorf("Lower bound must be non-nil to be inclusive. That is, " +
			"if you include the lower bound you must give a lower term")
	}
	if includeUpper && upper == nil {
		return argErrorf("Upper bound must be non-nil to be inclusive. That is, " +
			"if you include the upper bound you must give an upper term")
	}
	return nil
}

func NewRange(field string, lower, upper *string, includeLower, includeUpper bool) (*Range, error) {
	if err := checkBounds(lower, upper, includeLower, includeUpper); err != nil {
		return nil, err
	}
	if lower != nil && upper != nil && *upper < *lower {
		return nil, argErrorf("Upper bound must be greater than lower bound. \"%v\" < \"%v\"", *upper, *lower)
	}
	return &Range{field, lower, upper, includeLower, includeUpper}, nil
}

// NewTypedRange compares the bounds numerically when both are numbers.
func NewTypedRange(field string, lower, upper *string, includeLower, includeUpper bool) (*Range, error) {
	if err := checkBounds(lower, upper, includeLower, includeUpper); err != nil {
		return nil, err
	}
	if lower != nil && upper != nil {
		lnum, lerr := strconv.ParseFloat(*lower, 64)
		unum, uerr := strconv.ParseFloat(*upper, 64)
		if lerr == nil && uerr == nil {
			if unum < lnum {
				return nil, argErrorf("Upper bound must be greater than lower bound. numbers \"%v\" < \"%v\"", unum, lnum)
			}
		} else if *upper < *lower {
			return nil, argErrorf("Upper bound must be greater than lower bound. \"%v\" < \"%v\"", *upper, *lower)
		}
	}
	return &Range{field, lower, upper, includeLower, includeUpper}, nil
}

func (r *Range) Field() string { return r.field }

func (r *Range) toString(field string, boost float32) string {
	var sb strings.Builder
	if field != r.field {
		sb.WriteString(r.field)
		sb.WriteRune(':')
	}
	if r.lower != nil {
		if r.includeLower {
			sb.WriteRune('[')
		} else {
			sb.WriteRune('{')
		}
		sb.WriteString(*r.lower)
	} else {
		sb.WriteRune('<')
	}
	if r.lower != nil && r.upper != nil {
		sb.WriteRune(' ')
	}
	if r.upper != nil {
		sb.WriteString(*r.upper)
		if r.includeUpper {
			sb.WriteRune(']')
		} else {
			sb.WriteRune('}')
		}
	} else {
		sb.WriteRune('>')
	}
	if boost != 1 {
		sb.WriteString(formatBoost(boost))
	}
	return sb.String()
}

func (r *Range) hash() uint64 {
	var hash uint64
	if r.includeLower {
		hash |= 1
	}
	if r.includeUpper {
		hash |= 2
	}
	h := StringHash(r.field)
	if r.lower != nil {
		h ^= StringHash(*r.lower)
	}
	if r.upper != nil {
		h ^= StringHash(*r.upper)
	}
	return hash | h<<2
}

func equalBound(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (r *Range) equal(o *Range) bool {
	return r.field == o.field &&
		equalBound(r.lower, o.lower) && equalBound(r.upper, o.upper) &&
		r.includeLower == o.includeLower && r.includeUpper == o.includeUpper
}

// Marks the docs of every term between the bounds in string order.
func (r *Range) bits(ir index.IndexReader) (*util.DocSet, error) {
	bits := util.NewDocSet(ir.MaxDoc())
	lower := ""
	if r.lower != nil {
		lower = *r.lower
	}
	checkLower := r.lower != nil && !r.includeLower
	tde := ir.TermDocs()
	defer tde.Close()
	expandTerms(ir, r.field, lower, func(term string) bool {
		if checkLower && term == lower {
			return true
		}
		checkLower = false
		if r.upper != nil {
			if cmp := strings.Compare(*r.upper, term); cmp < 0 || (cmp == 0 && !r.includeUpper) {
				return false
			}
		}
		setDocs(bits, tde, model.NewTerm(r.field, term))
		return true
	})
	return bits, nil
}

/*
typedBits compares terms as numbers when both bounds are numbers,
skipping non numeric terms, and falls back to bits() otherwise.
*/
func (r *Range) typedBits(ir index.IndexReader) (*util.DocSet, error) {
	var lnum, unum float64
	var err error
	if r.lower != nil {
		if lnum, err = strconv.ParseFloat(*r.lower, 64); err != nil {
			return r.bits(ir)
		}
	}
	if r.upper != nil {
		if unum, err = strconv.ParseFloat(*r.upper, 64); err != nil {
			return r.bits(ir)
		}
	}
	bits := util.NewDocSet(ir.MaxDoc())
	tde := ir.TermDocs()
	defer tde.Close()
	expandTerms(ir, r.field, "+.", func(term string) bool {
		if term[0] > '9' {
			return false // past all numbers
		}
		num, err := strconv.ParseFloat(term, 64)
		if err != nil {
			return true
		}
		if r.lower != nil && (num < lnum || (num == lnum && !r.includeLower)) {
			return true
		}
		if r.upper != nil && (num > unum || (num == unum && !r.includeUpper)) {
			return true
		}
		setDocs(bits, tde, model.NewTerm(r.field, term))
		return true
	})
	return bits, nil
}

func setDocs(bits *util.DocSet, tde model.TermDocEnum, t model.Term) {
	tde.Seek(t)
	for tde.Next() {
		bits.Set(tde.Doc())
	}
}

// search/TermRangeFilter.java

/* Restricts results to the documents with a term in a range. */
type RangeFilter struct {
	rng   *Range
	typed bool
	cache FilterCache
}

func NewRangeFilter(field string, lower, upper *string, includeLower, includeUpper bool) (*RangeFilter, error) {
	rng, err := NewRange(field, lower, upper, includeLower, includeUpper)
	if err != nil {
		return nil, err
	}
	return &RangeFilter{rng: rng}, nil
}

func NewTypedRangeFilter(field string, lower, upper *string, includeLower, includeUpper bool) (*RangeFilter, error) {
	rng, err := NewTypedRange(field, lower, upper, includeLower, includeUpper)
	if err != nil {
		return nil, err
	}
	return &RangeFilter{rng: rng, typed: true}, nil
}

func (f *RangeFilter) Bits(r index.IndexReader) (*util.DocSet, error) {
	if f.typed {
		return f.cache.Get(r, f.rng.typedBits)
	}
	return f.cache.Get(r, f.rng.bits)
}

func (f *RangeFilter) Hash() uint64 {
	return f.rng.hash()
}

func (f *RangeFilter) Equal(o Filter) bool {
	other, ok := o.(*RangeFilter)
	return ok && f.typed == other.typed && f.rng.equal(other.rng)
}

func (f *RangeFilter) String() string {
	if f.typed {
		return fmt.Sprintf("TypedRangeFilter< %v >", f.rng.toString("", 1))
	}
	return fmt.Sprintf("RangeFilter< %v >", f.rng.toString("", 1))
}

// search/TermRangeQuery.java

/*
A Query that matches documents within a range of terms. It rewrites
to a ConstantScoreQuery over a RangeFilter, so every match scores the
same.
*/
type RangeQuery struct {
	*AbstractQuery
	rng   *Range
	typed bool
}

func NewRangeQuery(field string, lower, upper *string, includeLower, includeUpper bool) (*RangeQuery, error) {
	rng, err := NewRange(field, lower, upper, includeLower, includeUpper)
	if err != nil {
		return nil, err
	}
	return newRangeQuery(rng, false), nil
}

/*
NewTypedRangeQuery creates a range query which compares numeric terms
by value, so that "10" falls between "9" and "11".
*/
func NewTypedRangeQuery(field string, lower, upper *string, includeLower, includeUpper bool) (*RangeQuery, error) {
	rng, err := NewTypedRange(field, lower, upper, includeLower, includeUpper)
	if err != nil {
		return nil, err
	}
	return newRangeQuery(rng, true), nil
}

func newRangeQuery(rng *Range, typed bool) *RangeQuery {
	ans := &RangeQuery{rng: rng, typed: typed}
	ans.AbstractQuery = NewAbstractQuery(ans)
	return ans
}

func (q *RangeQuery) Range() *Range { return q.rng }

func (q *RangeQuery) Rewrite(r index.IndexReader) (Query, error) {
	csq := NewConstantScoreQuery(&RangeFilter{rng: q.rng, typed: q.typed})
	csq.SetBoost(q.boost)
	return csq, nil
}

func (q *RangeQuery) ToString(field string) string {
	return q.rng.toString(field, q.boost)
}

func (q *RangeQuery) QueryHash() uint64 {
	return q.rng.hash()
}

func (q *RangeQuery) QueryEqual(o Query) bool {
	other := o.(*RangeQuery)
	return q.typed == other.typed && q.rng.equal(other.rng)
}
