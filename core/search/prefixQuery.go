package search

import (
	"strings"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
)

// Number of terms a PrefixQuery expands to at most.
var DefaultPrefixMaxTerms = 256

/*
A Query that matches documents containing terms with a specified
prefix. It rewrites to a MultiTermQuery over the matching terms.
*/
type PrefixQuery struct {
	*AbstractQuery
	field    string
	prefix   string
	maxTerms int
}

func NewPrefixQuery(field, prefix string) *PrefixQuery {
	ans := &PrefixQuery{field: field, prefix: prefix, maxTerms: DefaultPrefixMaxTerms}
	ans.AbstractQuery = NewAbstractQuery(ans)
	return ans
}

func (q *PrefixQuery) Prefix() model.Term { return model.NewTerm(q.field, q.prefix) }

func (q *PrefixQuery) SetMaxTerms(n int) { q.maxTerms = n }

func (q *PrefixQuery) Rewrite(r index.IndexReader) (Query, error) {
	mtq, err := NewMultiTermQueryConf(q.field, q.maxTerms, 0)
	if err != nil {
		return nil, err
	}
	mtq.SetBoost(q.boost)
	expandTerms(r, q.field, q.prefix, func(term string) bool {
		if !strings.HasPrefix(term, q.prefix) {
			return false
		}
		mtq.AddTerm(term, 1) // found a match
		return true
	})
	return mtq, nil
}

/*
expandTerms walks the terms of field from the first one >= from,
while fn returns true. A missing field has no terms.
*/
func expandTerms(r index.IndexReader, field, from string, fn func(term string) bool) {
	te := r.Terms(field)
	if te == nil {
		return
	}
	defer te.Close()
	for ok := te.SkipTo(from); ok; ok = te.Next() {
		if !fn(te.Term()) {
			return
		}
	}
}

func (q *PrefixQuery) ToString(field string) string {
	var sb strings.Builder
	if q.field != field {
		sb.WriteString(q.field)
		sb.WriteRune(':')
	}
	sb.WriteString(q.prefix)
	sb.WriteRune('*')
	if q.boost != 1 {
		sb.WriteString(formatBoost(q.boost))
	}
	return sb.String()
}

func (q *PrefixQuery) QueryHash() uint64 {
	return StringHash(q.field) ^ StringHash(q.prefix)
}

func (q *PrefixQuery) QueryEqual(o Query) bool {
	other := o.(*PrefixQuery)
	return q.prefix == other.prefix && q.field == other.field
}
