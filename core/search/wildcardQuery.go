package search

import (
	"strings"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
)

const (
	WILD_CHAR   = '?'
	WILD_STRING = '*'
)

// Number of terms a WildcardQuery expands to at most.
var DefaultWildcardMaxTerms = 256

/*
Implements the wildcard search query. Supported wildcards are *, which
matches any character sequence (including the empty one), and ?, which
matches any single character.

A pattern without wildcards rewrites to a TermQuery, any other to a
MultiTermQuery over the matching terms.
*/
type WildcardQuery struct {
	*AbstractQuery
	field    string
	pattern  string
	maxTerms int
}

func NewWildcardQuery(field, pattern string) *WildcardQuery {
	ans := &WildcardQuery{field: field, pattern: pattern, maxTerms: DefaultWildcardMaxTerms}
	ans.AbstractQuery = NewAbstractQuery(ans)
	return ans
}

func (q *WildcardQuery) Term() model.Term { return model.NewTerm(q.field, q.pattern) }

func (q *WildcardQuery) SetMaxTerms(n int) { q.maxTerms = n }

func (q *WildcardQuery) Rewrite(r index.IndexReader) (Query, error) {
	firstWild := strings.IndexAny(q.pattern, "*?")
	if firstWild < 0 {
		tq := NewTermQuery(model.NewTerm(q.field, q.pattern))
		tq.SetBoost(q.boost)
		return tq, nil
	}
	mtq, err := NewMultiTermQueryConf(q.field, q.maxTerms, 0)
	if err != nil {
		return nil, err
	}
	mtq.SetBoost(q.boost)

	prefix, pattern := q.pattern[:firstWild], q.pattern[firstWild:]
	expandTerms(r, q.field, prefix, func(term string) bool {
		if !strings.HasPrefix(term, prefix) {
			return false
		}
		if WildcardMatch(pattern, term[len(prefix):]) {
			mtq.AddTerm(term, 1)
		}
		return true
	})
	return mtq, nil
}

// WildcardMatch reports whether text matches pattern as a whole.
func WildcardMatch(pattern, text string) bool {
	p, t := []rune(pattern), []rune(text)
	// index of the last * seen in p and the text position it matched up to
	star, mark := -1, 0
	i, j := 0, 0
	for j < len(t) {
		switch {
		case i < len(p) && (p[i] == WILD_CHAR || p[i] == t[j]):
			i++
			j++
		case i < len(p) && p[i] == WILD_STRING:
			star, mark = i, j
			i++
		case star >= 0:
			// let the last * swallow one more character
			mark++
			i, j = star+1, mark
		default:
			return false
		}
	}
	for i < len(p) && p[i] == WILD_STRING {
		i++
	}
	return i == len(p)
}

func (q *WildcardQuery) ToString(field string) string {
	var sb strings.Builder
	if q.field != field {
		sb.WriteString(q.field)
		sb.WriteRune(':')
	}
	sb.WriteString(q.pattern)
	if q.boost != 1 {
		sb.WriteString(formatBoost(q.boost))
	}
	return sb.String()
}

func (q *WildcardQuery) QueryHash() uint64 {
	return StringHash(q.field) ^ StringHash(q.pattern)
}

func (q *WildcardQuery) QueryEqual(o Query) bool {
	other := o.(*WildcardQuery)
	return q.pattern == other.pattern && q.field == other.field
}
