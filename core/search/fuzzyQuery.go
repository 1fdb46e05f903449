package search

import (
	"math"
	"strconv"
	"strings"

	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/index/model"
)

var (
	// Default minimum similarity of a fuzzy match.
	DefaultFuzzyMinSim float32 = 0.5
	// Default length of the prefix which must match exactly.
	DefaultFuzzyPrefixLength = 0
	// Number of terms a FuzzyQuery expands to at most.
	DefaultFuzzyMaxTerms = 256
)

// Words up to this length have their maximum distance precomputed.
const typicalLongestWord = 20

/*
Implements the fuzzy search query. The similarity measurement is based
on the Levenshtein (edit distance) algorithm: a term matches when

	1 - distance / (prefixLength + min(len(text), len(term)))

exceeds minSim. Lengths are counted in runes, after the exact prefix.
The query rewrites to a MultiTermQuery whose term boosts are those
similarities.
*/
type FuzzyQuery struct {
	*AbstractQuery
	field     string
	text      string
	minSim    float32
	prefixLen int
	maxTerms  int
}

func NewFuzzyQuery(field, text string) *FuzzyQuery {
	ans, err := NewFuzzyQueryConf(field, text, 0, 0, 0)
	assert(err == nil)
	return ans
}

/*
NewFuzzyQueryConf uses the package defaults for every zero argument.
minSim must be in [0, 1) and prefixLen must not be negative.
*/
func NewFuzzyQueryConf(field, text string, minSim float32, prefixLen, maxTerms int) (*FuzzyQuery, error) {
	if minSim == 0 {
		minSim = DefaultFuzzyMinSim
	}
	if prefixLen == 0 {
		prefixLen = DefaultFuzzyPrefixLength
	}
	if maxTerms == 0 {
		maxTerms = DefaultFuzzyMaxTerms
	}
	if minSim < 0 || minSim >= 1 {
		return nil, argErrorf("min_similarity must be >= 0 and < 1, got %v", minSim)
	}
	if prefixLen < 0 {
		return nil, argErrorf("prefix_length must be >= 0, got %v", prefixLen)
	}
	ans := &FuzzyQuery{field: field, text: text, minSim: minSim, prefixLen: prefixLen, maxTerms: maxTerms}
	ans.AbstractQuery = NewAbstractQuery(ans)
	return ans, nil
}

func (q *FuzzyQuery) Term() model.Term       { return model.NewTerm(q.field, q.text) }
func (q *FuzzyQuery) MinSimilarity() float32 { return q.minSim }
func (q *FuzzyQuery) PrefixLength() int      { return q.prefixLen }

func (q *FuzzyQuery) Rewrite(r index.IndexReader) (Query, error) {
	if r.FieldInfos().FieldInfo(q.field) == nil {
		return NewBooleanQuery(), nil
	}
	text := []rune(q.text)
	if q.prefixLen >= len(text) {
		tq := NewTermQuery(model.NewTerm(q.field, q.text))
		tq.SetBoost(q.boost)
		return tq, nil
	}

	mtq, err := NewMultiTermQueryConf(q.field, q.maxTerms, q.minSim)
	if err != nil {
		return nil, err
	}
	mtq.SetBoost(q.boost)
	prefix := string(text[:q.prefixLen])
	sc := newFuzzyScorer(text[q.prefixLen:], q.prefixLen, q.minSim)
	expandTerms(r, q.field, prefix, func(term string) bool {
		if !strings.HasPrefix(term, prefix) {
			return false
		}
		mtq.AddTerm(term, sc.score([]rune(term[len(prefix):])))
		return true
	})
	return mtq, nil
}

// fuzzyScorer computes similarities against one query text.
type fuzzyScorer struct {
	text         []rune
	prefixLen    int
	minSim       float32
	maxDistances [typicalLongestWord]int
	prev, curr   []int
}

func newFuzzyScorer(text []rune, prefixLen int, minSim float32) *fuzzyScorer {
	ans := &fuzzyScorer{
		text:      text,
		prefixLen: prefixLen,
		minSim:    minSim,
		prev:      make([]int, len(text)+1),
		curr:      make([]int, len(text)+1),
	}
	for i := range ans.maxDistances {
		ans.maxDistances[i] = ans.calculateMaxDistance(i)
	}
	return ans
}

// The number of edits allowed for a target of m runes after the prefix.
func (fs *fuzzyScorer) calculateMaxDistance(m int) int {
	return int((1 - float64(fs.minSim)) * float64(min(len(fs.text), m)+fs.prefixLen))
}

func (fs *fuzzyScorer) maxDistance(m int) int {
	if m < typicalLongestWord {
		return fs.maxDistances[m]
	}
	return fs.calculateMaxDistance(m)
}

func (fs *fuzzyScorer) score(target []rune) float32 {
	m, n := len(target), len(fs.text)
	if m == 0 || n == 0 {
		if fs.prefixLen == 0 {
			return 0
		}
		return 1 - float32(m+n)/float32(fs.prefixLen)
	}

	maxDistance := fs.maxDistance(m)
	// the length difference alone needs more edits than allowed
	if maxDistance < abs(m-n) {
		return 0
	}

	prev, curr := fs.prev, fs.curr
	for j := 0; j <= n; j++ {
		curr[j] = j
	}
	for i := 0; i < m; {
		ch := target[i]
		prev, curr = curr, prev
		i++
		curr[0] = i
		prune := i > maxDistance
		for j := 0; j < n; j++ {
			if ch == fs.text[j] {
				curr[j+1] = min(prev[j+1]+1, curr[j]+1, prev[j])
			} else {
				curr[j+1] = min(prev[j+1], curr[j], prev[j]) + 1
			}
			if prune && curr[j+1] <= maxDistance {
				prune = false
			}
		}
		if prune {
			return 0
		}
	}
	return 1 - float32(curr[n])/float32(fs.prefixLen+min(n, m))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (q *FuzzyQuery) ToString(field string) string {
	var sb strings.Builder
	if q.field != field {
		sb.WriteString(q.field)
		sb.WriteRune(':')
	}
	sb.WriteString(q.text)
	sb.WriteRune('~')
	if q.minSim != 0.5 {
		sb.WriteString(strconv.FormatFloat(float64(q.minSim), 'f', -1, 32))
	}
	if q.boost != 1 {
		sb.WriteString(formatBoost(q.boost))
	}
	return sb.String()
}

func (q *FuzzyQuery) QueryHash() uint64 {
	return StringHash(q.text) ^ StringHash(q.field) ^
		uint64(math.Float32bits(q.minSim)) ^ uint64(q.prefixLen)
}

func (q *FuzzyQuery) QueryEqual(o Query) bool {
	other := o.(*FuzzyQuery)
	return q.text == other.text && q.field == other.field &&
		q.prefixLen == other.prefixLen && q.minSim == other.minSim
}
