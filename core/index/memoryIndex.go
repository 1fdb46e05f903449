package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/balzaczyy/gosearch/core/index/model"
	"github.com/balzaczyy/gosearch/core/util"
	"golang.org/x/exp/slices"
)

/*
MemoryIndex is a RAM resident IndexReader. Documents are inverted as
they are added: every field keeps a sorted term dictionary and, per
term, the documents, frequencies and positions it occurs at.

Adding and deleting documents must not race with searches; once built
the index can be searched from several goroutines.
*/
type MemoryIndex struct {
	fieldInfos *model.FieldInfos
	fields     map[string]*fieldPostings
	// encoded length norms per field, always MaxDoc() long
	norms   map[string][]byte
	docs    []*Document
	deleted *util.DocSet
}

type fieldPostings struct {
	terms    []string // sorted
	postings map[string]*postingList
}

type postingList struct {
	docs      []int
	freqs     []int
	positions [][]int
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		fieldInfos: model.NewFieldInfos(),
		fields:     make(map[string]*fieldPostings),
		norms:      make(map[string][]byte),
		deleted:    util.NewDocSet(0),
	}
}

// AddDocument inverts doc and returns its document number.
func (mi *MemoryIndex) AddDocument(doc *Document) int {
	docNum := len(mi.docs)
	mi.docs = append(mi.docs, doc)
	for name, norms := range mi.norms {
		mi.norms[name] = append(norms, 0)
	}

	lengths := make(map[string]int)
	boosts := make(map[string]float32)
	for _, f := range doc.Fields {
		fi := mi.fieldInfos.Add(f.Name, f.OmitNorms)
		fp, ok := mi.fields[f.Name]
		if !ok {
			fp = &fieldPostings{postings: make(map[string]*postingList)}
			mi.fields[f.Name] = fp
		}
		if !fi.OmitsNorms() {
			if _, ok := mi.norms[f.Name]; !ok {
				mi.norms[f.Name] = make([]byte, docNum+1)
			}
			if _, ok := boosts[f.Name]; !ok {
				boosts[f.Name] = 1
			}
			boosts[f.Name] *= f.Boost
		}
		base := lengths[f.Name]
		tokens := f.tokens()
		for i, tok := range tokens {
			fp.add(tok, docNum, base+i)
		}
		lengths[f.Name] = base + len(tokens)
	}

	for name, boost := range boosts {
		mi.norms[name][docNum] = EncodeNorm(boost * LengthNorm(lengths[name]))
	}
	return docNum
}

func (fp *fieldPostings) add(term string, doc, pos int) {
	pl, ok := fp.postings[term]
	if !ok {
		i, _ := slices.BinarySearch(fp.terms, term)
		fp.terms = slices.Insert(fp.terms, i, term)
		pl = new(postingList)
		fp.postings[term] = pl
	}
	if n := len(pl.docs); n == 0 || pl.docs[n-1] != doc {
		pl.docs = append(pl.docs, doc)
		pl.freqs = append(pl.freqs, 0)
		pl.positions = append(pl.positions, nil)
	}
	last := len(pl.docs) - 1
	pl.freqs[last]++
	pl.positions[last] = append(pl.positions[last], pos)
}

// LengthNorm is 1/sqrt(numTerms), the default length normalization.
func LengthNorm(numTerms int) float32 {
	if numTerms == 0 {
		return 0
	}
	return float32(1.0 / math.Sqrt(float64(numTerms)))
}

// EncodeNorm packs a norm into a single byte.
func EncodeNorm(f float32) byte {
	return util.FloatToByte315(f)
}

// Delete marks doc as deleted. Its postings are skipped from then on.
func (mi *MemoryIndex) Delete(doc int) error {
	if doc < 0 || doc >= len(mi.docs) {
		return fmt.Errorf("doc %v out of range [0, %v)", doc, len(mi.docs))
	}
	mi.deleted.Set(doc)
	return nil
}

func (mi *MemoryIndex) Close() error           { return nil }
func (mi *MemoryIndex) MaxDoc() int            { return len(mi.docs) }
func (mi *MemoryIndex) NumDocs() int           { return len(mi.docs) - mi.deleted.Cardinality() }
func (mi *MemoryIndex) IsDeleted(doc int) bool { return mi.deleted.At(doc) }

func (mi *MemoryIndex) FieldInfos() *model.FieldInfos { return mi.fieldInfos }

func (mi *MemoryIndex) Document(doc int) (*Document, error) {
	if doc < 0 || doc >= len(mi.docs) {
		return nil, fmt.Errorf("doc %v out of range [0, %v)", doc, len(mi.docs))
	}
	return mi.docs[doc], nil
}

func (mi *MemoryIndex) postingList(t model.Term) *postingList {
	if fp, ok := mi.fields[t.Field]; ok {
		return fp.postings[t.Text]
	}
	return nil
}

func (mi *MemoryIndex) DocFreq(t model.Term) int {
	if pl := mi.postingList(t); pl != nil {
		return len(pl.docs)
	}
	return 0
}

func (mi *MemoryIndex) Norms(field string) []byte {
	return mi.norms[field]
}

func (mi *MemoryIndex) TermDocs() model.TermDocEnum {
	return &memoryTermDocs{mi: mi, idx: -1}
}

func (mi *MemoryIndex) TermPositions() model.TermDocEnum {
	return &memoryTermDocs{mi: mi, idx: -1}
}

func (mi *MemoryIndex) Terms(field string) model.TermEnum {
	fp, ok := mi.fields[field]
	if !ok {
		return nil
	}
	return &memoryTermEnum{fp: fp, idx: -1}
}

func (mi *MemoryIndex) String() string {
	return fmt.Sprintf("MemoryIndex(docs=%v, fields=%v)", mi.NumDocs(), mi.fieldInfos.Names())
}

type memoryTermDocs struct {
	mi     *MemoryIndex
	list   *postingList
	idx    int
	posIdx int
}

func (td *memoryTermDocs) Seek(t model.Term) {
	td.list = td.mi.postingList(t)
	td.idx = -1
	td.posIdx = 0
}

func (td *memoryTermDocs) size() int {
	if td.list == nil {
		return 0
	}
	return len(td.list.docs)
}

// skipDeleted moves forward from idx until a live doc is found.
func (td *memoryTermDocs) skipDeleted() bool {
	for n := td.size(); td.idx < n; td.idx++ {
		if !td.mi.deleted.At(td.list.docs[td.idx]) {
			td.posIdx = 0
			return true
		}
	}
	return false
}

func (td *memoryTermDocs) Next() bool {
	if td.idx >= td.size() {
		return false
	}
	td.idx++
	return td.skipDeleted()
}

func (td *memoryTermDocs) SkipTo(target int) bool {
	if td.list == nil || td.idx >= td.size() {
		return false
	}
	from := td.idx + 1
	td.idx = from + sort.SearchInts(td.list.docs[from:], target)
	return td.skipDeleted()
}

func (td *memoryTermDocs) Doc() int {
	if td.idx < 0 || td.idx >= td.size() {
		return math.MaxInt32
	}
	return td.list.docs[td.idx]
}

func (td *memoryTermDocs) Freq() int {
	return td.list.freqs[td.idx]
}

func (td *memoryTermDocs) NextPosition() int {
	positions := td.list.positions[td.idx]
	if td.posIdx >= len(positions) {
		return -1
	}
	td.posIdx++
	return positions[td.posIdx-1]
}

func (td *memoryTermDocs) Close() error {
	td.list = nil
	return nil
}

type memoryTermEnum struct {
	fp  *fieldPostings
	idx int
}

func (te *memoryTermEnum) Next() bool {
	if te.idx < len(te.fp.terms) {
		te.idx++
	}
	return te.idx < len(te.fp.terms)
}

func (te *memoryTermEnum) SkipTo(text string) bool {
	te.idx = sort.SearchStrings(te.fp.terms, text)
	return te.idx < len(te.fp.terms)
}

func (te *memoryTermEnum) Term() string {
	return te.fp.terms[te.idx]
}

func (te *memoryTermEnum) DocFreq() int {
	return len(te.fp.postings[te.fp.terms[te.idx]].docs)
}

func (te *memoryTermEnum) Close() error { return nil }
