package index

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/balzaczyy/gosearch/core/index/model"
)

func newIndex(texts ...string) *MemoryIndex {
	mi := NewMemoryIndex()
	for _, text := range texts {
		mi.AddDocument(NewDocument().Add("body", text))
	}
	return mi
}

type posting struct {
	doc       int
	positions []int
}

func postings(tde model.TermDocEnum) []posting {
	var ans []posting
	for tde.Next() {
		p := posting{doc: tde.Doc()}
		for i := 0; i < tde.Freq(); i++ {
			p.positions = append(p.positions, tde.NextPosition())
		}
		ans = append(ans, p)
	}
	return ans
}

func TestMemoryIndexPostings(t *testing.T) {
	mi := newIndex("the quick fox", "a fox, a Fox", "nothing here")
	require.Equal(t, 3, mi.MaxDoc())
	require.Equal(t, 3, mi.NumDocs())
	require.Equal(t, 2, mi.DocFreq(model.NewTerm("body", "fox")))
	require.Equal(t, 0, mi.DocFreq(model.NewTerm("body", "cat")))
	require.Equal(t, 0, mi.DocFreq(model.NewTerm("title", "fox")))

	tpe := mi.TermPositions()
	tpe.Seek(model.NewTerm("body", "fox"))
	require.Equal(t, []posting{{0, []int{2}}, {1, []int{1, 3}}}, postings(tpe))
	require.False(t, tpe.Next(), "exhausted cursors stay exhausted")
	require.NoError(t, tpe.Close())

	tpe.Seek(model.NewTerm("body", "cat"))
	require.False(t, tpe.Next())
	require.False(t, tpe.SkipTo(0))
}

func TestMemoryIndexSkipTo(t *testing.T) {
	mi := newIndex("a", "b", "a", "a", "b", "a")
	tde := mi.TermDocs()
	tde.Seek(model.NewTerm("body", "a"))

	require.True(t, tde.SkipTo(2))
	require.Equal(t, 2, tde.Doc())
	// never stays on the current doc
	require.True(t, tde.SkipTo(2))
	require.Equal(t, 3, tde.Doc())
	require.True(t, tde.SkipTo(4))
	require.Equal(t, 5, tde.Doc())
	require.False(t, tde.SkipTo(6))
	require.False(t, tde.Next())
}

func TestMemoryIndexDelete(t *testing.T) {
	mi := newIndex("fox", "fox", "fox", "dog")
	require.NoError(t, mi.Delete(1))
	require.Error(t, mi.Delete(4))
	require.True(t, mi.IsDeleted(1))
	require.Equal(t, 3, mi.NumDocs())
	require.Equal(t, 4, mi.MaxDoc())

	tde := mi.TermDocs()
	tde.Seek(model.NewTerm("body", "fox"))
	require.Equal(t, []posting{{0, nil}, {2, nil}}, func() []posting {
		var ans []posting
		for tde.Next() {
			ans = append(ans, posting{doc: tde.Doc()})
		}
		return ans
	}())

	tde.Seek(model.NewTerm("body", "fox"))
	require.True(t, tde.SkipTo(1))
	require.Equal(t, 2, tde.Doc())
}

func TestMemoryIndexTerms(t *testing.T) {
	mi := newIndex("cherry apple", "banana apple")
	te := mi.Terms("body")
	var terms []string
	var dfs []int
	for te.Next() {
		terms = append(terms, te.Term())
		dfs = append(dfs, te.DocFreq())
	}
	require.Equal(t, []string{"apple", "banana", "cherry"}, terms)
	require.Equal(t, []int{2, 1, 1}, dfs)
	require.False(t, te.Next())

	require.True(t, te.SkipTo("b"))
	require.Equal(t, "banana", te.Term())
	require.True(t, te.Next())
	require.Equal(t, "cherry", te.Term())
	require.False(t, te.SkipTo("d"))
	require.NoError(t, te.Close())

	require.Nil(t, mi.Terms("title"))
}

func TestMemoryIndexNorms(t *testing.T) {
	mi := NewMemoryIndex()
	mi.AddDocument(NewDocument().Add("body", "one two three four"))
	mi.AddDocument(NewDocument().Add("title", "only a title"))
	boosted := NewField("body", "one")
	boosted.Boost = 2
	mi.AddDocument(NewDocument().AddField(boosted))
	mi.AddDocument(NewDocument().AddField(&Field{Name: "raw", Value: "ignored", Tokens: []string{"A", "b"}, Boost: 1, OmitNorms: true}))

	norms := mi.Norms("body")
	require.Len(t, norms, 4)
	require.Equal(t, EncodeNorm(0.5), norms[0])
	require.Equal(t, byte(0), norms[1], "no body in doc 1")
	require.Equal(t, EncodeNorm(2), norms[2])
	require.Len(t, mi.Norms("title"), 4)
	require.Nil(t, mi.Norms("raw"))
	require.True(t, mi.FieldInfos().FieldInfo("raw").OmitsNorms())

	// explicit tokens are indexed as given
	require.Equal(t, 1, mi.DocFreq(model.NewTerm("raw", "A")))
	require.Equal(t, []string{"body", "raw", "title"}, mi.FieldInfos().Names())
}

func TestMemoryIndexMultiValuedField(t *testing.T) {
	mi := NewMemoryIndex()
	mi.AddDocument(NewDocument().Add("body", "quick").Add("body", "fox"))
	tpe := mi.TermPositions()
	tpe.Seek(model.NewTerm("body", "fox"))
	// positions continue across values of the same field
	require.Equal(t, []posting{{0, []int{1}}}, postings(tpe))
	require.Equal(t, EncodeNorm(LengthNorm(2)), mi.Norms("body")[0])
}

func TestMemoryIndexDocument(t *testing.T) {
	mi := NewMemoryIndex()
	mi.AddDocument(NewDocument().Add("title", "Bat recycling").Add("body", "bats"))
	doc, err := mi.Document(0)
	require.NoError(t, err)
	require.Equal(t, "Bat recycling", doc.Get("title"))
	require.Equal(t, "", doc.Get("nope"))
	require.Equal(t, "Document<title:Bat recycling body:bats>", doc.String())

	_, err = mi.Document(1)
	require.Error(t, err)
}

func TestLengthNorm(t *testing.T) {
	require.Equal(t, float32(0), LengthNorm(0))
	require.Equal(t, float32(1), LengthNorm(1))
	require.Equal(t, float32(0.5), LengthNorm(4))
}
