package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/balzaczyy/gosearch/core/search"
	"github.com/balzaczyy/gosearch/core/search/spans"
)

const testCorpus = `
- body: quick fox
- body: quick
- body: fox
`

const booleanTree = `
type: boolean
field: body
clauses:
  - {type: term, text: quick, occur: must}
  - {type: term, text: fox, occur: should}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"gosearch"}, args...))
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	dir := t.TempDir()
	corpus := writeFile(t, dir, "corpus.yaml", testCorpus)
	tree := writeFile(t, dir, "query.yaml", booleanTree)

	out, err := runApp(t, "search", "--corpus", corpus, "--query", tree)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "2 hits"), lines[0])
	assert.Contains(t, lines[1], "doc 0 ")
	assert.Contains(t, lines[2], "doc 1 ")
}

func TestSearchCommandFederatesCorpora(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", testCorpus)
	b := writeFile(t, dir, "b.yaml", "- body: fox fox\n")

	out, err := runApp(t, "search", "--corpus", a, "--corpus", b, "--term", "body:fox", "--sort", "doc!")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "3 hits"), lines[0])
	// reversed document order across both corpora
	assert.Contains(t, lines[1], "doc 3 ")
	assert.Contains(t, lines[2], "doc 2 ")
	assert.Contains(t, lines[3], "doc 0 ")
}

func TestSearchCommandErrors(t *testing.T) {
	dir := t.TempDir()
	corpus := writeFile(t, dir, "corpus.yaml", testCorpus)

	t.Run("corpus is required", func(t *testing.T) {
		_, err := runApp(t, "search", "--term", "body:fox")
		require.Error(t, err)
	})
	t.Run("query is required", func(t *testing.T) {
		_, err := runApp(t, "search", "--corpus", corpus)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--query or --term")
	})
	t.Run("bad term", func(t *testing.T) {
		_, err := runApp(t, "search", "--corpus", corpus, "--term", "fox")
		require.Error(t, err)
	})
	t.Run("count must be positive", func(t *testing.T) {
		_, err := runApp(t, "search", "--corpus", corpus, "--term", "body:fox", "--count", "0")
		require.Error(t, err)
		assert.ErrorIs(t, err, search.ErrArgument)
	})
	t.Run("missing corpus file", func(t *testing.T) {
		_, err := runApp(t, "search", "--corpus", filepath.Join(dir, "nope.yaml"), "--term", "body:fox")
		require.Error(t, err)
	})
}

func TestExplainCommand(t *testing.T) {
	dir := t.TempDir()
	corpus := writeFile(t, dir, "corpus.yaml", testCorpus)
	tree := writeFile(t, dir, "query.yaml", booleanTree)

	out, err := runApp(t, "explain", "--corpus", corpus, "--query", tree, "--doc", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "quick")
	assert.Contains(t, out, "coord(1/2)")

	_, err = runApp(t, "explain", "--corpus", corpus, "--query", tree, "--doc", "3")
	require.Error(t, err)
}

func TestParseQueryTree(t *testing.T) {
	q, err := parseQueryTree([]byte(booleanTree))
	require.NoError(t, err)
	bq, ok := q.(*search.BooleanQuery)
	require.True(t, ok)
	assert.Equal(t, "+quick fox", bq.ToString("body"))

	q, err = parseQueryTree([]byte(`
type: span_near
field: body
slop: 1
inOrder: true
boost: 2
clauses:
  - {type: span_term, text: quick}
  - {type: span_prefix, text: fo}
`))
	require.NoError(t, err)
	near, ok := q.(*spans.SpanNearQuery)
	require.True(t, ok)
	assert.Equal(t, 1, near.Slop())
	assert.True(t, near.InOrder())
	assert.Len(t, near.Clauses(), 2)
	assert.Equal(t, float32(2), near.Boost())

	q, err = parseQueryTree([]byte(`
type: span_not
field: body
include: {type: span_term, text: quick}
exclude: {type: span_term, text: fox}
`))
	require.NoError(t, err)
	assert.IsType(t, &spans.SpanNotQuery{}, q)
}

func TestParseQueryTreeErrors(t *testing.T) {
	for name, tree := range map[string]string{
		"unknown type":        "{type: nope, field: body}",
		"missing field":       "{type: term, text: fox}",
		"bad occur":           "{type: boolean, field: body, clauses: [{type: term, text: a, occur: maybe}]}",
		"term inside span":    "{type: span_or, field: body, clauses: [{type: term, text: a}]}",
		"span_first clauses":  "{type: span_first, field: body, end: 1}",
		"span_not no exclude": "{type: span_not, field: body, include: {type: span_term, text: a}}",
		"field mismatch":      "{type: span_or, field: body, clauses: [{type: span_term, text: a}, {type: span_term, field: title, text: b}]}",
		"not yaml":            "[",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseQueryTree([]byte(tree))
			assert.Error(t, err)
		})
	}
}

func TestParseSortFlag(t *testing.T) {
	app := newApp()
	app.Writer, app.ErrWriter = &bytes.Buffer{}, &bytes.Buffer{}
	var got []string
	app.Commands = []*cli.Command{{
		Name:  "sorts",
		Flags: []cli.Flag{&cli.StringSliceFlag{Name: "sort"}},
		Action: func(c *cli.Context) error {
			got = c.StringSlice("sort")
			return nil
		},
	}}
	require.NoError(t, app.Run([]string{"gosearch", "sorts", "--sort", "price:integer!", "--sort", "score"}))
	require.Equal(t, []string{"price:integer!", "score"}, got)
	sf, err := search.ParseSortField(got[0])
	require.NoError(t, err)
	assert.Equal(t, "price", sf.Field())
	assert.True(t, sf.Reverse())
}
