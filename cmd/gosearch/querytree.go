package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/balzaczyy/gosearch/core/index/model"
	"github.com/balzaczyy/gosearch/core/search"
	"github.com/balzaczyy/gosearch/core/search/spans"
)

/*
queryNode is one node of a YAML query tree, e.g.

	type: boolean
	field: body
	clauses:
	  - {type: term, text: quick, occur: must}
	  - {type: phrase, terms: [quick, fox], slop: 1, occur: should}

A node without a field inherits the field of its parent.
*/
type queryNode struct {
	Type         string       `yaml:"type"`
	Field        string       `yaml:"field"`
	Text         string       `yaml:"text"`
	Terms        []string     `yaml:"terms"`
	Boost        float32      `yaml:"boost"`
	Occur        string       `yaml:"occur"`
	Slop         int          `yaml:"slop"`
	InOrder      bool         `yaml:"inOrder"`
	End          int          `yaml:"end"`
	MinSim       float32      `yaml:"minSimilarity"`
	PrefixLength int          `yaml:"prefixLength"`
	Lower        *string      `yaml:"lower"`
	Upper        *string      `yaml:"upper"`
	IncludeLower bool         `yaml:"includeLower"`
	IncludeUpper bool         `yaml:"includeUpper"`
	Clauses      []*queryNode `yaml:"clauses"`
	Include      *queryNode   `yaml:"include"`
	Exclude      *queryNode   `yaml:"exclude"`
}

func loadQueryTree(path string) (search.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file %s: %w", path, err)
	}
	return parseQueryTree(data)
}

func parseQueryTree(data []byte) (search.Query, error) {
	var root queryNode
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing query tree: %w", err)
	}
	return root.build("")
}

// parseTermFlag reads the "field:text" form of --term.
func parseTermFlag(s string) (search.Query, error) {
	i := strings.IndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return nil, fmt.Errorf("term %q is not of the form field:text", s)
	}
	return search.NewTermQuery(model.NewTerm(s[:i], s[i+1:])), nil
}

func parseOccur(s string) (search.Occur, error) {
	switch strings.ToLower(s) {
	case "must":
		return search.MUST, nil
	case "should", "":
		return search.SHOULD, nil
	case "must_not", "mustnot":
		return search.MUST_NOT, nil
	}
	return 0, fmt.Errorf("unknown occur %q: must be one of must, should, must_not", s)
}

func (n *queryNode) build(field string) (search.Query, error) {
	if n.Field != "" {
		field = n.Field
	}
	var q search.Query
	var err error
	if strings.HasPrefix(n.Type, "span_") {
		q, err = n.buildSpan(field)
	} else {
		q, err = n.buildQuery(field)
	}
	if err != nil {
		return nil, err
	}
	if n.Boost != 0 {
		q.SetBoost(n.Boost)
	}
	return q, nil
}

func (n *queryNode) requireField(field string) error {
	if field == "" {
		return fmt.Errorf("%v query has no field", n.Type)
	}
	return nil
}

func (n *queryNode) buildQuery(field string) (search.Query, error) {
	switch n.Type {
	case "match_all":
		return search.NewMatchAllQuery(), nil
	case "boolean":
		return n.buildBoolean(field)
	}
	if err := n.requireField(field); err != nil {
		return nil, err
	}
	switch n.Type {
	case "term":
		return search.NewTermQuery(model.NewTerm(field, n.Text)), nil
	case "multi_term":
		q := search.NewMultiTermQuery(field)
		for _, t := range n.Terms {
			q.AddTerm(t, 1)
		}
		return q, nil
	case "phrase":
		q := search.NewPhraseQuery(field)
		for _, t := range n.Terms {
			q.AddTerm(t, 1)
		}
		q.SetSlop(n.Slop)
		return q, nil
	case "prefix":
		return search.NewPrefixQuery(field, n.Text), nil
	case "wildcard":
		return search.NewWildcardQuery(field, n.Text), nil
	case "fuzzy":
		return search.NewFuzzyQueryConf(field, n.Text, n.MinSim, n.PrefixLength, 0)
	case "range":
		return search.NewRangeQuery(field, n.Lower, n.Upper, n.IncludeLower, n.IncludeUpper)
	case "typed_range":
		return search.NewTypedRangeQuery(field, n.Lower, n.Upper, n.IncludeLower, n.IncludeUpper)
	}
	return nil, fmt.Errorf("unknown query type %q", n.Type)
}

func (n *queryNode) buildBoolean(field string) (search.Query, error) {
	bq := search.NewBooleanQuery()
	for _, c := range n.Clauses {
		occur, err := parseOccur(c.Occur)
		if err != nil {
			return nil, err
		}
		sub, err := c.build(field)
		if err != nil {
			return nil, err
		}
		if _, err := bq.Add(sub, occur); err != nil {
			return nil, err
		}
	}
	return bq, nil
}

func (n *queryNode) buildSpan(field string) (spans.SpanQuery, error) {
	if err := n.requireField(field); err != nil {
		return nil, err
	}
	switch n.Type {
	case "span_term":
		return spans.NewSpanTermQuery(field, n.Text), nil
	case "span_multi_term":
		q := spans.NewSpanMultiTermQuery(field)
		for _, t := range n.Terms {
			q.AddTerm(t)
		}
		return q, nil
	case "span_prefix":
		return spans.NewSpanPrefixQuery(field, n.Text), nil
	case "span_first":
		if len(n.Clauses) != 1 {
			return nil, fmt.Errorf("span_first takes exactly one clause, got %v", len(n.Clauses))
		}
		match, err := n.Clauses[0].spanClause(field)
		if err != nil {
			return nil, err
		}
		return spans.NewSpanFirstQuery(match, n.End), nil
	case "span_or":
		clauses, err := n.spanClauses(field)
		if err != nil {
			return nil, err
		}
		return spans.NewSpanOrQuery(clauses...)
	case "span_near":
		clauses, err := n.spanClauses(field)
		if err != nil {
			return nil, err
		}
		return spans.NewSpanNearQuery(n.Slop, n.InOrder, clauses...)
	case "span_not":
		if n.Include == nil || n.Exclude == nil {
			return nil, fmt.Errorf("span_not needs both include and exclude")
		}
		inc, err := n.Include.spanClause(field)
		if err != nil {
			return nil, err
		}
		exc, err := n.Exclude.spanClause(field)
		if err != nil {
			return nil, err
		}
		return spans.NewSpanNotQuery(inc, exc)
	}
	return nil, fmt.Errorf("unknown span query type %q", n.Type)
}

func (n *queryNode) spanClause(field string) (spans.SpanQuery, error) {
	q, err := n.build(field)
	if err != nil {
		return nil, err
	}
	sq, ok := q.(spans.SpanQuery)
	if !ok {
		return nil, fmt.Errorf("%v cannot be used inside a span query", n.Type)
	}
	return sq, nil
}

func (n *queryNode) spanClauses(field string) ([]spans.SpanQuery, error) {
	ans := make([]spans.SpanQuery, 0, len(n.Clauses))
	for _, c := range n.Clauses {
		sq, err := c.spanClause(field)
		if err != nil {
			return nil, err
		}
		ans = append(ans, sq)
	}
	return ans, nil
}
