package search

import (
	"bytes"
	"fmt"
	"html"
)

// search/Explanation.java

/* Expert: Describes the score computation for document and query. */
type Explanation struct {
	value       float32        // the value of this node
	description string         // what it represents
	details     []*Explanation // sub-explanations
}

func NewExplanation(value float32, format string, args ...interface{}) *Explanation {
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}
	return &Explanation{value: value, description: format}
}

// Indicate whether or not this Explanation models a good match.
// By default, an Explanation represents a "match" if the value is positive.
func (exp *Explanation) IsMatch() bool       { return exp.value > 0.0 }
func (exp *Explanation) Value() float32      { return exp.value }
func (exp *Explanation) SetValue(v float32)  { exp.value = v }
func (exp *Explanation) Description() string { return exp.description }

// A short one line summary which should contain all high level
// information about this Explanation, without the Details.
func (exp *Explanation) Summary() string {
	return fmt.Sprintf("%v = %v", exp.value, exp.description)
}

// The sub-nodes of this explanation node.
func (exp *Explanation) Details() []*Explanation {
	return exp.details
}

// Adds a sub-node to this explanation node
func (exp *Explanation) AddDetail(detail *Explanation) *Explanation {
	exp.details = append(exp.details, detail)
	return exp
}

// Render an explanation as text.
func (exp *Explanation) String() string {
	var buf bytes.Buffer
	explanationToString(&buf, exp, 0)
	return buf.String()
}

func explanationToString(buf *bytes.Buffer, exp *Explanation, depth int) {
	assert(depth <= 1000) // potential dead loop
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
	buf.WriteString(exp.Summary())
	buf.WriteString("\n")

	for _, v := range exp.details {
		explanationToString(buf, v, depth+1)
	}
}

// Render an explanation as HTML.
func (exp *Explanation) ToHTML() string {
	var buf bytes.Buffer
	buf.WriteString("<ul>\n")
	buf.WriteString("<li>")
	buf.WriteString(html.EscapeString(exp.Summary()))
	buf.WriteString("<br />\n")
	for _, v := range exp.details {
		buf.WriteString(v.ToHTML())
	}
	buf.WriteString("</li>\n")
	buf.WriteString("</ul>\n")
	return buf.String()
}
