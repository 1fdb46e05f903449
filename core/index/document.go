package index

import (
	"bytes"
	"fmt"
)

// document/Document.java
/*
Documents are the unit of indexing and search.

A Document is a set of fields. Each field has a name and a textual
value which is tokenized when the document is added to an index.
*/
type Document struct {
	Fields []*Field
}

/** Constructs a new document with no fields. */
func NewDocument() *Document {
	return &Document{}
}

// Add appends a field holding text with a boost of 1.
func (doc *Document) Add(name, text string) *Document {
	doc.Fields = append(doc.Fields, NewField(name, text))
	return doc
}

func (doc *Document) AddField(f *Field) *Document {
	doc.Fields = append(doc.Fields, f)
	return doc
}

/*
Returns the string value of the field with the given name if any exist
in this document, or empty string. If multiple fields exist with this
name, this method returns the first value added.
*/
func (doc *Document) Get(name string) string {
	for _, f := range doc.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

func (doc *Document) String() string {
	var buf bytes.Buffer
	buf.WriteString("Document<")
	for i, f := range doc.Fields {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(f.String())
	}
	buf.WriteString(">")
	return buf.String()
}

type Field struct {
	Name  string
	Value string
	// Tokens overrides the tokenization of Value when set.
	Tokens []string
	// Boost scales the length norm of the field.
	Boost float32
	// OmitNorms indexes the field without length norms.
	OmitNorms bool
}

func NewField(name, value string) *Field {
	return &Field{Name: name, Value: value, Boost: 1}
}

func (f *Field) tokens() []string {
	if f.Tokens != nil {
		return f.Tokens
	}
	return Tokenize(f.Value)
}

func (f *Field) String() string {
	return fmt.Sprintf("%v:%v", f.Name, f.Value)
}
