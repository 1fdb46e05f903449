package search

import (
	"bytes"
	"fmt"
	"strings"
)

// search/SortField.java

type SortType int

const (
	// Sort by document score (relevancy). Higher scores come first.
	SORT_TYPE_SCORE SortType = iota
	// Sort by document number (index order).
	SORT_TYPE_DOC
	// Sort by the order of the terms of a field: the first term in the
	// dictionary sorts first.
	SORT_TYPE_BYTE
	// Sort by the terms of a field parsed as integers.
	SORT_TYPE_INTEGER
	// Sort by the terms of a field parsed as floats.
	SORT_TYPE_FLOAT
	// Sort by the terms of a field as strings, using locale collation.
	SORT_TYPE_STRING
	// Guess INTEGER, FLOAT or STRING from the first term of the field.
	SORT_TYPE_AUTO
)

var sortTypeNames = map[SortType]string{
	SORT_TYPE_SCORE:   "<SCORE>",
	SORT_TYPE_DOC:     "<DOC>",
	SORT_TYPE_BYTE:    "<byte>",
	SORT_TYPE_INTEGER: "<integer>",
	SORT_TYPE_FLOAT:   "<float>",
	SORT_TYPE_STRING:  "<string>",
	SORT_TYPE_AUTO:    "<auto>",
}

func (t SortType) String() string {
	if name, ok := sortTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("<unknown %d>", int(t))
}

// ParseSortType maps names like "integer" or "<integer>" to a SortType.
func ParseSortType(name string) (SortType, error) {
	if len(name) > 1 && name[0] == '<' && name[len(name)-1] == '>' {
		name = name[1 : len(name)-1]
	}
	switch name {
	case "score", "SCORE":
		return SORT_TYPE_SCORE, nil
	case "doc", "DOC":
		return SORT_TYPE_DOC, nil
	case "byte":
		return SORT_TYPE_BYTE, nil
	case "integer", "int":
		return SORT_TYPE_INTEGER, nil
	case "float":
		return SORT_TYPE_FLOAT, nil
	case "string":
		return SORT_TYPE_STRING, nil
	case "auto", "":
		return SORT_TYPE_AUTO, nil
	}
	return SORT_TYPE_AUTO, argErrorf("unknown sort type %q", name)
}

/*
SortField names one key of a Sort. Score and doc keys have no field.
Reverse flips the natural order of the key: scores become ascending,
field values descending. The final tie-break on document number is
never reversed.
*/
type SortField struct {
	field   string
	typ     SortType
	reverse bool
}

var (
	SORT_FIELD_SCORE     = &SortField{typ: SORT_TYPE_SCORE}
	SORT_FIELD_SCORE_REV = &SortField{typ: SORT_TYPE_SCORE, reverse: true}
	SORT_FIELD_DOC       = &SortField{typ: SORT_TYPE_DOC}
	SORT_FIELD_DOC_REV   = &SortField{typ: SORT_TYPE_DOC, reverse: true}
)

func NewSortField(field string, typ SortType, reverse bool) *SortField {
	if typ == SORT_TYPE_SCORE || typ == SORT_TYPE_DOC {
		field = ""
	}
	return &SortField{field: field, typ: typ, reverse: reverse}
}

func (sf *SortField) Field() string  { return sf.field }
func (sf *SortField) Type() SortType { return sf.typ }
func (sf *SortField) Reverse() bool  { return sf.reverse }

/*
ParseSortField reads the "field:<type>!" form produced by String(),
also accepting a bare type name without brackets. A missing type means
AUTO; "score" and "doc" alone select those keys.
*/
func ParseSortField(s string) (*SortField, error) {
	reverse := false
	if n := len(s); n > 0 && s[n-1] == '!' {
		reverse = true
		s = s[:n-1]
	}
	field, typ := s, ""
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		field, typ = s[:i], s[i+1:]
	} else if t, err := ParseSortType(s); err == nil && (t == SORT_TYPE_SCORE || t == SORT_TYPE_DOC) {
		return NewSortField("", t, reverse), nil
	}
	t, err := ParseSortType(typ)
	if err != nil {
		return nil, err
	}
	if field == "" && t != SORT_TYPE_SCORE && t != SORT_TYPE_DOC {
		return nil, argErrorf("sort field %q has no field name", s)
	}
	return NewSortField(field, t, reverse), nil
}

// field:<type>!
func (sf *SortField) String() string {
	var buf bytes.Buffer
	if sf.field != "" {
		buf.WriteString(sf.field)
		buf.WriteRune(':')
	}
	buf.WriteString(sf.typ.String())
	if sf.reverse {
		buf.WriteRune('!')
	}
	return buf.String()
}

// search/Sort.java

/*
Sort is the ordered list of keys a sorted search compares hits by. An
empty Sort orders by score like an unsorted search.
*/
type Sort struct {
	fields []*SortField
}

func NewSort(fields ...*SortField) *Sort {
	return &Sort{fields: fields}
}

func (s *Sort) Add(sf *SortField) *Sort {
	s.fields = append(s.fields, sf)
	return s
}

func (s *Sort) Fields() []*SortField { return s.fields }
func (s *Sort) Size() int            { return len(s.fields) }

func (s *Sort) String() string {
	var buf bytes.Buffer
	buf.WriteString("Sort[")
	for i, sf := range s.fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(sf.String())
	}
	buf.WriteRune(']')
	return buf.String()
}
