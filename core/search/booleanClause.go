package search

import (
	"fmt"
)

type Occur int

var (
	MUST     = Occur(1)
	SHOULD   = Occur(2)
	MUST_NOT = Occur(3)
)

func (occur Occur) String() string {
	switch occur {
	case MUST:
		return "+"
	case SHOULD:
		return ""
	case MUST_NOT:
		return "-"
	}
	panic(fmt.Sprintf("invalid occur %d", int(occur)))
}

func (occur Occur) valid() bool {
	return occur == MUST || occur == SHOULD || occur == MUST_NOT
}

/* A clause in a BooleanQuery. */
type BooleanClause struct {
	query Query
	occur Occur
}

func NewBooleanClause(query Query, occur Occur) (*BooleanClause, error) {
	if !occur.valid() {
		return nil, configErrorf("invalid value for boolean clause occur: %d", int(occur))
	}
	return &BooleanClause{
		query: query,
		occur: occur,
	}, nil
}

func (c *BooleanClause) Query() Query { return c.query }
func (c *BooleanClause) Occur() Occur { return c.occur }

// SetOccur changes the occurrence of c, keeping the other flags in sync.
func (c *BooleanClause) SetOccur(occur Occur) error {
	if !occur.valid() {
		return configErrorf("invalid value for boolean clause occur: %d", int(occur))
	}
	c.occur = occur
	return nil
}

func (c *BooleanClause) IsProhibited() bool {
	return c.occur == MUST_NOT
}

func (c *BooleanClause) IsRequired() bool {
	return c.occur == MUST
}

func (c *BooleanClause) String() string {
	return c.occur.String() + c.query.ToString("")
}
