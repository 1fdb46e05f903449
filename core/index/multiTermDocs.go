package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/balzaczyy/gosearch/core/index/model"
	"github.com/balzaczyy/gosearch/core/util"
)

/*
MultiTermDocPosEnum unions the positional postings of several terms of
one field, as if they were a single term. The frequency on a document
is the sum of the frequencies of the terms, and positions come out in
increasing order.
*/
type MultiTermDocPosEnum struct {
	queue     *util.PriorityQueue[model.TermDocEnum]
	doc       int
	positions []int
	posIdx    int
}

func NewMultiTermDocPosEnum(r IndexReader, field string, terms []string) *MultiTermDocPosEnum {
	ans := &MultiTermDocPosEnum{
		queue: util.NewPriorityQueue(len(terms), func(a, b model.TermDocEnum) bool {
			return a.Doc() < b.Doc()
		}),
		doc: -1,
	}
	for _, text := range terms {
		tpe := r.TermPositions()
		tpe.Seek(model.NewTerm(field, text))
		if tpe.Next() {
			ans.queue.Insert(tpe)
		} else {
			tpe.Close()
		}
	}
	return ans
}

func (e *MultiTermDocPosEnum) Seek(t model.Term) {
	panic(fmt.Sprintf("MultiTermDocPosEnum does not support seeking to %v", t))
}

func (e *MultiTermDocPosEnum) Next() bool {
	if e.queue.Len() == 0 {
		e.doc = math.MaxInt32
		return false
	}
	e.positions = e.positions[:0]
	e.posIdx = 0
	e.doc = e.queue.Top().Doc()
	for e.queue.Len() > 0 && e.queue.Top().Doc() == e.doc {
		top := e.queue.Top()
		for i, freq := 0, top.Freq(); i < freq; i++ {
			e.positions = append(e.positions, top.NextPosition())
		}
		if top.Next() {
			e.queue.UpdateTop()
		} else {
			e.queue.Pop().Close()
		}
	}
	sort.Ints(e.positions)
	return true
}

func (e *MultiTermDocPosEnum) SkipTo(target int) bool {
	for e.queue.Len() > 0 && e.queue.Top().Doc() < target {
		top := e.queue.Top()
		if top.SkipTo(target) {
			e.queue.UpdateTop()
		} else {
			e.queue.Pop().Close()
		}
	}
	return e.Next()
}

func (e *MultiTermDocPosEnum) Doc() int  { return e.doc }
func (e *MultiTermDocPosEnum) Freq() int { return len(e.positions) }

func (e *MultiTermDocPosEnum) NextPosition() int {
	if e.posIdx >= len(e.positions) {
		return -1
	}
	e.posIdx++
	return e.positions[e.posIdx-1]
}

func (e *MultiTermDocPosEnum) Close() (err error) {
	for e.queue.Len() > 0 {
		if e2 := e.queue.Pop().Close(); e2 != nil && err == nil {
			err = e2
		}
	}
	return
}
