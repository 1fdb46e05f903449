package model

import (
	"fmt"
	"sort"
)

type FieldInfo struct {
	// Field's name
	Name string
	// Internal field number
	Number int

	omitNorms bool
}

func NewFieldInfo(name string, number int, omitNorms bool) *FieldInfo {
	return &FieldInfo{Name: name, Number: number, omitNorms: omitNorms}
}

/* Returns true if norms are explicitly omitted for this field */
func (info *FieldInfo) OmitsNorms() bool { return info.omitNorms }

func (info *FieldInfo) String() string {
	return fmt.Sprintf("%v(%v)", info.Name, info.Number)
}

// Collection of FieldInfo(s) (accessible by number of by name)
type FieldInfos struct {
	byNumber []*FieldInfo
	byName   map[string]*FieldInfo
}

func NewFieldInfos() *FieldInfos {
	return &FieldInfos{byName: make(map[string]*FieldInfo)}
}

// Add registers the field if unknown and returns its info.
func (infos *FieldInfos) Add(name string, omitNorms bool) *FieldInfo {
	if fi, ok := infos.byName[name]; ok {
		return fi
	}
	fi := NewFieldInfo(name, len(infos.byNumber), omitNorms)
	infos.byNumber = append(infos.byNumber, fi)
	infos.byName[name] = fi
	return fi
}

/* Return the fieldinfo object referenced by the field name, or nil */
func (infos *FieldInfos) FieldInfo(name string) *FieldInfo {
	return infos.byName[name]
}

func (infos *FieldInfos) FieldInfoByNumber(number int) *FieldInfo {
	if number < 0 || number >= len(infos.byNumber) {
		return nil
	}
	return infos.byNumber[number]
}

func (infos *FieldInfos) Size() int { return len(infos.byNumber) }

// Names lists the field names in alphabetical order.
func (infos *FieldInfos) Names() []string {
	ans := make([]string, 0, len(infos.byNumber))
	for _, fi := range infos.byNumber {
		ans = append(ans, fi.Name)
	}
	sort.Strings(ans)
	return ans
}
