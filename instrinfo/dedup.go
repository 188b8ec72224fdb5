package instrinfo

import (
	"strconv"
	"strings"
)

// ListInterner assigns a shared id to every distinct list it is given.
// The empty list always has id 0, so that id can stand for "no list".
type ListInterner[E any] struct {
	key   func([]E) string
	ids   map[string]int
	lists [][]E
}

// NewListInterner returns an interner that compares lists by the
// encoding key returns. key must be order-sensitive and must return
// equal strings exactly for interchangeable lists.
func NewListInterner[E any](key func([]E) string) *ListInterner[E] {
	in := &ListInterner[E]{
		key: key,
		ids: make(map[string]int),
	}
	in.ids[key(nil)] = 0
	in.lists = append(in.lists, nil)
	return in
}

// Intern returns the id for list, allocating the next id the first time
// the list is seen.
func (in *ListInterner[E]) Intern(list []E) int {
	k := in.key(list)
	if id, ok := in.ids[k]; ok {
		return id
	}
	id := len(in.lists)
	in.ids[k] = id
	in.lists = append(in.lists, append([]E(nil), list...))
	return id
}

// Lookup returns the id of a list that has already been interned.
func (in *ListInterner[E]) Lookup(list []E) (int, bool) {
	id, ok := in.ids[in.key(list)]
	return id, ok
}

// Lists returns the distinct lists indexed by id. Entry 0 is the empty
// list.
func (in *ListInterner[E]) Lists() [][]E {
	return in.lists
}

// Len returns the number of distinct non-empty lists.
func (in *ListInterner[E]) Len() int {
	return len(in.lists) - 1
}

func newOperandInfoInterner() *ListInterner[OperandInfo] {
	return NewListInterner(operandInfoKey)
}

func newRegisterListInterner() *ListInterner[string] {
	return NewListInterner(func(regs []string) string {
		var b strings.Builder
		for i, r := range regs {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(r))
		}
		return b.String()
	})
}
