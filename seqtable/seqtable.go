// Package seqtable lays out a set of strings in a single NUL-terminated
// blob, storing any string that is a suffix of another only once.
package seqtable

import (
	"sort"
	"strings"
)

type Table struct {
	seqs    map[string]struct{}
	offsets map[string]int
	data    string
}

func New() *Table {
	return &Table{seqs: make(map[string]struct{})}
}

// Add records s. Adding after Layout requires another Layout.
func (t *Table) Add(s string) {
	t.seqs[s] = struct{}{}
	t.offsets = nil
}

// Layout assigns every added string its offset.
func (t *Table) Layout() {
	// Sorting by reversed string puts every string directly before the
	// block of strings it is a suffix of.
	revs := make([]string, 0, len(t.seqs))
	for s := range t.seqs {
		revs = append(revs, reverse(s))
	}
	sort.Strings(revs)

	t.offsets = make(map[string]int, len(revs))
	var b strings.Builder
	for i := len(revs) - 1; i >= 0; i-- {
		s := reverse(revs[i])
		if i+1 < len(revs) && strings.HasPrefix(revs[i+1], revs[i]) {
			host := reverse(revs[i+1])
			t.offsets[s] = t.offsets[host] + len(host) - len(s)
			continue
		}
		t.offsets[s] = b.Len()
		b.WriteString(s)
		b.WriteByte(0)
	}
	t.data = b.String()
}

// Offset returns the offset of s in Data.
func (t *Table) Offset(s string) (int, bool) {
	off, ok := t.offsets[s]
	return off, ok
}

// Data returns the laid out strings.
func (t *Table) Data() string {
	return t.data
}

// Len returns the number of distinct strings added.
func (t *Table) Len() int {
	return len(t.seqs)
}

func reverse(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[len(s)-1-i] = s[i]
	}
	return string(b)
}
