package instrinfo

import (
	"fmt"
	"sort"
	"strings"
)

// NameTable maps (instruction, operand name) pairs to flattened operand
// positions. Instructions with the same name layout share one row.
type NameTable struct {
	names []string
	index map[string]int

	rows   []map[int]int
	groups [][]int
	rowOf  map[int]int
}

// RowGroup is a distinct operand layout and the instructions that use
// it.
type RowGroup struct {
	Row          []int
	Instructions []int
}

// BuildNameTable builds the table for the instructions that opted in to
// it. Instruction ids are positions in insts.
func BuildNameTable(insts []*Instruction) *NameTable {
	t := &NameTable{
		index: make(map[string]int),
		rowOf: make(map[int]int),
	}
	rowIDs := make(map[string]int)

	for id, inst := range insts {
		if !inst.UseNamedOperandTable {
			continue
		}

		row := make(map[int]int, len(inst.Operands))
		for _, op := range inst.Operands {
			idx, ok := t.index[op.Name]
			if !ok {
				idx = len(t.names)
				t.index[op.Name] = idx
				t.names = append(t.names, op.Name)
			}
			row[idx] = op.Position
		}

		k := rowKey(row)
		r, ok := rowIDs[k]
		if !ok {
			r = len(t.rows)
			rowIDs[k] = r
			t.rows = append(t.rows, row)
			t.groups = append(t.groups, nil)
		}
		t.groups[r] = append(t.groups[r], id)
		t.rowOf[id] = r
	}

	return t
}

func rowKey(row map[int]int) string {
	idxs := make([]int, 0, len(row))
	for idx := range row {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)

	var b strings.Builder
	for _, idx := range idxs {
		fmt.Fprintf(&b, "%d:%d,", idx, row[idx])
	}
	return b.String()
}

// Names returns the registered operand names, indexed by name id.
func (t *NameTable) Names() []string {
	return t.names
}

// Index returns the id of an operand name.
func (t *NameTable) Index(name string) (int, bool) {
	idx, ok := t.index[name]
	return idx, ok
}

// Lookup returns the flattened position of the operand with name id
// nameIdx in instruction inst, or -1 if it has no such operand.
func (t *NameTable) Lookup(inst, nameIdx int) int {
	if len(t.names) == 0 {
		return -1
	}
	r, ok := t.rowOf[inst]
	if !ok {
		return -1
	}
	pos, ok := t.rows[r][nameIdx]
	if !ok {
		return -1
	}
	return pos
}

// Rows returns the distinct rows, each expanded to one entry per
// registered name with -1 for absent names.
func (t *NameTable) Rows() [][]int {
	ret := make([][]int, len(t.rows))
	for r, row := range t.rows {
		dense := make([]int, len(t.names))
		for i := range dense {
			dense[i] = -1
		}
		for idx, pos := range row {
			dense[idx] = pos
		}
		ret[r] = dense
	}
	return ret
}

// Groups pairs each of the rows from Rows with the instructions that
// share it.
func (t *NameTable) Groups() []RowGroup {
	rows := t.Rows()
	ret := make([]RowGroup, len(rows))
	for r, row := range rows {
		ret[r] = RowGroup{
			Row:          row,
			Instructions: t.groups[r],
		}
	}
	return ret
}

// Enum returns the operand name enumeration.
func (t *NameTable) Enum() Enum {
	e := Enum{Name: "OpName"}
	for i, name := range t.names {
		e.Entries = append(e.Entries, EnumEntry{Name: name, Value: i})
	}
	e.End = EnumEntry{Name: "OPERAND_LAST", Value: len(t.names)}
	return e
}
