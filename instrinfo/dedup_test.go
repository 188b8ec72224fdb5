package instrinfo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListInterner(t *testing.T) {
	in := newRegisterListInterner()

	if id, ok := in.Lookup(nil); !ok || id != 0 {
		t.Fatalf("Lookup(empty): got %d, %v, want 0, true", id, ok)
	}

	eflags := in.Intern([]string{"EFLAGS"})
	esp := in.Intern([]string{"ESP", "EFLAGS"})
	again := in.Intern([]string{"EFLAGS"})
	swapped := in.Intern([]string{"EFLAGS", "ESP"})

	if eflags != 1 || esp != 2 || swapped != 3 {
		t.Fatalf("Intern(): got ids %d, %d, %d, want 1, 2, 3", eflags, esp, swapped)
	}
	if again != eflags {
		t.Fatalf("Intern(): repeat list got id %d, want %d", again, eflags)
	}

	want := [][]string{nil, {"EFLAGS"}, {"ESP", "EFLAGS"}, {"EFLAGS", "ESP"}}
	if diff := cmp.Diff(want, in.Lists()); diff != "" {
		t.Fatalf("Lists(): (-want, +got)\n%s", diff)
	}

	if _, ok := in.Lookup([]string{"EAX"}); ok {
		t.Fatalf("Lookup(): found a list that was never interned")
	}
}

func TestListInternerCopies(t *testing.T) {
	in := newRegisterListInterner()
	regs := []string{"EAX"}
	in.Intern(regs)
	regs[0] = "EBX"

	if got := in.Lists()[1][0]; got != "EAX" {
		t.Fatalf("Lists(): interned list changed with its source, got %q", got)
	}
}

func TestOperandInfoDedup(t *testing.T) {
	ns := "Toy"
	insts := []*Instruction{
		inst("ADD", 1, op("dst", gr32, 0), op("src1", gr32, 0), op("src2", gr32, 0)),
		inst("SUB", 1, op("dst", gr32, 0), op("src1", gr32, 0), op("src2", gr32, 0)),
		inst("ADDri", 1, op("dst", gr32, 0), op("src1", gr32, 0), op("imm", i32imm, 0)),
		inst("NOP", 0),
		inst("RET", 0),
	}

	in := newOperandInfoInterner()
	ids := make([]int, len(insts))
	keys := make([]string, len(insts))
	for i, in2 := range insts {
		infos, err := FlattenInstruction(ns, in2)
		if err != nil {
			t.Fatalf("FlattenInstruction(%s): %v", in2.Name, err)
		}
		ids[i] = in.Intern(infos)
		keys[i] = operandInfoKey(infos)
	}

	for i := range insts {
		for j := range insts {
			same := keys[i] == keys[j]
			if same != (ids[i] == ids[j]) {
				t.Errorf("%s and %s: same sequence %v, but ids %d and %d", insts[i].Name, insts[j].Name, same, ids[i], ids[j])
			}
		}
	}

	if ids[3] != 0 || ids[4] != 0 {
		t.Errorf("instructions without operands got ids %d and %d, want 0", ids[3], ids[4])
	}
	if in.Len() != 2 {
		t.Errorf("Len(): got %d distinct lists, want 2", in.Len())
	}
}
