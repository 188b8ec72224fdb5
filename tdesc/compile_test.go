package tdesc

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/apparentlymart/instrinfo/instrinfo"
	"github.com/apparentlymart/instrinfo/seqtable"
)

func TestCompileToy(t *testing.T) {
	tgt, sched := loadToy(t)

	tables, err := instrinfo.Compile(tgt, sched, instrinfo.WithStringPool(seqtable.New()))
	if err != nil {
		t.Fatalf("Compile(): %v", err)
	}

	num := func(name string) int {
		v, ok := tables.Instructions.Value(name)
		if !ok {
			t.Fatalf("no instruction %s", name)
		}
		return v
	}

	add := tables.Descriptors[num("ADD")]
	sub := tables.Descriptors[num("SUB")]
	if add.OperandInfo != sub.OperandInfo || add.OperandInfo == 0 {
		t.Errorf("ADD and SUB: got operand info %d and %d, want one shared list", add.OperandInfo, sub.OperandInfo)
	}
	if add.ImplicitDefs != sub.ImplicitDefs {
		t.Errorf("ADD and SUB: got implicit defs %d and %d, want one shared list", add.ImplicitDefs, sub.ImplicitDefs)
	}

	cmov := tables.OperandInfo(num("CMOV"))
	want := []instrinfo.OperandInfo{
		{RegClass: 1, RegClassSym: "Toy::GR32RegClassID", Type: "OPERAND_REGISTER"},
		{RegClass: 1, RegClassSym: "Toy::GR32RegClassID", Flags: instrinfo.FlagPredicate, Type: "OPERAND_UNKNOWN"},
		{RegClass: 1, RegClassSym: "Toy::GR32RegClassID", Flags: instrinfo.FlagPredicate, Type: "OPERAND_UNKNOWN", Constraint: 1},
	}
	if diff := cmp.Diff(want, cmov); diff != "" {
		t.Errorf("CMOV operand info (-want, +got)\n%s", diff)
	}

	load := tables.Descriptors[num("LOAD")]
	if load.NumOperands != 4 || load.NumDefs != 2 {
		t.Errorf("LOAD: got %d operands and %d defs, want 4 and 2", load.NumOperands, load.NumDefs)
	}
	if diff := cmp.Diff([]string{"HAS_OPTIONAL_DEF", "MAY_LOAD"}, tables.Flags(num("LOAD"))); diff != "" {
		t.Errorf("LOAD flags (-want, +got)\n%s", diff)
	}

	call := tables.Descriptors[num("CALL")]
	if call.DeprecatedFeature != 0 || call.DeprecatedFeatureName != "Toy::FeatureOld" || call.DeprecationCallback != "" {
		t.Errorf("CALL: got deprecation %d %q %q, want feature 0", call.DeprecatedFeature, call.DeprecatedFeatureName, call.DeprecationCallback)
	}

	ret := tables.Descriptors[num("RET")]
	if ret.DeprecatedFeature != -1 || ret.DeprecationCallback != "getRetDeprecationInfo" {
		t.Errorf("RET: got deprecation %d %q, want the Ret predicate", ret.DeprecatedFeature, ret.DeprecationCallback)
	}

	mov8, mov16 := num("MOV8"), num("MOV16")
	groups := tables.NameTable.Groups()
	shared := false
	for _, g := range groups {
		if cmp.Equal([]int{mov8, mov16}, g.Instructions) {
			shared = true
		}
	}
	if !shared {
		t.Errorf("MOV8 and MOV16 do not share a name table row: %+v", groups)
	}

	wantTypes := []instrinfo.EnumEntry{
		{Name: "i32imm", Value: 0},
		{Name: "brtarget", Value: 1},
		{Name: "pred", Value: 3},
		{Name: "cc_out", Value: 4},
		{Name: "mem", Value: 5},
	}
	if diff := cmp.Diff(wantTypes, tables.OperandTypes.Entries); diff != "" {
		t.Errorf("operand types (-want, +got)\n%s", diff)
	}

	for n := range tgt.Instructions {
		if got, want := tables.InstrName(n), tgt.Instructions[n].Name; got != want {
			t.Errorf("InstrName(%d): got %q, want %q", n, got, want)
		}
	}
}
